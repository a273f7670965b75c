// Package memory is an in-process broker.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nasermirzaei89/pressroom/messaging"
)

const queueBuffer = 64

type Broker struct {
	mu     sync.Mutex
	queues map[string]chan messaging.Message
}

var _ messaging.Broker = (*Broker)(nil)

func NewBroker() *Broker {
	return &Broker{
		queues: make(map[string]chan messaging.Message),
	}
}

func (b *Broker) queue(name string) chan messaging.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[name]
	if !ok {
		q = make(chan messaging.Message, queueBuffer)
		b.queues[name] = q
	}

	return q
}

func (b *Broker) Publish(ctx context.Context, queue string, msg messaging.Message) error {
	select {
	case b.queue(queue) <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns nil once ctx is done. Handler errors drop the message.
func (b *Broker) Consume(ctx context.Context, queue string, handler messaging.Handler) error {
	q := b.queue(queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-q:
			err := handler(ctx, msg)
			if err != nil {
				slog.ErrorContext(ctx, "message dropped", "queue", queue, "messageId", msg.ID, "error", err)
			}
		}
	}
}
