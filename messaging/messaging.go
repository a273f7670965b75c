// Package messaging carries events between services through a message broker.
package messaging

import (
	"context"
	"fmt"
	"time"
)

// Message is a single event on a queue.
type Message struct {
	ID          string
	ContentType string
	Body        []byte
	Timestamp   time.Time
}

// Handler processes one message. A returned error drops the message.
type Handler func(ctx context.Context, msg Message) error

type Broker interface {
	// Publish returns once the broker has accepted the message.
	Publish(ctx context.Context, queue string, msg Message) (err error)
	// Consume calls handler once per message, one at a time, until ctx is done.
	Consume(ctx context.Context, queue string, handler Handler) (err error)
}

type InvalidMessageError struct {
	MessageID string
	Reason    string
}

func (err InvalidMessageError) Error() string {
	return fmt.Sprintf("invalid message %q: %s", err.MessageID, err.Reason)
}
