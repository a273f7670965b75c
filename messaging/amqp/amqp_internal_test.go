package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nasermirzaei89/pressroom/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type recordingAcknowledger struct {
	acked    bool
	rejected bool
	requeue  bool
}

func (a *recordingAcknowledger) Ack(uint64, bool) error {
	a.acked = true

	return nil
}

func (a *recordingAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.rejected = true
	a.requeue = requeue

	return nil
}

func (a *recordingAcknowledger) Reject(_ uint64, requeue bool) error {
	a.rejected = true
	a.requeue = requeue

	return nil
}

func TestHandleDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("ack on success", func(t *testing.T) {
		ack := &recordingAcknowledger{}

		var received messaging.Message

		handleDelivery(ctx, "review", amqp.Delivery{
			Acknowledger: ack,
			MessageId:    "m1",
			ContentType:  "application/json",
			Body:         []byte(`{}`),
		}, func(_ context.Context, msg messaging.Message) error {
			received = msg

			return nil
		})

		require.True(t, ack.acked)
		require.False(t, ack.rejected)
		require.Equal(t, "m1", received.ID)
		require.JSONEq(t, `{}`, string(received.Body))
	})

	t.Run("reject without requeue on failure", func(t *testing.T) {
		ack := &recordingAcknowledger{}

		handleDelivery(ctx, "review", amqp.Delivery{Acknowledger: ack, MessageId: "m2"},
			func(context.Context, messaging.Message) error {
				return errors.New("boom")
			})

		require.False(t, ack.acked)
		require.True(t, ack.rejected)
		require.False(t, ack.requeue)
	})
}

func TestConnectionClosedError(t *testing.T) {
	require.Equal(t, "amqp connection closed", ConnectionClosedError{}.Error())
	require.Contains(t, ConnectionClosedError{Queue: "review"}.Error(), `"review"`)
}

// fakePublisher closes itself after a failed publish, as the broker closes a
// channel on a channel exception.
type fakePublisher struct {
	failWith  error
	isClosed  bool
	published []amqp.Publishing
}

func (p *fakePublisher) publish(_ context.Context, _, _ string, msg amqp.Publishing) error {
	if p.isClosed {
		return amqp.ErrClosed
	}

	if p.failWith != nil {
		p.isClosed = true

		return p.failWith
	}

	p.published = append(p.published, msg)

	return nil
}

func (p *fakePublisher) closed() bool {
	return p.isClosed
}

func (p *fakePublisher) close() error {
	p.isClosed = true

	return nil
}

func newTestBroker(first publisher, next ...*fakePublisher) (*Broker, *int) {
	opened := 0

	return &Broker{
		exchange: DefaultExchange,
		pub:      first,
		openPublisher: func() (publisher, error) {
			if opened >= len(next) {
				return nil, errors.New("connection refused")
			}

			pub := next[opened]
			opened++

			return pub, nil
		},
	}, &opened
}

func TestBroker_Publish(t *testing.T) {
	ctx := context.Background()
	msg := messaging.Message{ID: "m1", ContentType: "application/json", Body: []byte(`{}`)}

	t.Run("publishes persistent messages", func(t *testing.T) {
		pub := &fakePublisher{}
		b, opened := newTestBroker(pub)

		err := b.Publish(ctx, "review", msg)
		require.NoError(t, err)

		require.Zero(t, *opened)
		require.Len(t, pub.published, 1)
		require.Equal(t, "m1", pub.published[0].MessageId)
		require.Equal(t, amqp.Persistent, pub.published[0].DeliveryMode)
	})

	t.Run("failure is reported and the channel is reopened", func(t *testing.T) {
		broken := &fakePublisher{failWith: &NotConfirmedError{Exchange: DefaultExchange, Key: "review"}}
		fresh := &fakePublisher{}
		b, opened := newTestBroker(broken, fresh)

		err := b.Publish(ctx, "review", msg)

		notConfirmedErr := &NotConfirmedError{}
		require.ErrorAs(t, err, &notConfirmedErr)

		err = b.Publish(ctx, "review", msg)
		require.NoError(t, err)

		require.Equal(t, 1, *opened)
		require.Len(t, fresh.published, 1)
	})

	t.Run("closed channel is reopened before publishing", func(t *testing.T) {
		fresh := &fakePublisher{}
		b, opened := newTestBroker(&fakePublisher{isClosed: true}, fresh)

		err := b.Publish(ctx, "review", msg)
		require.NoError(t, err)

		require.Equal(t, 1, *opened)
		require.Len(t, fresh.published, 1)
	})

	t.Run("reopen failure is retried on the next publish", func(t *testing.T) {
		b, opened := newTestBroker(&fakePublisher{isClosed: true})

		err := b.Publish(ctx, "review", msg)
		require.Error(t, err)

		fresh := &fakePublisher{}
		b.openPublisher = func() (publisher, error) {
			*opened++

			return fresh, nil
		}

		err = b.Publish(ctx, "review", msg)
		require.NoError(t, err)
		require.Len(t, fresh.published, 1)
	})
}

func TestRetryWhileQueueMissing(t *testing.T) {
	notFound := &amqp.Error{Code: amqp.NotFound, Reason: "NOT_FOUND - no queue 'review'"}

	t.Run("waits for the queue", func(t *testing.T) {
		calls := 0

		err := retryWhileQueueMissing(context.Background(), "review", time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return fmt.Errorf("failed to consume queue: %w", notFound)
			}

			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("other errors stop at once", func(t *testing.T) {
		calls := 0

		err := retryWhileQueueMissing(context.Background(), "review", time.Millisecond, func() error {
			calls++

			return &ConnectionClosedError{Queue: "review"}
		})

		closedErr := &ConnectionClosedError{}
		require.ErrorAs(t, err, &closedErr)
		require.Equal(t, 1, calls)
	})

	t.Run("stops when ctx is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := retryWhileQueueMissing(ctx, "review", time.Hour, func() error {
			return notFound
		})
		require.NoError(t, err)
	})
}

func TestPublishErrors(t *testing.T) {
	require.Contains(t, NotConfirmedError{Exchange: "pressroom", Key: "review"}.Error(), `"review"`)
	require.Contains(t, UnroutableMessageError{Exchange: "pressroom", Key: "review", Reason: "NO_ROUTE"}.Error(), "NO_ROUTE")
}
