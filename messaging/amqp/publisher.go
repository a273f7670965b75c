package amqp

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	closed() bool
	close() error
}

// confirmPublisher publishes mandatory messages on a channel in confirm mode.
type confirmPublisher struct {
	ch      *amqp.Channel
	returns chan amqp.Return
}

func openConfirmPublisher(conn *amqp.Connection) (*confirmPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open publish channel: %w", err)
	}

	err = ch.Confirm(false)
	if err != nil {
		_ = ch.Close()

		return nil, fmt.Errorf("failed to put publish channel in confirm mode: %w", err)
	}

	return &confirmPublisher{
		ch:      ch,
		returns: ch.NotifyReturn(make(chan amqp.Return, 1)),
	}, nil
}

func (p *confirmPublisher) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	confirmation, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, true, false, msg)
	if err != nil {
		return err
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for publish confirmation: %w", err)
	}

	// the broker sends a return before the confirmation of the same message
	if ret, ok := p.returned(msg.MessageId); ok {
		return &UnroutableMessageError{Exchange: exchange, Key: key, Reason: ret.ReplyText}
	}

	if !acked {
		return &NotConfirmedError{Exchange: exchange, Key: key}
	}

	return nil
}

func (p *confirmPublisher) returned(messageID string) (amqp.Return, bool) {
	for {
		select {
		case ret, ok := <-p.returns:
			if !ok {
				return amqp.Return{}, false
			}

			if ret.MessageId == messageID {
				return ret, true
			}
		default:
			return amqp.Return{}, false
		}
	}
}

func (p *confirmPublisher) closed() bool {
	return p.ch.IsClosed()
}

func (p *confirmPublisher) close() error {
	return p.ch.Close()
}

type NotConfirmedError struct {
	Exchange string
	Key      string
}

func (err NotConfirmedError) Error() string {
	return fmt.Sprintf("broker did not confirm message to %q with key %q", err.Exchange, err.Key)
}

type UnroutableMessageError struct {
	Exchange string
	Key      string
	Reason   string
}

func (err UnroutableMessageError) Error() string {
	return fmt.Sprintf("message to %q with key %q was not routed: %s", err.Exchange, err.Key, err.Reason)
}
