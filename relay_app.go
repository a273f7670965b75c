package pressroom

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nasermirzaei89/pressroom/messaging/amqp"
)

// RelayApp owns the broker topology the other services rely on.
type RelayApp struct {
	broker *amqp.Broker
}

func NewRelayApp(_ context.Context) (*RelayApp, error) {
	broker, err := amqp.Dial(newAMQPConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}

	err = broker.DeclareTopology(reviewQueueName())
	if err != nil {
		_ = broker.Close()

		return nil, fmt.Errorf("failed to declare broker topology: %w", err)
	}

	return &RelayApp{broker: broker}, nil
}

// Run keeps the relay up until interrupted or the broker connection closes.
func (app *RelayApp) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		err := app.broker.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close message broker", "error", err)
		}
	}()

	slog.InfoContext(ctx, "messaging relay started", "queue", reviewQueueName())

	err := app.broker.Wait(ctx)
	if err != nil {
		return fmt.Errorf("messaging relay stopped: %w", err)
	}

	return nil
}
