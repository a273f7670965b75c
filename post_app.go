package pressroom

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nasermirzaei89/env"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/clients"
	"github.com/nasermirzaei89/pressroom/contents"
	"github.com/nasermirzaei89/pressroom/db/sqlstore"
	"github.com/nasermirzaei89/pressroom/markup"
	"github.com/nasermirzaei89/pressroom/messaging"
	"github.com/nasermirzaei89/pressroom/messaging/amqp"
	"github.com/nasermirzaei89/pressroom/notification"
	"github.com/nasermirzaei89/pressroom/server"
	"github.com/nasermirzaei89/pressroom/web"
	"golang.org/x/sync/errgroup"
)

// PostApp runs the post store: its HTTP API and the review decision consumer.
type PostApp struct {
	server   *server.Server
	handler  *web.Handler
	consumer *messaging.ReviewConsumer
	db       *sql.DB
	broker   *amqp.Broker
}

func NewPostApp(ctx context.Context) (*PostApp, error) {
	db, dialect, err := openDB(ctx, sqlstore.MigrationsPosts, "file:posts.db")
	if err != nil {
		return nil, err
	}

	authzClient, err := newAuthorizationClient(ctx, db, dialect)
	if err != nil {
		closeDB(ctx, db)

		return nil, err
	}

	broker, err := amqp.Dial(newAMQPConfig())
	if err != nil {
		closeDB(ctx, db)

		return nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}

	commentsClient := clients.NewCommentsClient(env.GetString("COMMENT_SERVICE_URL", "http://localhost:8081"), newHTTPClient())

	contentsSvc := newContentsService(db, dialect, commentsClient, newNotifier())

	app := &PostApp{
		server:   newServer(),
		handler:  newPostsHandler(contentsSvc, authzClient),
		consumer: messaging.NewReviewConsumer(broker, reviewQueueName(), contentsSvc),
		db:       db,
		broker:   broker,
	}

	return app, nil
}

func newContentsService(
	db *sql.DB,
	dialect sqlstore.Dialect,
	commentLister contents.CommentLister,
	notifier contents.Notifier,
) *contents.BaseService {
	return contents.NewService(sqlstore.NewPostRepository(db, dialect), commentLister, notifier)
}

func newPostsHandler(contentsSvc contents.Service, authzClient *authorization.Client) *web.Handler {
	return web.NewPostsHandler(
		contents.NewAuthorizationMiddleware(authzClient, contentsSvc),
		markup.NewRenderer(),
		newWebConfig(),
	)
}

func newNotifier() contents.Notifier {
	smtpHost := env.GetString("SMTP_HOST", "")
	if smtpHost == "" {
		slog.Warn("SMTP_HOST is not set, notifications are only logged")

		return notification.LogNotifier{}
	}

	return notification.NewMailer(notification.MailerConfig{
		SMTPHost:     smtpHost,
		SMTPPort:     getIntFromEnv("SMTP_PORT", notification.DefaultSMTPPort),
		SMTPUsername: env.GetString("SMTP_USERNAME", ""),
		SMTPPassword: env.GetString("SMTP_PASSWORD", ""),
		From:         env.GetString("MAIL_FROM", "pressroom@localhost"),
		To:           env.GetString("NOTIFY_MAIL_TO", "editors@localhost"),
	})
}

func newAMQPConfig() amqp.Config {
	return amqp.Config{
		URL:                env.GetString("AMQP_URL", amqp.DefaultURL),
		Exchange:           env.GetString("AMQP_EXCHANGE", amqp.DefaultExchange),
		QueueRetryInterval: getDurationFromEnv("AMQP_QUEUE_RETRY_INTERVAL", amqp.DefaultQueueRetryInterval),
	}
}

func reviewQueueName() string {
	return env.GetString("AMQP_REVIEW_QUEUE", messaging.ReviewQueue)
}

func (app *PostApp) Run(ctx context.Context) error {
	// Handle SIGINT (CTRL+C) and SIGTERM gracefully.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer closeDB(ctx, app.db)

	defer func() {
		err := app.broker.Close()
		if err != nil {
			slog.ErrorContext(ctx, "failed to close message broker", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := app.server.Run(ctx, app.handler)
		if err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return app.consumer.Run(ctx)
	})

	err := g.Wait()
	if err != nil {
		return fmt.Errorf("post service stopped: %w", err)
	}

	return nil
}
