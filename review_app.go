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
	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/clients"
	"github.com/nasermirzaei89/pressroom/db/sqlstore"
	"github.com/nasermirzaei89/pressroom/messaging"
	"github.com/nasermirzaei89/pressroom/messaging/amqp"
	"github.com/nasermirzaei89/pressroom/reviews"
	"github.com/nasermirzaei89/pressroom/server"
	"github.com/nasermirzaei89/pressroom/web"
)

type ReviewApp struct {
	server  *server.Server
	handler *web.Handler
	db      *sql.DB
	broker  *amqp.Broker
}

func NewReviewApp(ctx context.Context) (*ReviewApp, error) {
	db, dialect, err := openDB(ctx, sqlstore.MigrationsReviews, "file:reviews.db")
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

	postsClient := clients.NewPostsClient(env.GetString("POST_SERVICE_URL", "http://localhost:8080"), newHTTPClient())

	app := &ReviewApp{
		server:  newServer(),
		handler: newReviewsHandler(db, dialect, postsClient, broker, authzClient),
		db:      db,
		broker:  broker,
	}

	return app, nil
}

func newReviewsHandler(
	db *sql.DB,
	dialect sqlstore.Dialect,
	postsClient *clients.PostsClient,
	broker messaging.Broker,
	authzClient *authorization.Client,
) *web.Handler {
	reviewsSvc := reviews.NewService(
		sqlstore.NewReviewRepository(db, dialect),
		// only editors reach reviews, and editors may read any post
		postsClient.WithRole(authcontext.RoleEditor),
		messaging.NewReviewPublisher(broker, reviewQueueName()),
	)

	return web.NewReviewsHandler(reviews.NewAuthorizationMiddleware(authzClient, reviewsSvc), newWebConfig())
}

func (app *ReviewApp) Run(ctx context.Context) error {
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

	err := app.server.Run(ctx, app.handler)
	if err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	return nil
}
