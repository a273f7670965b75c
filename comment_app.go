package pressroom

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nasermirzaei89/env"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/clients"
	"github.com/nasermirzaei89/pressroom/db/sqlstore"
	"github.com/nasermirzaei89/pressroom/discuss"
	"github.com/nasermirzaei89/pressroom/server"
	"github.com/nasermirzaei89/pressroom/web"
)

type CommentApp struct {
	server  *server.Server
	handler *web.Handler
	db      *sql.DB
}

func NewCommentApp(ctx context.Context) (*CommentApp, error) {
	db, dialect, err := openDB(ctx, sqlstore.MigrationsComments, "file:comments.db")
	if err != nil {
		return nil, err
	}

	authzClient, err := newAuthorizationClient(ctx, db, dialect)
	if err != nil {
		closeDB(ctx, db)

		return nil, err
	}

	postsClient := clients.NewPostsClient(env.GetString("POST_SERVICE_URL", "http://localhost:8080"), newHTTPClient())

	app := &CommentApp{
		server:  newServer(),
		handler: newCommentsHandler(db, dialect, postsClient, authzClient),
		db:      db,
	}

	return app, nil
}

func newCommentsHandler(
	db *sql.DB,
	dialect sqlstore.Dialect,
	postFinder discuss.PostFinder,
	authzClient *authorization.Client,
) *web.Handler {
	discussSvc := discuss.NewService(sqlstore.NewCommentRepository(db, dialect), postFinder)

	return web.NewCommentsHandler(discuss.NewAuthorizationMiddleware(authzClient, discussSvc), newWebConfig())
}

func (app *CommentApp) Run(ctx context.Context) error {
	// Handle SIGINT (CTRL+C) and SIGTERM gracefully.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer closeDB(ctx, app.db)

	err := app.server.Run(ctx, app.handler)
	if err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	return nil
}
