package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nasermirzaei89/pressroom"
)

func main() {
	ctx := context.Background()

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.ErrorContext(ctx, "failed to load .env file", "error", err)
		os.Exit(1)
	}

	pressroom.SetupLogging()

	app, err := pressroom.NewCommentApp(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create comment service", "error", err)
		os.Exit(1)
	}

	err = app.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run comment service", "error", err)
		os.Exit(1)
	}
}
