package pressroom

import (
	"io"
	"log/slog"
	"os"

	"github.com/nasermirzaei89/env"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogFileMaxSizeMB  = 100
	defaultLogFileMaxBackups = 5
)

// SetupLogging installs the default logger described by the environment.
func SetupLogging() {
	slog.SetDefault(slog.New(newLogHandler(logWriter())))
}

func newLogHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: GetLogLevelFromEnv(),
	}

	if env.GetString("LOG_FORMAT", "text") == "json" {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

func logWriter() io.Writer {
	logFile := env.GetString("LOG_FILE", "")
	if logFile == "" {
		return os.Stderr
	}

	return io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    getIntFromEnv("LOG_FILE_MAX_SIZE_MB", defaultLogFileMaxSizeMB),
		MaxBackups: getIntFromEnv("LOG_FILE_MAX_BACKUPS", defaultLogFileMaxBackups),
		Compress:   true,
	})
}

func GetLogLevelFromEnv() slog.Level {
	levelStr := env.GetString("LOG_LEVEL", "info")
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", levelStr)

		return slog.LevelInfo
	}
}
