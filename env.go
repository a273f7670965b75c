package pressroom

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/nasermirzaei89/env"
)

// getIntFromEnv falls back to def, with a warning, when the value is not an integer.
func getIntFromEnv(key string, def int) int {
	s := env.GetString(key, "")
	if s == "" {
		return def
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", s, "default", def)

		return def
	}

	return v
}

// getDurationFromEnv reads values such as "5s" or "1m30s".
func getDurationFromEnv(key string, def time.Duration) time.Duration {
	s := env.GetString(key, "")
	if s == "" {
		return def
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", s, "default", def)

		return def
	}

	return d
}
