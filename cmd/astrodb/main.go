// Command astrodb loads columnar astronomical catalogs into MongoDB,
// merging detections of the same object by sky-position proximity.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"
)

const envPrefix = "ASTRODB"

// logLevel reads ASTRODB_LOG_LEVEL, defaulting to info on absence or an
// unrecognized value.
func logLevel() slog.Level {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	switch strings.ToLower(v.GetString("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	// Logs go to stderr so stdout stays clean for commands that print data
	// (e.g. columns).
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("astrodb failed", "error", err)
		}
		os.Exit(1)
	}
}
