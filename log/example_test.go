package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/argot/log"
)

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelDebug),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Debug("debug message with caller info")
}

func Example_withAttributes() {
	logger := log.Make(os.Stderr).With(slog.String("element", "when"))

	logger.Info("parsing")
	logger.Debug("token", slog.String("input", "10:30"))
}

func Example_packageLevel() {
	log.Config(log.WithLevel(log.LevelTrace), log.WithFormat(log.FormatJSON))

	log.TraceContext(context.Background(), "date-time fallback to now",
		slog.String("key", "when"))
}
