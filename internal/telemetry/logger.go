package telemetry

import (
	"log/slog"
	"os"
)

// InitLogger installs a JSON slog logger as the process default. Handlers and
// background workers log through slog; startup failures still go through the
// standard log package in main.
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
