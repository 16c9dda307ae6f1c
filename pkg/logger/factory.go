package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit. Defaults to slog.LevelInfo.
	Level slog.Leveler
	// Output is the destination writer. Defaults to os.Stderr so pipeline
	// output (prompts, summaries) on stdout stays machine-readable.
	Output io.Writer
	// JSON switches from the human-readable text handler to JSON output.
	JSON bool
}

// New creates a logger for CLI use.
func New(cfg Config) *slog.Logger {
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		h = slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.New(h)
}

// Component returns a child logger tagged with the component name,
// e.g. "csv", "engine", "sidecar". Keeps log lines attributable without
// per-package logger globals.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With(slog.String("component", name))
}

// NewNope creates a no-op logger that discards all output.
// Use this as a default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
