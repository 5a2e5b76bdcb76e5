package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/inventory-service/internal/config"
)

// NewSlogLogger creates the process logger writing to stdout and installs it
// as the slog default.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	log := New(cfg, os.Stdout)
	slog.SetDefault(log)

	return log
}

// New creates a logger writing to w in the configured format. Records are
// enriched with the correlation id and trace context found in their context.
func New(cfg config.Log, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Value.Kind() == slog.KindAny {
					if _, ok := a.Value.Any().(error); ok {
						return tint.Attr(9, a)
					}
				}
				return a
			},
		})
	}

	return slog.New(newContextHandler(handler))
}
