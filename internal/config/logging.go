package config

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns a colourised slog logger writing to w at the configured level.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      c.Level,
		TimeFormat: time.RFC3339,
	}))
}
