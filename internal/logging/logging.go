// Package logging builds the zerolog logger used by the command line.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger writing to w.
func New(w io.Writer, level zerolog.Level, color bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.TimeOnly}
	return zerolog.New(cw).With().Timestamp().Logger().Level(level)
}

// NewContext returns ctx carrying a logger built by New. Retrieve it with
// zerolog.Ctx.
func NewContext(ctx context.Context, w io.Writer, level zerolog.Level, color bool) context.Context {
	l := New(w, level, color)
	return l.WithContext(ctx)
}
