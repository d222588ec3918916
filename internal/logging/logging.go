// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w.
// With debug set, everything down to Debug is emitted; otherwise only
// warnings and errors.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs a logger built by New as the slog default and returns it.
func Setup(w io.Writer, debug bool) *slog.Logger {
	l := New(w, debug)
	slog.SetDefault(l)
	return l
}
