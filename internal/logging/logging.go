// Package logging provides structured logging configuration using slog.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup configures the global slog logger with text output.
// If debug is true, sets level to Debug; otherwise Info.
// Output goes to the provided writer (defaults to os.Stderr if nil).
func Setup(debug bool, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(writerOrStderr(w), handlerOptions(debug))))
}

// SetupJSON configures the global slog logger with JSON output.
// If debug is true, sets level to Debug; otherwise Info.
// Output goes to the provided writer (defaults to os.Stderr if nil).
func SetupJSON(debug bool, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(writerOrStderr(w), handlerOptions(debug))))
}

func writerOrStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func handlerOptions(debug bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
