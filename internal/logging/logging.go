// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

// Options controls logger construction.
type Options struct {
	Level slog.Level
	// JSON selects a JSON console handler instead of colored text.
	JSON bool
	// File, when set, receives a JSON copy of every record.
	File string
}

// New creates the logger described by opts and returns it with a cleanup
// function that closes the log file, if one was opened.
func New(opts Options) (*slog.Logger, func() error) {
	console := consoleHandler(os.Stderr, opts)
	if opts.File == "" {
		return slog.New(console), func() error { return nil }
	}

	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(console)
		logger.Error("failed to open log file, using console only", "error", err, "file", opts.File)
		return logger, func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: opts.Level})
	logger := slog.New(slogmulti.Fanout(console, fileHandler))
	return logger, file.Close
}

// NewWithWriters creates a fan-out logger over custom writers (for testing).
func NewWithWriters(console, file io.Writer, opts Options) *slog.Logger {
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(slogmulti.Fanout(consoleHandler(console, opts), fileHandler))
}

func consoleHandler(w io.Writer, opts Options) slog.Handler {
	if opts.JSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
