// Package logging builds the zerolog logger shared by folio's components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options select where and how much folio logs.
type Options struct {
	// File receives JSON log lines. Empty means Console is used instead.
	File string
	// Level is a zerolog level name; unknown names fall back to info.
	Level string
	// Console, when File is empty, receives human-readable output.
	Console io.Writer
	Version string
}

// New returns a configured logger and a close function for the underlying file.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	noop := func() error { return nil }

	if strings.TrimSpace(opts.File) == "" {
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		return newLogger(writer, level, opts.Version), noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(file, level, opts.Version), file.Close, nil
}

func newLogger(w io.Writer, level zerolog.Level, version string) zerolog.Logger {
	ctx := zerolog.New(w).Level(level).With().Timestamp().Str("app", "folio")
	if version != "" {
		ctx = ctx.Str("version", version)
	}
	return ctx.Logger()
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
