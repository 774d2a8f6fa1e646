// Package logger builds the JSON slog logger used by the residue commands.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Config selects where logs go. An empty Path discards them; "-" writes to
// stderr.
type Config struct {
	Path  string
	Debug bool
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Setup opens the log destination and returns the logger with a cleanup
// func that closes it. On error the returned logger discards.
func Setup(cfg Config) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if cfg.Path == "" {
		return Discard(), noop, nil
	}

	var (
		w       io.Writer = os.Stderr
		cleanup           = noop
		path              = "stderr"
	)
	if cfg.Path != "-" {
		path = filepath.Clean(cfg.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Discard(), noop, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return Discard(), noop, err
		}
		w = f
		cleanup = f.Close
	}

	l := New(w, cfg.Debug)
	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)
	return l, cleanup, nil
}

// New returns a JSON logger writing to w with UTC RFC3339Nano timestamps.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return slog.New(h)
}
