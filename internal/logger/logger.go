// Package logger builds the structured logger used by the shell and the
// library manager. Logs go to a file, never to the terminal the shell owns.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const fileName = "library.log"

type Config struct {
	// Dir holds library.log. Empty discards all records.
	Dir   string
	Debug bool
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Setup opens the log file and returns a JSON logger over it plus a cleanup
// that closes the file. On error the returned logger discards.
func Setup(cfg Config) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if cfg.Dir == "" {
		return Discard(), noop, nil
	}

	dir := filepath.Clean(cfg.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Discard(), noop, err
	}

	path := filepath.Join(dir, fileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return Discard(), noop, err
	}

	l := New(f, cfg.Debug)
	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)
	return l, f.Close, nil
}

// New builds the JSON logger over w. Debug lowers the level and adds source
// locations.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}))
}
