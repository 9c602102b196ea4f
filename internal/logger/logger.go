// Package logger holds the process-wide slog logger. Until Setup is called
// it discards everything, so library packages stay silent in tests.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"
)

// Config selects the destination and verbosity.
type Config struct {
	Debug  bool
	File   string    // Append to this file; empty means Writer or stderr
	Writer io.Writer // Used when File is empty; nil means stderr
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var (
	global atomic.Pointer[slog.Logger]

	mu      sync.Mutex
	logFile *os.File
)

func init() {
	global.Store(slog.New(nopHandler{}))
}

// Setup installs the process logger and routes gg's diagnostics through it.
// The returned cleanup closes the log file and restores the silent logger.
func Setup(cfg Config) (func() error, error) {
	var (
		w io.Writer = os.Stderr
		f *os.File
	)
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		var err error
		f, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		w = f
	case cfg.Writer != nil:
		w = cfg.Writer
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	l := slog.New(h)

	mu.Lock()
	prev := logFile
	logFile = f
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	global.Store(l)
	gg.SetLogger(l.With("component", "gg"))
	l.Debug("logger.initialized", "file", cfg.File, "debug", cfg.Debug)

	cleanup := func() error {
		global.Store(slog.New(nopHandler{}))
		gg.SetLogger(nil)

		mu.Lock()
		defer mu.Unlock()
		var cerr error
		if logFile != nil && logFile == f {
			cerr = logFile.Close()
			logFile = nil
		}
		return cerr
	}
	return cleanup, nil
}

// L returns the process logger.
func L() *slog.Logger {
	return global.Load()
}
