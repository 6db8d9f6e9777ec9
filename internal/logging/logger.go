// Package logging provides the component logger used across the device.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger is the logging shape every package accepts. component is a short
// fixed tag such as "timer" or "panel".
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// FileLogger writes one plain-text line per record.
type FileLogger struct {
	mu *sync.Mutex
	w  io.Writer
}

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{mu: &sync.Mutex{}, w: w} }

func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	l.write("INFO", component, format, args...)
}

func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	l.write("ERROR", component, format, args...)
}

func (l FileLogger) write(level, component, format string, args ...interface{}) {
	if l.mu != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	writeLog(l.w, level, component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}

// SlogLogger adapts a *slog.Logger to Logger; the component becomes an attribute.
type SlogLogger struct {
	L *slog.Logger
}

func (l SlogLogger) Infof(component string, format string, args ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.Info(fmt.Sprintf(format, args...), slog.String("component", component))
}

func (l SlogLogger) Errorf(component string, format string, args ...interface{}) {
	if l.L == nil {
		return
	}
	l.L.Error(fmt.Sprintf(format, args...), slog.String("component", component))
}

// Runtime bundles a configured logger and its open file handle.
type Runtime struct {
	Logger Logger
	Path   string
	closer io.Closer
}

func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New opens path for appending and returns a logger writing to it.
// format is "text" (FileLogger lines) or "json" (slog JSONL).
func New(path, format string) (Runtime, error) {
	if path == "" {
		return Runtime{Logger: NoopLogger{}}, nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Runtime{}, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return Runtime{}, fmt.Errorf("open log %q: %w", path, err)
	}

	switch format {
	case "json":
		h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
		return Runtime{Logger: SlogLogger{L: slog.New(h)}, Path: path, closer: f}, nil
	case "", "text":
		return Runtime{Logger: NewFileLogger(f), Path: path, closer: f}, nil
	default:
		_ = f.Close()
		return Runtime{}, fmt.Errorf("unknown log format %q", format)
	}
}
