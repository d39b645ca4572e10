// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Logs to stderr for commands and to debug.log while the TUI owns the terminal.

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFileName is created inside the config directory for TUI sessions
const LogFileName = "debug.log"

// New builds a logger writing to w.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init configures the default slog logger to write to w
func Init(w io.Writer, level, format string) {
	slog.SetDefault(New(w, level, format))
}

// InitFile points the default logger at debug.log in configDir.
// If configDir is empty, log output is discarded. The returned closer
// must be called when the TUI exits.
func InitFile(configDir, level, format string) (io.Closer, error) {
	if configDir == "" {
		Init(io.Discard, level, format)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		Init(io.Discard, level, format)
		return io.NopCloser(nil), fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(configDir, LogFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		Init(io.Discard, level, format)
		return io.NopCloser(nil), fmt.Errorf("opening log file: %w", err)
	}

	Init(f, level, format)
	return f, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
