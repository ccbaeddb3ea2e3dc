// Package logging wires a process-wide slog logger. Diagnostics go to
// stderr as JSON so stdout stays free for command output in every
// OUTPUT_FORMAT the CLI supports; an optional rotating file sink is added
// when a log file path is configured.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a slog.Logger writing JSON records to stderr, and additionally
// to a size-rotated file at logFilePath when one is given.
func New(level, logFilePath string) *slog.Logger {
	var w io.Writer = os.Stderr
	if logFilePath != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps a config string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
