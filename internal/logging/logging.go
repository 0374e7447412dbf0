// Package logging builds the structured loggers used by the binaries.
//
// Logs always go to stderr in production: stdout carries the MCP protocol.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "ODF_LOG_LEVEL"
	EnvFormat = "ODF_LOG_FORMAT"
)

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a level.
// Anything else, including the empty string, is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns a logger writing to w at the given level. format "json"
// selects the JSON handler; anything else the text handler.
func New(w io.Writer, level slog.Leveler, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// FromEnv returns a stderr logger configured from ODF_LOG_LEVEL and
// ODF_LOG_FORMAT.
func FromEnv() *slog.Logger {
	return New(os.Stderr, ParseLevel(os.Getenv(EnvLevel)), os.Getenv(EnvFormat))
}

// Discard returns a logger that drops everything, for tests and library
// callers that pass no logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
