// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observe builds the diagnostic logger and keeps credentials out
// of its output.
package observe

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// NewLogger creates a zerolog logger writing to out according to cfg.
// Format "console" renders human-readable lines; anything else is JSON.
func NewLogger(cfg types.LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	level := parseLevel(cfg.Level)
	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}

// parseLevel converts a level name to a zerolog.Level, defaulting to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
