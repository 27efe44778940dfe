// Package logconfig builds a log/slog.Handler from CLI flag strings.
package logconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatLogfmt  Format = "logfmt"
)

var (
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// CreateHandler builds a slog.Handler from raw --log-level/--log-format
// flag values.
func CreateHandler(w io.Writer, levelStr, formatStr string) (slog.Handler, error) {
	level, err := parseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("logconfig: %w", err)
	}
	format, err := parseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("logconfig: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	default:
		return slog.NewTextHandler(w, opts), nil
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
	}
}

func parseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatLogfmt, "":
		return FormatLogfmt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, s)
	}
}
