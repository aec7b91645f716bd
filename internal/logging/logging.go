// Package logging builds the charmbracelet logger used across the server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Output formats accepted by ParseFormat.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// Options holds configuration for the process logger.
type Options struct {
	Level           string
	Format          string
	Prefix          string
	ReportTimestamp bool
	Writer          io.Writer
}

// DefaultOptions returns default options for the process logger.
func DefaultOptions() Options {
	return Options{
		Level:           "info",
		Format:          FormatText,
		Prefix:          "playground",
		ReportTimestamp: true,
		Writer:          os.Stderr,
	}
}

// ParseLevel maps a level name (debug, info, warn, error, fatal) to a
// log.Level.
func ParseLevel(level string) (log.Level, error) {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("logging: invalid level %q", level)
	}
	return parsed, nil
}

// ParseFormat maps a format name to a log.Formatter.
func ParseFormat(format string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return log.TextFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("logging: invalid format %q (want text, json or logfmt)", format)
	}
}

// New creates a logger from opts.
func New(opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	formatter, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
		TimeFormat:      time.RFC3339,
	}), nil
}

// Discard returns a logger that drops everything. Tests and library
// defaults use it.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
