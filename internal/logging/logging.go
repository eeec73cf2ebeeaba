// Package logging builds the charmbracelet/log logger shared by every
// component.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line
const Prefix = "tally"

// Options holds configuration for the logger
type Options struct {
	Level     string
	Formatter string
}

// New creates a text logger writing to w at the given level. Timestamps are
// reported at debug level only.
func New(w io.Writer, level string) (*log.Logger, error) {
	return NewWithOptions(w, Options{Level: level})
}

// NewWithOptions creates a logger from string options as found in config
// files and flags
func NewWithOptions(w io.Writer, opts Options) (*log.Logger, error) {
	lvl := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		lvl = parsed
	}

	formatter, err := ParseFormatter(opts.Formatter)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: lvl <= log.DebugLevel,
		Prefix:          Prefix,
	}), nil
}

// ParseFormatter maps "text", "json" and "logfmt" to a formatter. Empty
// means text.
func ParseFormatter(name string) (log.Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("unknown log format %q", name)
	}
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard)
}
