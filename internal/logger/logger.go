// Package logger builds the slog.Logger used for import progress output.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Output formats.
const (
	FormatAuto   = "auto"
	FormatPretty = "pretty"
	FormatText   = "text"
	FormatJSON   = "json"
)

// Options configures New.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // auto, pretty, text or json
}

// ParseLevel converts a level name to a slog.Level. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// ParseFormat validates a format name. The empty string is auto.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(s); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatPretty, FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid log format %q (want auto, pretty, text or json)", s)
	}
}

// New creates a logger writing to w. It does not set the global logger.
// In auto format the pretty handler is used when w is a terminal and the
// text handler otherwise. The pretty handler is coloured only on a terminal
// and when NO_COLOR is not set.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	if format == FormatAuto {
		format = FormatText
		if IsTerminal(w) {
			format = FormatPretty
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, handlerOpts)
	case FormatPretty:
		pretty := NewPrettyHandler(w, handlerOpts)
		if !IsTerminal(w) || color.NoColor {
			pretty = pretty.WithoutColor()
		}
		handler = pretty
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler), nil
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
