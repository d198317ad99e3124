package app

import (
	"fmt"
	"io"
	"log/slog"
)

// newLogger builds an isolated slog.Logger for one App instance; the
// process-wide default logger is never touched. Level and format are
// validated at the flag layer, so an unknown value reaching this point is
// rejected rather than silently downgraded to a default.
func newLogger(levelStr, formatStr string, outW io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", levelStr, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch formatStr {
	case "json":
		handler = slog.NewJSONHandler(outW, opts)
	case "text":
		handler = slog.NewTextHandler(outW, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", formatStr)
	}

	return slog.New(handler), nil
}
