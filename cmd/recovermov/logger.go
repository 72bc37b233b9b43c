package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/randomouscrap98/recovermov/carve"
)

var logLevels = map[string]slog.Level{
	"trace": carve.LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger writes human readable text when w is a terminal and json
// otherwise, so output piped into other tools stays parseable.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, ok := logLevels[level]
	if !ok {
		lvl = slog.LevelInfo
	}
	options := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == carve.LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}
	var handler slog.Handler
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
