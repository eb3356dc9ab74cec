package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Service string
	Env     string
	Level   string // debug, info, warn, error
	Format  string // text or json
	Output  io.Writer
}

// New builds the process logger. Every record carries the service and env
// attributes.
func New(o Options) *slog.Logger {
	out := o.Output
	if out == nil {
		out = os.Stdout
	}
	hopts := &slog.HandlerOptions{Level: parseLevel(o.Level)}

	var h slog.Handler
	if strings.EqualFold(o.Format, "json") {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}

	logger := slog.New(h)
	if o.Service != "" {
		logger = logger.With("service", o.Service)
	}
	if o.Env != "" {
		logger = logger.With("env", o.Env)
	}
	return logger
}

func parseLevel(s string) slog.Level {
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
