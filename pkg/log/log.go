// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelInfo

	debug = "debug"
	warn  = "warn"
	info  = "info"
	errs  = "error"

	formatText = "text"
)

// Config controls the structured logger.
type Config struct {
	Level     string
	AddSource bool
	// Format is "json" (default) or "text".
	Format string
}

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context handler in the chain for derived loggers.
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context handler in the chain for derived loggers.
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// copy so sibling contexts never share a backing array
		next := make([]slog.Attr, 0, len(v)+1)
		next = append(next, v...)
		next = append(next, attr)
		return context.WithValue(parent, slogFields, next)
	}

	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}

// ConfigFromEnv reads LOG_LEVEL, LOG_ADD_SOURCE and LOG_FORMAT.
func ConfigFromEnv() Config {
	return Config{
		Level:     os.Getenv("LOG_LEVEL"),
		AddSource: os.Getenv("LOG_ADD_SOURCE") == "true",
		Format:    os.Getenv("LOG_FORMAT"),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case debug:
		return slog.LevelDebug
	case warn:
		return slog.LevelWarn
	case info:
		return slog.LevelInfo
	case errs:
		return slog.LevelError
	default:
		return logLevelDefault
	}
}

// NewLogger builds a context-aware logger writing to w.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	logOptions := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	if cfg.Format == formatText {
		h = slog.NewTextHandler(w, logOptions)
	} else {
		h = slog.NewJSONHandler(w, logOptions)
	}
	return slog.New(contextHandler{h})
}

// InitStructureLogConfig sets the structured log behavior. Logs go to
// stderr so command output on stdout stays machine readable.
func InitStructureLogConfig(cfg Config) {
	log.SetFlags(log.Llongfile)
	slog.SetDefault(NewLogger(os.Stderr, cfg))
	slog.Debug("log config",
		"level", parseLevel(cfg.Level).String(),
		"addSource", cfg.AddSource,
		"format", cfg.Format,
	)
}
