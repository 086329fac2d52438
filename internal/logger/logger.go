package logger

import (
	"context"
	"log/slog"
	"os"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Initialize configura el logger global una sola vez al arrancar el proceso.
// Sin flags solo se muestran warnings; --verbose baja a info y --debug a debug
// con ubicación en el código.
func Initialize(debug, verbose bool) {
	level := slog.LevelWarn

	if debug {
		level = slog.LevelDebug
	} else if verbose {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}

	handler := NewPrettyHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}
