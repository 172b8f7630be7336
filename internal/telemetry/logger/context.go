package logger

import "context"

type contextKey string

const (
	loggerKey   contextKey = "dictcore.logger"
	runIDKey    contextKey = "dictcore.run_id"
	dictNameKey contextKey = "dictcore.dict"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID tags the context with a benchmark run or REPL session ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithDictName tags the context with the name of the dictionary in use.
func WithDictName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, dictNameKey, name)
}

// DictNameFromContext extracts the dictionary name from context.
func DictNameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(dictNameKey).(string); ok {
		return name
	}
	return ""
}

// L is a shorthand for FromContext that also enriches the logger with the
// run ID and dictionary name from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := RunIDFromContext(ctx); id != "" {
		l = l.With("run_id", id)
	}
	if name := DictNameFromContext(ctx); name != "" {
		l = l.With("dict", name)
	}
	return l
}
