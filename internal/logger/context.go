package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds invocation-scoped logging context
type LogContext struct {
	Command   string    // Command being run
	Source    string    // Identity source type
	Operand   string    // Account operand, if any
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given command
func NewLogContext(command string) *LogContext {
	return &LogContext{
		Command:   command,
		StartTime: time.Now(),
	}
}

// WithSource returns a copy with the identity source set
func (lc *LogContext) WithSource(source string) *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	clone.Source = source
	return &clone
}

// WithOperand returns a copy with the account operand set
func (lc *LogContext) WithOperand(operand string) *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	clone.Operand = operand
	return &clone
}

// Elapsed returns milliseconds since StartTime
func (lc *LogContext) Elapsed() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return Duration(lc.StartTime)
}
