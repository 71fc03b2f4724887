package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey keeps this package's context values from colliding with keys
// set by other packages
type contextKey string

const (
	// LoggerKey holds the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey holds the request ID set by the HTTP middleware
	RequestIDKey contextKey = "request_id"
	// UserIDKey holds the authenticated officer's user ID
	UserIDKey contextKey = "user_id"
)

// WithContext attaches a logger to the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the logger attached to the context. Callers outside a
// request, such as startup code, get a no-op logger rather than a nil.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in the context and returns a logger
// that tags every line with it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return enrich(ctx, logger, RequestIDKey, "request_id", requestID)
}

// WithUserID stores the authenticated user ID in the context and returns a
// logger that tags every line with it. The JWT middleware calls this once
// the token is verified.
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return enrich(ctx, logger, UserIDKey, "user_id", userID)
}

func enrich(ctx context.Context, logger *zap.Logger, key contextKey, field, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	enriched := logger.With(zap.String(field, value))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID returns the request ID from the context, or empty
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetUserID returns the authenticated user ID from the context, or empty
func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
