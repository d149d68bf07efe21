// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey ContextKey = "request_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// InitLogger initializes the global logger with the specified level and format.
func InitLogger(level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if requestID := GetRequestID(ctx); requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	return logger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// DebugContext logs a debug message with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Debug(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// WarnContext logs a warning message with context.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Error(msg, args...)
}

// PageVerified logs a successful checksum verification for one physical page.
func PageVerified(fileName string, page uint64, args ...any) {
	allArgs := []any{
		"file", fileName,
		"page", page,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Debug("page_verified", allArgs...)
}

// ChecksumMismatch logs a failed checksum verification.
func ChecksumMismatch(fileName string, page uint64, computed, stored uint32, args ...any) {
	allArgs := []any{
		"file", fileName,
		"page", page,
		"computed", computed,
		"stored", stored,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Error("checksum_mismatch", allArgs...)
}

// BackendOpened logs that a backend (file or memory) was successfully opened.
func BackendOpened(fileName, backend, mode string, args ...any) {
	allArgs := []any{
		"file", fileName,
		"backend", backend,
		"mode", mode,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("backend_opened", allArgs...)
}

// BackendClosed logs that a backend was closed.
func BackendClosed(fileName string, args ...any) {
	allArgs := []any{
		"file", fileName,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("backend_closed", allArgs...)
}

// ExtendStarted logs the beginning of a logical-length extend operation.
func ExtendStarted(fileName string, fromLength, toLength uint64, args ...any) {
	allArgs := []any{
		"file", fileName,
		"from_length", fromLength,
		"to_length", toLength,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("extend_started", allArgs...)
}

// ExtendFailed logs that an extend operation stopped partway, reporting the
// logical length actually made durable before the failure.
func ExtendFailed(fileName string, reachedLength uint64, err error, args ...any) {
	allArgs := []any{
		"file", fileName,
		"reached_length", reachedLength,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Error("extend_failed", allArgs...)
}

// UnlinkRemoveFailed logs a best-effort file removal failure during Unlink.
// Unlink never swallows this silently: it is always surfaced here even
// though the caller-visible error return ignores it once Close has already
// succeeded.
func UnlinkRemoveFailed(fileName string, err error, args ...any) {
	allArgs := []any{
		"file", fileName,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Warn("unlink_remove_failed", allArgs...)
}
