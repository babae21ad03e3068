// Package logging provides structured logging on top of log/slog.
//
// A single process-wide logger is configured once by the command that owns
// the process. Domain helpers (Navigation, StateChange and friends) fix the
// message names so log queries stay stable.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// RequestIDKey is the context key for request IDs.
const RequestIDKey ContextKey = "request_id"

var defaultLogger *slog.Logger

func init() {
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

// Log levels, least severe first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format represents a log output format.
type Format int

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = iota
	// FormatText writes logfmt-style key=value lines.
	FormatText
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
// Anything else is LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseFormat maps "text" to FormatText; anything else is FormatJSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "text") {
		return FormatText
	}
	return FormatJSON
}

// InitLogger configures the global logger on stderr. Stdout is left for
// command output.
func InitLogger(level Level, format Format) {
	InitLoggerWithWriter(level, format, os.Stderr)
}

// InitLoggerWithWriter configures the global logger on w.
func InitLoggerWithWriter(level Level, format Format, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level: level.slogLevel(),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	}
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
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

// fromContext returns the global logger tagged with the request ID, if any.
func fromContext(ctx context.Context) *slog.Logger {
	if id := GetRequestID(ctx); id != "" {
		return defaultLogger.With("request_id", id)
	}
	return defaultLogger
}

// event logs msg with the fixed attributes first, then the caller's extras.
func event(ctx context.Context, level slog.Level, msg string, fixed []any, extra []any) {
	fromContext(ctx).Log(ctx, level, msg, append(fixed, extra...)...)
}

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

// WarnContext logs a warning tagged with the request ID.
func WarnContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Warn(msg, args...)
}

// ErrorContext logs an error tagged with the request ID.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Error(msg, args...)
}

// HTTPRequest logs one served request.
func HTTPRequest(ctx context.Context, method, path, remoteAddr string, statusCode int, duration time.Duration, args ...any) {
	event(ctx, slog.LevelInfo, "http_request", []any{
		"method", method,
		"path", path,
		"remote_addr", remoteAddr,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	}, args)
}

// Navigation logs a chapter transition. source is what triggered it
// ("button", "swipe", "cli").
func Navigation(ctx context.Context, from, to, direction, source string, args ...any) {
	event(ctx, slog.LevelDebug, "navigation", []any{
		"from", from,
		"to", to,
		"direction", direction,
		"source", source,
	}, args)
}

// StateChange logs a mutation of the reader's stored state.
func StateChange(ctx context.Context, entity, action, key string, args ...any) {
	event(ctx, slog.LevelInfo, "state_change", []any{
		"entity", entity,
		"action", action,
		"key", key,
	}, args)
}

// WebSocketEvent logs a client joining or leaving the position stream.
func WebSocketEvent(name string, clientCount int, args ...any) {
	event(context.Background(), slog.LevelInfo, "websocket_event", []any{
		"event", name,
		"client_count", clientCount,
	}, args)
}

// ServerStartup logs the address a server is about to listen on.
func ServerStartup(serverType, protocol string, port int, args ...any) {
	event(context.Background(), slog.LevelInfo, "server_startup", []any{
		"server_type", serverType,
		"protocol", protocol,
		"port", port,
	}, args)
}

// SecurityEvent logs CORS and origin decisions at warn level.
func SecurityEvent(name, component string, args ...any) {
	event(context.Background(), slog.LevelWarn, "security_event", []any{
		"event", name,
		"component", component,
	}, args)
}
