// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// ScanIDKey is the context key for scan IDs.
	ScanIDKey ContextKey = "scan_id"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Diagnostics go to stderr so stdout stays clean for segment output.
	InitLogger(LevelWarn, FormatText)
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

// ParseLevel converts a flag value ("debug", "info", "warn", "error") to a Level.
// Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
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

// ParseFormat converts a flag value ("json", "text") to a Format.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// InitLogger initializes the global logger on stderr with the specified level and format.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo initializes the global logger writing to w.
func InitLoggerTo(w io.Writer, level Level, format Format) {
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
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// NewScanID returns a fresh identifier for one document scan.
func NewScanID() string {
	return uuid.NewString()
}

// WithScanID adds a scan ID to the context.
func WithScanID(ctx context.Context, scanID string) context.Context {
	return context.WithValue(ctx, ScanIDKey, scanID)
}

// GetScanID retrieves the scan ID from the context.
func GetScanID(ctx context.Context) string {
	if scanID, ok := ctx.Value(ScanIDKey).(string); ok {
		return scanID
	}
	return ""
}

// LoggerFromContext returns a logger with context values attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if scanID := GetScanID(ctx); scanID != "" {
		logger = logger.With("scan_id", scanID)
	}
	return logger
}

// Helper functions for common logging patterns

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).Info(msg, args...)
}

// NumberRunRecovered logs a chapter or verse number run that was read as plain text.
func NumberRunRecovered(kind, text string, offset int, paragraphID string, err error) {
	defaultLogger.Debug("number_run_recovered",
		"kind", kind,
		"text", text,
		"offset", offset,
		"paragraph_id", paragraphID,
		"error", err.Error(),
	)
}

// ParagraphScanned logs the result of segmenting one paragraph.
func ParagraphScanned(ctx context.Context, paragraphID, writingSystem string, segments int, args ...any) {
	allArgs := []any{
		"paragraph_id", paragraphID,
		"writing_system", writingSystem,
		"segments", segments,
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Debug("paragraph_scanned", allArgs...)
}

// ScanFailed logs a paragraph whose scan was aborted.
func ScanFailed(ctx context.Context, paragraphID string, err error, args ...any) {
	allArgs := []any{
		"paragraph_id", paragraphID,
		"error", err.Error(),
	}
	allArgs = append(allArgs, args...)
	LoggerFromContext(ctx).Error("scan_failed", allArgs...)
}

// ExportFinished logs a completed segment export.
func ExportFinished(ctx context.Context, path string, paragraphs, segments int, duration time.Duration) {
	LoggerFromContext(ctx).Info("export_finished",
		"path", path,
		"paragraphs", paragraphs,
		"segments", segments,
		"duration_ms", duration.Milliseconds(),
	)
}
