package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogOutput temporarily redirects the default logger to a buffer at
// debug level in JSON format.
func captureLogOutput(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer

	oldLogger := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { defaultLogger = oldLogger }()

	f()
	return buf.String()
}

func decodeLine(t *testing.T, output string) map[string]any {
	t.Helper()
	var m map[string]any
	line := strings.TrimSpace(strings.Split(strings.TrimSpace(output), "\n")[0])
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("failed to decode log line %q: %v", line, err)
	}
	return m
}

func TestInitLoggerTo(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		format    Format
		logFunc   func()
		wantEmpty bool
		wantJSON  bool
	}{
		{"debug json", LevelDebug, FormatJSON, func() { defaultLogger.Debug("hello") }, false, true},
		{"info drops debug", LevelInfo, FormatJSON, func() { defaultLogger.Debug("hello") }, true, true},
		{"warn text", LevelWarn, FormatText, func() { defaultLogger.Warn("hello") }, false, false},
		{"error drops warn", LevelError, FormatText, func() { defaultLogger.Warn("hello") }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerTo(&buf, tt.level, tt.format)
			defer InitLogger(LevelWarn, FormatText)

			tt.logFunc()
			out := buf.String()
			if tt.wantEmpty {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			if !strings.Contains(out, "hello") {
				t.Errorf("output %q missing message", out)
			}
			if tt.wantJSON && !strings.HasPrefix(out, "{") {
				t.Errorf("expected JSON output, got %q", out)
			}
		})
	}
}

func TestReplaceAttrTimestamp(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelInfo, FormatJSON)
	defer InitLogger(LevelWarn, FormatText)

	Info("stamp")
	m := decodeLine(t, buf.String())
	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("time attr missing: %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range levels {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if ParseFormat("JSON") != FormatJSON || ParseFormat("text") != FormatText || ParseFormat("") != FormatText {
		t.Error("ParseFormat mapping wrong")
	}
}

func TestScanID(t *testing.T) {
	ctx := context.Background()
	if GetScanID(ctx) != "" {
		t.Error("empty context should have no scan ID")
	}

	id := NewScanID()
	if len(id) != 36 {
		t.Errorf("NewScanID() = %q, want a UUID string", id)
	}
	ctx = WithScanID(ctx, id)
	if got := GetScanID(ctx); got != id {
		t.Errorf("GetScanID() = %q, want %q", got, id)
	}

	out := captureLogOutput(t, func() {
		InfoContext(ctx, "with id")
	})
	if m := decodeLine(t, out); m["scan_id"] != id {
		t.Errorf("scan_id = %v, want %q", m["scan_id"], id)
	}
}

func TestLoggingFunctions(t *testing.T) {
	ctx := WithScanID(context.Background(), "scan-1")
	tests := []struct {
		name  string
		fn    func()
		level string
	}{
		{"Info", func() { Info("m") }, "INFO"},
		{"InfoContext", func() { InfoContext(ctx, "m") }, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := decodeLine(t, captureLogOutput(t, tt.fn))
			if m["level"] != tt.level {
				t.Errorf("level = %v, want %s", m["level"], tt.level)
			}
		})
	}
}

func TestNumberRunRecovered(t *testing.T) {
	out := captureLogOutput(t, func() {
		NumberRunRecovered("chapter", "abc", 0, "para-1", errors.New("invalid chapter number"))
	})
	m := decodeLine(t, out)
	if m["msg"] != "number_run_recovered" || m["kind"] != "chapter" || m["text"] != "abc" {
		t.Errorf("unexpected log record: %v", m)
	}
	if m["paragraph_id"] != "para-1" || m["offset"] != float64(0) {
		t.Errorf("unexpected log record: %v", m)
	}
}

func TestParagraphScanned(t *testing.T) {
	out := captureLogOutput(t, func() {
		ParagraphScanned(context.Background(), "para-2", "en", 3, "book", "GEN")
	})
	m := decodeLine(t, out)
	if m["segments"] != float64(3) || m["writing_system"] != "en" || m["book"] != "GEN" {
		t.Errorf("unexpected log record: %v", m)
	}
}

func TestScanFailed(t *testing.T) {
	out := captureLogOutput(t, func() {
		ScanFailed(context.Background(), "para-3", errors.New("paragraph content changed"))
	})
	m := decodeLine(t, out)
	if m["level"] != "ERROR" || m["error"] != "paragraph content changed" {
		t.Errorf("unexpected log record: %v", m)
	}
}

func TestExportFinished(t *testing.T) {
	out := captureLogOutput(t, func() {
		ExportFinished(context.Background(), "out.db", 4, 9, 1500*time.Millisecond)
	})
	m := decodeLine(t, out)
	if m["paragraphs"] != float64(4) || m["segments"] != float64(9) || m["duration_ms"] != float64(1500) {
		t.Errorf("unexpected log record: %v", m)
	}
}
