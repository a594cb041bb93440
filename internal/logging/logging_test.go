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

	"github.com/google/uuid"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

// captureLogOutputWithInit captures output by reinitializing the logger
// on a buffer. This exercises the real InitLogger ReplaceAttr logic.
func captureLogOutputWithInit(level Level, format Format, f func()) string {
	var buf bytes.Buffer
	SetOutput(&buf)
	InitLogger(level, format)

	f()

	SetOutput(nil)
	InitLogger(LevelInfo, FormatText)
	return buf.String()
}

func decodeLine(t *testing.T, out string) map[string]any {
	t.Helper()
	var m map[string]any
	line := strings.TrimSpace(strings.Split(strings.TrimSpace(out), "\n")[0])
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		format Format
	}{
		{"Debug level JSON format", LevelDebug, FormatJSON},
		{"Warn level JSON format", LevelWarn, FormatJSON},
		{"Error level Text format", LevelError, FormatText},
		{"Default level (invalid value)", Level(999), FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitLogger(tt.level, tt.format)
			if GetLogger() == nil {
				t.Error("Expected logger to be initialized, got nil")
			}
		})
	}
	InitLogger(LevelInfo, FormatText)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestLevelFiltering(t *testing.T) {
	out := captureLogOutputWithInit(LevelWarn, FormatJSON, func() {
		Info("hidden")
		Warn("shown")
	})
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message missing")
	}
}

func TestReplaceAttrTimestamp(t *testing.T) {
	out := captureLogOutputWithInit(LevelInfo, FormatJSON, func() {
		Info("timestamped")
	})
	m := decodeLine(t, out)
	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("time attribute missing: %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestRunID(t *testing.T) {
	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewRunID() = %q is not a UUID: %v", id, err)
	}
	if NewRunID() == id {
		t.Error("run IDs should be unique")
	}

	ctx := WithRunID(context.Background(), id)
	if got := GetRunID(ctx); got != id {
		t.Errorf("GetRunID() = %q, want %q", got, id)
	}
	if got := GetRunID(context.Background()); got != "" {
		t.Errorf("GetRunID(empty) = %q", got)
	}
}

func TestLoggerFromContext(t *testing.T) {
	out := captureLogOutput(func() {
		LoggerFromContext(WithRunID(context.Background(), "run-1")).Info("with id")
	})
	if m := decodeLine(t, out); m["run_id"] != "run-1" {
		t.Errorf("run_id = %v", m["run_id"])
	}

	out = captureLogOutput(func() {
		LoggerFromContext(context.Background()).Info("without id")
	})
	if strings.Contains(out, "run_id") {
		t.Error("run_id should be absent without a run ID")
	}
}

func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		want string
	}{
		{"Info", func() { Info("info msg") }, "INFO"},
		{"Warn", func() { Warn("warn msg") }, "WARN"},
		{"Error", func() { Error("error msg") }, "ERROR"},
		{"DebugContext", func() { DebugContext(context.Background(), "m") }, "DEBUG"},
		{"WarnContext", func() { WarnContext(context.Background(), "m") }, "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureLogOutput(tt.fn)
			if !strings.Contains(out, `"level":"`+tt.want+`"`) {
				t.Errorf("output %q missing level %s", out, tt.want)
			}
		})
	}
}

func TestBatchEvents(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-7")

	out := captureLogOutput(func() { BatchStart(ctx, 3, 2, "out") })
	m := decodeLine(t, out)
	if m["msg"] != "batch_start" || m["inputs"] != float64(3) || m["workers"] != float64(2) || m["run_id"] != "run-7" {
		t.Errorf("batch_start = %v", m)
	}

	out = captureLogOutput(func() {
		FileConverted(ctx, "om.xml", "out/OM.cap", 3, "abc", 1500*time.Millisecond)
	})
	m = decodeLine(t, out)
	if m["msg"] != "file_converted" || m["output"] != "out/OM.cap" || m["blake3"] != "abc" || m["duration_ms"] != float64(1500) {
		t.Errorf("file_converted = %v", m)
	}

	out = captureLogOutput(func() {
		FileFailed(ctx, "bad.xml", "malformed_xml", errors.New("unexpected EOF"))
	})
	m = decodeLine(t, out)
	if m["level"] != "ERROR" || m["kind"] != "malformed_xml" || m["error"] != "unexpected EOF" {
		t.Errorf("file_failed = %v", m)
	}
}

func TestBatchDoneLevel(t *testing.T) {
	out := captureLogOutput(func() { BatchDone(context.Background(), 2, 0, time.Second) })
	if m := decodeLine(t, out); m["level"] != "INFO" {
		t.Errorf("clean run logged at %v", m["level"])
	}
	out = captureLogOutput(func() { BatchDone(context.Background(), 1, 1, time.Second) })
	if m := decodeLine(t, out); m["level"] != "WARN" || m["failed"] != float64(1) {
		t.Errorf("failed run = %v", m)
	}
}
