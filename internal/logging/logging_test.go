package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
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

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Level
	}{
		{"debug", "debug", LevelDebug},
		{"info", "info", LevelInfo},
		{"warn", "warn", LevelWarn},
		{"warning alias", "warning", LevelWarn},
		{"error", "error", LevelError},
		{"mixed case", "DEBUG", LevelDebug},
		{"unknown defaults to info", "verbose", LevelInfo},
		{"empty defaults to info", "", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, want FormatJSON", got)
	}
	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("ParseFormat(text) = %v, want FormatText", got)
	}
	if got := ParseFormat("xml"); got != FormatText {
		t.Errorf("ParseFormat(xml) = %v, want FormatText", got)
	}
}

func TestInitLogger(t *testing.T) {
	// Restore the default logger after the test
	old := defaultLogger
	defer func() { defaultLogger = old }()

	InitLogger(LevelDebug, FormatJSON)
	if GetLogger() == nil {
		t.Fatal("GetLogger() returned nil after InitLogger")
	}

	InitLogger(LevelWarn, FormatText)
	if GetLogger() == nil {
		t.Fatal("GetLogger() returned nil after re-init")
	}
}

func TestLogHelpers(t *testing.T) {
	out := captureLogOutput(func() {
		Debug("debug message", "key", "value")
		Info("info message")
		Warn("warn message")
		Error("error message")
	})

	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("log output missing structured attribute: %s", out)
	}
}

func TestParseEvent(t *testing.T) {
	out := captureLogOutput(func() {
		ParseEvent("LIFT", "dict.lift", 42, 15*time.Millisecond, "validated", true)
	})

	for _, want := range []string{"parse_complete", `"format":"LIFT"`, `"path":"dict.lift"`, `"count":42`, `"validated":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("ParseEvent output missing %q: %s", want, out)
		}
	}
}
