package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(Config{Level: level, Output: buf, Prefix: "test"})
	l.sink.now = func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return l
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("error %v is not ErrUnknownLevel", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "[WARN] test: shown 1") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] test: shown 2") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelDebug).
		WithComponent("aim").
		WithFields(map[string]any{"menu": "root", "b": 2})

	l.Info("decided")

	want := "2026-01-02T03:04:05.000 [INFO] test: decided {b=2, component=aim, menu=root}\n"
	if got := buf.String(); got != want {
		t.Errorf("line = %q, want %q", got, want)
	}
}

func TestChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := fixedLogger(&buf, LevelInfo)
	child := parent.WithField("k", "v")

	parent.SetLevel(LevelError)
	child.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("child wrote after parent raised level: %q", buf.String())
	}
	if child.Enabled(LevelWarn) {
		t.Error("child Enabled(Warn) = true, want false")
	}
}

func TestNullLogger(t *testing.T) {
	l := Null()
	if l.Enabled(LevelError) {
		t.Error("Null().Enabled(Error) = true")
	}
	l.Error("nothing")
}
