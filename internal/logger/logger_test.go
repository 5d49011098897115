package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"info", logrus.InfoLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithFields_JSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")
	t.Cleanup(func() {
		SetOutput(io.Discard)
	})

	WithFields(logrus.Fields{"gesture": "peace", "id": "abc"}).Info("reading recorded")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "reading recorded" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
	if entry["gesture"] != "peace" || entry["id"] != "abc" {
		t.Errorf("missing fields in %v", entry)
	}
	if entry["level"] != "info" {
		t.Errorf("unexpected level %v", entry["level"])
	}
}

func TestSetLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("warn")
	t.Cleanup(func() {
		SetLevel("info")
		SetOutput(io.Discard)
	})

	Debug("hidden")
	Info("hidden")
	Warn("shown")

	if bytes.Count(buf.Bytes(), []byte("\n")) != 1 {
		t.Errorf("expected exactly one line, got %q", buf.String())
	}
}
