package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"daw-engine/internal/conf"
)

func TestInitCreatesLoggers(t *testing.T) {
	initOnce = sync.Once{}
	defer func() { initOnce = sync.Once{} }()

	Init(&conf.EngineConfig{Log: conf.LogConfig{Enabled: false, Level: "debug"}})

	if !IsInitialized() {
		t.Fatal("expected logging to report initialized after Init")
	}
	if Structured() == nil {
		t.Error("expected non-nil structured logger")
	}
	if HumanReadable() == nil {
		t.Error("expected non-nil human readable logger")
	}
}

func TestSetOutputWritesJSON(t *testing.T) {
	var structuredBuf, humanBuf bytes.Buffer

	if err := SetOutput(&structuredBuf, &humanBuf); err != nil {
		t.Fatalf("SetOutput failed: %v", err)
	}

	Structured().Info("engine started", "sample_rate", 44100)

	var decoded map[string]any
	if err := json.Unmarshal(structuredBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON line, got error: %v, content: %s", err, structuredBuf.String())
	}
	if decoded["msg"] != "engine started" {
		t.Errorf("expected msg 'engine started', got %v", decoded["msg"])
	}
}

func TestSetOutputRejectsNil(t *testing.T) {
	var buf bytes.Buffer
	if err := SetOutput(nil, &buf); err == nil {
		t.Error("expected error for nil structured writer")
	}
	if err := SetOutput(&buf, nil); err == nil {
		t.Error("expected error for nil human readable writer")
	}
}

func TestLevelFromString(t *testing.T) {
	cases := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"fatal":   LevelFatal,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := levelFromString(input); got != want {
			t.Errorf("levelFromString(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestForComponentAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	if err := SetOutput(&buf, &bytes.Buffer{}); err != nil {
		t.Fatalf("SetOutput failed: %v", err)
	}

	logger := ForComponent("mixer")
	logger.Info("track added")

	if !strings.Contains(buf.String(), `"component":"mixer"`) {
		t.Errorf("expected component attribute in output, got: %s", buf.String())
	}
}
