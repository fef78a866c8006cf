package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func reset() {
	SetVerbose(false)
	SetFormat(FormatConsole)
	SetLevel(zapcore.ErrorLevel)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	output := buf.String()
	if !strings.Contains(output, "[DEBUG]") {
		t.Errorf("expected level prefix, got %q", output)
	}
	if !strings.Contains(output, "test message arg") {
		t.Errorf("expected formatted message, got %q", output)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Info("info message")
	Warn("warn message")
	Section("Stage")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestError_AlwaysLogged(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Error("failed: %v", "boom")

	if !strings.Contains(buf.String(), "failed: boom") {
		t.Errorf("expected error output, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Retrieval")

	if !strings.Contains(buf.String(), "=== Retrieval ===") {
		t.Errorf("expected section header, got %q", buf.String())
	}
}

func TestMessageWithoutArgs_NotFormatted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("100% done")

	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("expected literal message, got %q", buf.String())
	}
}

func TestSetFormat_JSON(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat(FormatJSON)
	SetLevel(zapcore.InfoLevel)

	L().Info("request", zap.String("method", "GET"), zap.Int("status", 200))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "request" || entry["method"] != "GET" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("expected ts field")
	}
}

func TestSetLevel_Info(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(zapcore.InfoLevel)

	Debug("hidden")
	Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("expected debug to be filtered at info level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected info to be logged at info level")
	}
}
