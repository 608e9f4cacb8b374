package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{name: "explicit debug level", config: &Config{Level: LevelDebug, Output: &bytes.Buffer{}}},
		{name: "explicit info level", config: &Config{Level: LevelInfo, Output: &bytes.Buffer{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.config)
			if logger == nil {
				t.Error("NewLogger() returned nil")
			}
		})
	}
}

func TestLoggerWithSession(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	sessionLogger := logger.WithSession(42)
	sessionLogger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "session_id=42") {
		t.Errorf("Expected session_id=42 in output, got: %s", output)
	}

	buf.Reset()
	txnLogger := sessionLogger.WithTransaction(7, "GetObjectInfo")
	txnLogger.Debug("handling transaction")

	output = buf.String()
	if !strings.Contains(output, "session_id=42") {
		t.Errorf("Expected session_id=42 carried over, got: %s", output)
	}
	if !strings.Contains(output, "tid=7") {
		t.Errorf("Expected tid=7 in output, got: %s", output)
	}
	if !strings.Contains(output, "op=GetObjectInfo") {
		t.Errorf("Expected op=GetObjectInfo in output, got: %s", output)
	}
}

func TestLoggerWithTransaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	txnLogger := logger.WithTransaction(123, "GetObject")
	txnLogger.Debug("processing request")

	output := buf.String()
	if !strings.Contains(output, "tid=123") {
		t.Errorf("Expected tid=123 in output, got: %s", output)
	}
	if !strings.Contains(output, "op=GetObject") {
		t.Errorf("Expected op=GetObject in output, got: %s", output)
	}
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	testErr := errors.New("test error")
	errorLogger := logger.WithError(testErr)
	errorLogger.Error("operation failed")

	output := buf.String()
	if !strings.Contains(output, "test error") {
		t.Errorf("Expected 'test error' in output, got: %s", output)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below configured level, got: %s", buf.String())
	}

	logger.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Errorf("Expected warn message to appear, got: %s", buf.String())
	}
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: LevelDebug, Output: &buf}))

	Debug("debug message", "key", "value")
	output := buf.String()
	if !strings.Contains(output, "debug message") {
		t.Errorf("Expected debug message, got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Expected key=value, got: %s", output)
	}

	buf.Reset()
	Info("info message")
	if !strings.Contains(buf.String(), "info message") {
		t.Errorf("Expected info message, got: %s", buf.String())
	}

	buf.Reset()
	Warn("warning message")
	if !strings.Contains(buf.String(), "warning message") {
		t.Errorf("Expected warning message, got: %s", buf.String())
	}

	buf.Reset()
	Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Errorf("Expected error message, got: %s", buf.String())
	}
}
