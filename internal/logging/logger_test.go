package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/middleware"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  slog.Level
		format string
	}{
		{
			name:   "json format with info level",
			level:  slog.LevelInfo,
			format: "json",
		},
		{
			name:   "text format with debug level",
			level:  slog.LevelDebug,
			format: "text",
		},
		{
			name:   "default format (json) with error level",
			level:  slog.LevelError,
			format: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level, tt.format)
			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
			if logger.Logger == nil {
				t.Fatal("expected non-nil underlying logger")
			}
		})
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := &Logger{Logger: slog.New(handler)}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "test-req-123")
	logger.WithContext(ctx).Info("test message")

	output := buf.String()
	if !strings.Contains(output, "test-req-123") {
		t.Errorf("expected request ID in log output, got: %s", output)
	}
	if !strings.Contains(output, "request_id") {
		t.Errorf("expected 'request_id' field in log output, got: %s", output)
	}

	buf.Reset()
	logger.WithContext(context.Background()).Info("bare message")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request_id without middleware context: %s", buf.String())
	}
}

func TestInfoContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := &Logger{Logger: slog.New(handler)}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "info-test-123")
	logger.InfoContext(ctx, "test info message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test info message") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "info-test-123") {
		t.Errorf("expected request ID in output, got: %s", output)
	}
	if !strings.Contains(output, "INFO") {
		t.Errorf("expected INFO level in output, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
