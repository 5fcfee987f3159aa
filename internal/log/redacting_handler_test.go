package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newCapturedLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewRedactingHandler(handler)), &buf
}

// TestRedactingHandlerKeys tests masking by attribute key.
func TestRedactingHandlerKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "password", key: "password"},
		{name: "secret", key: "secret"},
		{name: "feed_secret", key: "feed_secret"},
		{name: "feed_url", key: "feed_url"},
		{name: "token", key: "token"},
		{name: "authorization", key: "authorization"},
		{name: "uppercase key still masked", key: "PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := newCapturedLogger()
			logger.Info("test", tt.key, "supersensitive")

			output := buf.String()
			if strings.Contains(output, "supersensitive") {
				t.Errorf("sensitive value leaked: %s", output)
			}
			if !strings.Contains(output, MaskValue) {
				t.Errorf("expected mask in output: %s", output)
			}
		})
	}
}

// TestRedactingHandlerPatterns tests masking by value pattern.
func TestRedactingHandlerPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{
			name:  "feed URL with embedded secret",
			value: "https://feeds.pinboard.in/json/secret:abc123/u:reader/toread/",
		},
		{
			name:  "basic auth header value",
			value: "Basic cmVhZGVyOmh1bnRlcjI=",
		},
		{
			name:  "api token format",
			value: "reader:0123456789ABCDEF0123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := newCapturedLogger()
			logger.Info("test", "url", tt.value)

			output := buf.String()
			if strings.Contains(output, tt.value) {
				t.Errorf("sensitive value leaked: %s", output)
			}
			if !strings.Contains(output, MaskValue) {
				t.Errorf("expected mask in output: %s", output)
			}
		})
	}
}

// TestRedactingHandlerPassthrough verifies ordinary attributes survive.
func TestRedactingHandlerPassthrough(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedLogger()
	logger.Info("fetched article", "url", "https://example.com/a", "status", 200)

	output := buf.String()
	if !strings.Contains(output, "https://example.com/a") {
		t.Errorf("ordinary URL was masked: %s", output)
	}
	if strings.Contains(output, MaskValue) {
		t.Errorf("unexpected mask in output: %s", output)
	}
}

// TestRedactingHandlerGroups tests masking inside attribute groups.
func TestRedactingHandlerGroups(t *testing.T) {
	t.Parallel()

	logger, buf := newCapturedLogger()
	logger.Info("test", slog.Group("request", slog.String("password", "hunter2"), slog.String("path", "/a")))

	output := buf.String()
	if strings.Contains(output, "hunter2") {
		t.Errorf("grouped sensitive value leaked: %s", output)
	}
	if !strings.Contains(output, "/a") {
		t.Errorf("ordinary grouped value was lost: %s", output)
	}
}

// TestRedactingHandlerWithAttrs tests masking of pre-bound attributes.
func TestRedactingHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewRedactingHandler(handler)).With("secret", "hunter2")

	logger.Info("test")

	output := buf.String()
	if strings.Contains(output, "hunter2") {
		t.Errorf("pre-bound sensitive value leaked: %s", output)
	}
}

// TestNewLogger tests level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("quiet by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("informational")
		logger.Warn("warning")

		output := buf.String()
		if strings.Contains(output, "informational") {
			t.Errorf("info logged at default level: %s", output)
		}
		if !strings.Contains(output, "warning") {
			t.Errorf("warning suppressed at default level: %s", output)
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("detail")

		if !strings.Contains(buf.String(), "detail") {
			t.Errorf("debug suppressed in verbose mode: %s", buf.String())
		}
	})
}
