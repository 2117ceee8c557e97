package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactHandler(t *testing.T) {
	t.Parallel()

	t.Run("masks sensitive keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("request", "authorization", "Bearer abc123", "url", "https://example.com")

		out := buf.String()
		if strings.Contains(out, "abc123") {
			t.Errorf("credential leaked into log output: %s", out)
		}
		if !strings.Contains(out, MaskValue) {
			t.Errorf("expected mask value in output: %s", out)
		}
		if !strings.Contains(out, "https://example.com") {
			t.Errorf("non-sensitive attribute dropped: %s", out)
		}
	})

	t.Run("masks API-key-shaped values under any key", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("config", "value", "sk-abcdefghijklmnopqrstuvwx")

		if strings.Contains(buf.String(), "sk-abcdefghijklmnop") {
			t.Errorf("API key leaked into log output: %s", buf.String())
		}
	})

	t.Run("masks inside groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("request", slog.Group("headers", slog.String("Cookie", "session=xyz")))

		if strings.Contains(buf.String(), "session=xyz") {
			t.Errorf("grouped credential leaked: %s", buf.String())
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info logged at warn level: %s", out)
		}
		if !strings.Contains(out, "shown") {
			t.Errorf("warning missing: %s", out)
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		logger.Debug("details")

		if !strings.Contains(buf.String(), "details") {
			t.Errorf("debug missing in verbose mode: %s", buf.String())
		}
	})
}
