package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thenoetrevino/relabel/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, config.LogConfig{Level: "info", Format: "json"})).Info("hello", "key", "about")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"key":"about"`) {
		t.Errorf("Expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	logger := slog.New(NewHandler(&buf, config.LogConfig{Level: "warn", Format: "text"}))
	logger.Info("dropped")
	logger.Warn("kept", "key", "about")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "key=about") {
		t.Errorf("Unexpected text output %q", buf.String())
	}
}

func TestInitWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "relabel.log")
	if err := Init(config.LogConfig{Level: "debug", Format: "text", File: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	slog.Debug("written", "key", "about")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("Log file missing entry: %q", data)
	}
}
