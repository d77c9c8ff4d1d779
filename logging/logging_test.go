// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHandler_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pollify.log")

	handler, closer := NewHandler(slog.LevelWarn, path)
	logger := slog.New(handler)

	logger.Info("dropped below level")
	logger.Warn("poll deleted", "poll_id", 123456)

	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if strings.Contains(out, "dropped below level") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"poll deleted"`) || !strings.Contains(out, `"poll_id":123456`) {
		t.Errorf("expected JSON warn record, got %s", out)
	}
}

func TestSetup_InvalidLevel(t *testing.T) {
	if _, err := Setup("loud", ""); err == nil {
		t.Error("expected error for unknown level")
	}

	if !slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("default logger should be left untouched")
	}
}
