package logging

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Debug("hidden", "player_id", 1)
	logger.With("session_id", "sess_1").InfoContext(context.Background(), "player added", "player_id", int64(11), "error", errors.New("none"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.UnmarshalString(lines[0], &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "player added" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["session_id"] != "sess_1" {
		t.Fatalf("expected session_id field, got %v", entry["session_id"])
	}
	if got, _ := entry["player_id"].(float64); got != 11 {
		t.Fatalf("expected player_id=11, got %v", entry["player_id"])
	}
	if entry["error"] != "none" {
		t.Fatalf("expected error field, got %v", entry["error"])
	}
}

func TestZapFields_OddArgs(t *testing.T) {
	fields := zapFields([]any{"a", 1, 2, "b", "dangling"})
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[1].Key != "arg" {
		t.Fatalf("expected non-string key to become arg, got %q", fields[1].Key)
	}
	if fields[2].Key != "dangling" {
		t.Fatalf("expected dangling key preserved, got %q", fields[2].Key)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%s want=%s", in, got, want)
		}
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
}

func TestLogger_FileSinkKeepsWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatConsole, Output: &buf, FilePath: path, FileMaxSizeMB: 1, FileMaxAgeDays: 1})

	logger.Info("player added", "player_id", 1)
	logger.Warn("player rejected", "rule", "country_quota")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(raw)
	if strings.Contains(content, "player added") {
		t.Fatalf("info entry should not reach the file: %s", content)
	}
	if !strings.Contains(content, "player rejected") || !strings.Contains(content, "country_quota") {
		t.Fatalf("expected warning in file, got %s", content)
	}
	if !strings.Contains(buf.String(), "player added") {
		t.Fatalf("expected info entry on primary output")
	}
}
