package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewFile_WritesAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.log")

	logger, err := NewFile(path, "warn")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	logger.Infow("hidden", "k", 1)
	logger.Warnw("visible", "k", 2)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("expected info entry filtered at warn level")
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "WARN") {
		t.Errorf("expected warn entry in log, got %q", out)
	}
}
