package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDataDirXDGOverride(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got := DefaultDataDir(); got != "/custom/data/flowfi" {
		t.Fatalf("DefaultDataDir = %q, want /custom/data/flowfi", got)
	}
}

func TestDefaultDataDirShape(t *testing.T) {
	result := DefaultDataDir()
	if result == "" {
		t.Fatal("DefaultDataDir should not return empty string")
	}
	if !filepath.IsAbs(result) && !strings.HasPrefix(result, "./") {
		t.Fatalf("expected absolute path or ./ fallback, got %s", result)
	}
	if !strings.Contains(strings.ToLower(result), "flowfi") && result != "./data" {
		t.Fatalf("expected 'flowfi' in the path, got %s", result)
	}
	if again := DefaultDataDir(); again != result {
		t.Fatalf("DefaultDataDir not stable: %s vs %s", result, again)
	}
}

func TestIsDir(t *testing.T) {
	if !isDir(".") {
		t.Fatal("current directory should be a dir")
	}
	if isDir("/non/existent/path/that/does/not/exist") {
		t.Fatal("missing path should not be a dir")
	}
}
