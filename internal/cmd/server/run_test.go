package serverrun

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cfgpkg "github.com/LabsCrypt/flowfi/internal/config"
	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
)

func TestGetenvDefault(t *testing.T) {
	t.Setenv("FLOWFI_TEST_VAR", "env_value")
	if got := getenvDefault("FLOWFI_TEST_VAR", "default"); got != "env_value" {
		t.Fatalf("set var: %q", got)
	}
	if got := getenvDefault("FLOWFI_TEST_VAR_UNSET", "default"); got != "default" {
		t.Fatalf("unset var: %q", got)
	}
}

func TestDataDirFallback(t *testing.T) {
	opts := Options{DataDir: ""}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.DataDir == "" {
		t.Fatal("expected DataDir after fallback")
	}
	if !filepath.IsAbs(opts.DataDir) && !strings.HasPrefix(opts.DataDir, "./") {
		t.Fatalf("expected absolute path or ./ fallback, got %s", opts.DataDir)
	}
}

// Run starts a real server; cancel quickly and expect a clean exit.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	opts := Options{
		DataDir:  t.TempDir(),
		HTTPAddr: ":0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfgpkg.Default(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := Run(ctx, opts)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
