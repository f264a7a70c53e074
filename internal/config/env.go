package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays FLOWFI_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("FLOWFI_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("FLOWFI_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FLOWFI_FSYNC"); v != "" {
		cfg.Fsync = strings.ToLower(v)
	}
	if v := os.Getenv("FLOWFI_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("FLOWFI_ESCROW_ACCOUNT"); v != "" {
		cfg.EscrowAccount = v
	}
	if v := os.Getenv("FLOWFI_EVENT_TOPIC"); v != "" {
		cfg.EventTopic = v
	}
	if v := os.Getenv("FLOWFI_AUTH_MODE"); v != "" {
		cfg.Auth.Mode = strings.ToLower(v)
	}
	// FLOWFI_AUTH_KEYS holds comma-separated principal=hexsecret pairs.
	if v := os.Getenv("FLOWFI_AUTH_KEYS"); v != "" {
		keys := make(map[string]string)
		for _, pair := range strings.Split(v, ",") {
			pair = strings.TrimSpace(pair)
			if name, secret, ok := strings.Cut(pair, "="); ok && name != "" {
				keys[name] = secret
			}
		}
		cfg.Auth.Keys = keys
	}
	if v := os.Getenv("FLOWFI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("FLOWFI_LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
}
