package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultAndFile(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.Server.Name != "ndefd" || cfg.Store.Enabled {
		t.Fatalf("unexpected default config %+v", cfg)
	}

	cfg, err = loadConfig("config.toml")
	if err != nil {
		t.Fatalf("load config.toml: %v", err)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "local/messages" {
		t.Fatalf("unexpected store config %+v", cfg.Store)
	}
	if cfg.Limits.NDEF().Bounded() {
		t.Fatalf("expected unbounded limits")
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \"\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := run([]string{"--config", path}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
