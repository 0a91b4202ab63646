package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBPath != "yatube.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CacheTTL() != 20*time.Second {
		t.Fatalf("cache ttl: %v", cfg.CacheTTL())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "port: \"9000\"\ndb_path: /tmp/blog.db\ncache_seconds: 5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("YATUBE_PORT", "9001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9001" {
		t.Fatalf("env must win over the file, got %q", cfg.Port)
	}
	if cfg.DBPath != "/tmp/blog.db" || cfg.CacheSeconds != 5 {
		t.Fatalf("file values lost: %+v", cfg)
	}
	// untouched fields keep their defaults
	if cfg.SessionHours != 24 {
		t.Fatalf("session hours: %d", cfg.SessionHours)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("a missing config file is not an error: %v", err)
	}
}
