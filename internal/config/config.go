package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup. Values come from an
// optional YAML file, overridden by environment variables.
type Config struct {
	Port        string `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	TemplateDir string `yaml:"template_dir"`
	StaticDir   string `yaml:"static_dir"`
	MediaDir    string `yaml:"media_dir"`

	// CacheSeconds is the TTL of the page cache on the feed and group
	// pages. Zero disables caching.
	CacheSeconds int `yaml:"cache_seconds"`

	// SessionHours is the lifetime of a login session.
	SessionHours int `yaml:"session_hours"`
}

func Default() *Config {
	return &Config{
		Port:         "8080",
		DBPath:       "yatube.db",
		TemplateDir:  "web/templates",
		StaticDir:    "web/static",
		MediaDir:     "media",
		CacheSeconds: 20,
		SessionHours: 24,
	}
}

// Load reads the YAML file at path, if it exists, and applies environment
// overrides on top of it. An empty path or a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}
	cfg.Port = getEnv("YATUBE_PORT", cfg.Port)
	cfg.DBPath = getEnv("YATUBE_DB_PATH", cfg.DBPath)
	cfg.TemplateDir = getEnv("YATUBE_TEMPLATE_DIR", cfg.TemplateDir)
	cfg.StaticDir = getEnv("YATUBE_STATIC_DIR", cfg.StaticDir)
	cfg.MediaDir = getEnv("YATUBE_MEDIA_DIR", cfg.MediaDir)
	cfg.CacheSeconds = getEnvInt("YATUBE_CACHE_SECONDS", cfg.CacheSeconds)
	cfg.SessionHours = getEnvInt("YATUBE_SESSION_HOURS", cfg.SessionHours)
	return cfg, nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
