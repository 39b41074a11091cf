package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full lorebase configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Notion   NotionConfig   `yaml:"notion"`
	Backend  BackendConfig  `yaml:"backend"`
	Cache    CacheConfig    `yaml:"cache"`
	FetchLog FetchLogConfig `yaml:"fetchlog"`
	Server   ServerConfig   `yaml:"server"`
}

// NotionConfig points at the content provider.
type NotionConfig struct {
	BaseURL      string `yaml:"base_url"`
	Token        string `yaml:"token"`
	BrandPageID  string `yaml:"brand_page_id"`
	ConceptsDB   string `yaml:"concepts_db"`
	ComponentsDB string `yaml:"components_db"`
}

// BackendConfig points at the analytics API.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// CacheConfig tunes snapshot freshness.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// FetchLogConfig configures the refresh history database.
type FetchLogConfig struct {
	Path           string `yaml:"path"`
	RetentionHours int    `yaml:"retention_hours"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	Transport string `yaml:"transport"` // stdio | http
	Addr      string `yaml:"addr"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Cache:    CacheConfig{TTLSeconds: 300},
		FetchLog: FetchLogConfig{Path: "db/fetchlog.db", RetentionHours: 168},
		Server:   ServerConfig{Transport: "stdio", Addr: ":8090"},
	}
}

// LoadConfig reads a YAML config file, merged over defaults, with env
// overrides for secrets (NOTION_TOKEN) and LOG_LEVEL.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, cfg.Validate()
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("notion token is required (config or NOTION_TOKEN)")
	}
	if c.Notion.BrandPageID == "" {
		return fmt.Errorf("notion.brand_page_id is required")
	}
	if c.Notion.ConceptsDB == "" || c.Notion.ComponentsDB == "" {
		return fmt.Errorf("notion.concepts_db and notion.components_db are required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be > 0")
	}
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport must be stdio or http, got %q", c.Server.Transport)
	}
	return nil
}

// TTL returns the snapshot time-to-live.
func (c *Config) TTL() time.Duration { return time.Duration(c.Cache.TTLSeconds) * time.Second }

// Retention returns the fetchlog retention window.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.FetchLog.RetentionHours) * time.Hour
}
