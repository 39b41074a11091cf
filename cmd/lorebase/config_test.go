package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lorebase.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
log_level: debug
notion:
  token: secret-token
  brand_page_id: page-1
  concepts_db: db-1
  components_db: db-2
backend:
  base_url: http://localhost:9000
cache:
  ttl_seconds: 60
`

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	// WHAT: File values land on top of defaults; untouched fields keep them.
	// WHY: A minimal config file must still yield a runnable setup.
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log level: got %q", cfg.LogLevel)
	}
	if cfg.TTL() != time.Minute {
		t.Errorf("ttl: got %v", cfg.TTL())
	}
	if cfg.Server.Transport != "stdio" || cfg.FetchLog.Path != "db/fetchlog.db" {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadConfig_EnvTokenOverride(t *testing.T) {
	// WHAT: NOTION_TOKEN beats the file value.
	// WHY: Secrets live in the environment, not in committed YAML.
	t.Setenv("NOTION_TOKEN", "env-token")

	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Notion.Token != "env-token" {
		t.Errorf("token: got %q", cfg.Notion.Token)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	// WHAT: Missing required fields and bad enum values are rejected.
	// WHY: Fail at startup, not at first fetch.
	bad := []string{
		"notion:\n  token: t\n", // missing ids and backend
		validConfig + "server:\n  transport: carrier-pigeon\n",
		`
notion:
  token: t
  brand_page_id: p
  concepts_db: a
  components_db: b
backend:
  base_url: http://localhost:9000
cache:
  ttl_seconds: -5
`,
	}
	for i, body := range bad {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Errorf("config %d should fail validation", i)
		}
	}
}
