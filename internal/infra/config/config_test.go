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
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Download.Workers != 5 {
		t.Errorf("Workers = %d, want 5", cfg.Download.Workers)
	}
	if cfg.Download.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Download.MaxRetries)
	}
	if cfg.Download.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Download.Timeout())
	}
	if cfg.Catalogue.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", cfg.Catalogue.CacheTTL())
	}
	if cfg.Catalogue.URL == "" || cfg.Download.BaseURL == "" {
		t.Error("default endpoints are empty")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
download:
  workers: 2
  out_dir: /tmp/test-quran
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Download.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Download.Workers)
	}
	if cfg.Download.OutDir != "/tmp/test-quran" {
		t.Errorf("OutDir = %q", cfg.Download.OutDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Download.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.Download.MaxRetries)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load succeeded with a missing explicit config path")
	}
}

func TestValidateBackfillsBadValues(t *testing.T) {
	cfg := &Config{
		Catalogue: CatalogueConfig{URL: "https://example.com/api"},
		Download:  DownloadConfig{BaseURL: "https://example.com/quran", Workers: -1},
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if cfg.Download.Workers != 5 || cfg.Download.MaxRetries != 3 || cfg.Download.TimeoutSeconds != 30 {
		t.Errorf("validate did not back-fill defaults: %+v", cfg.Download)
	}
}
