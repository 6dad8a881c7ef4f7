package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Backend.BaseURL = "https://vivi.example.gov.br"
	cfg.Backend.TimeoutSeconds = 90

	if err := WriteConfig(tmpDir, cfg, false); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Backend.BaseURL != "https://vivi.example.gov.br" {
		t.Errorf("Backend.BaseURL: got %q", loaded.Backend.BaseURL)
	}
	if loaded.Backend.TimeoutSeconds != 90 {
		t.Errorf("Backend.TimeoutSeconds: got %d, want 90", loaded.Backend.TimeoutSeconds)
	}
}

func TestWriteConfigRefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()

	if err := WriteConfig(tmpDir, DefaultConfig(), false); err != nil {
		t.Fatalf("first WriteConfig failed: %v", err)
	}
	err := WriteConfig(tmpDir, DefaultConfig(), false)
	if !errors.Is(err, ErrConfigExists) {
		t.Fatalf("second WriteConfig: got %v, want ErrConfigExists", err)
	}
	if err := WriteConfig(tmpDir, DefaultConfig(), true); err != nil {
		t.Fatalf("forced WriteConfig failed: %v", err)
	}
}

func TestDefaultConfigMatchesBackendContract(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend.SearchPath != "/api/buscar" {
		t.Errorf("default SearchPath: got %q", cfg.Backend.SearchPath)
	}
	if cfg.Backend.HealthPath != "/api/health" {
		t.Errorf("default HealthPath: got %q", cfg.Backend.HealthPath)
	}
	if cfg.UI.AckMillis != 2000 {
		t.Errorf("default AckMillis: got %d, want 2000", cfg.UI.AckMillis)
	}
	if cfg.Backend.TimeoutSeconds != 0 {
		t.Errorf("default TimeoutSeconds: got %d, want 0", cfg.Backend.TimeoutSeconds)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	partial := `version: 1
backend:
  base_url: http://10.0.0.5:5001
`
	configPath := filepath.Join(tmpDir, ".vivi")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on partial config: %v", err)
	}
	if cfg.Backend.BaseURL != "http://10.0.0.5:5001" {
		t.Errorf("BaseURL: got %q", cfg.Backend.BaseURL)
	}
	// Fields absent from the file fall back to defaults.
	if cfg.Backend.SearchPath != "/api/buscar" {
		t.Errorf("SearchPath: got %q, want default", cfg.Backend.SearchPath)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != DefaultConfig().Backend.BaseURL {
		t.Errorf("BaseURL: got %q", cfg.Backend.BaseURL)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".vivi"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".vivi", "config.yaml"), []byte("backend: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmpDir, nil); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("VIVI_BACKEND_BASE_URL", "http://override:8080/")
	t.Setenv("VIVI_BACKEND_TIMEOUT_SECONDS", "15")
	t.Setenv("VIVI_DOWNLOAD_DIR", "/tmp/respostas")
	t.Setenv("VIVI_LOG_DEBUG", "true")

	cfg, err := Load(t.TempDir(), NewViper())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://override:8080" {
		t.Errorf("BaseURL: got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSeconds != 15 {
		t.Errorf("TimeoutSeconds: got %d, want 15", cfg.Backend.TimeoutSeconds)
	}
	if cfg.Download.Dir != "/tmp/respostas" {
		t.Errorf("Download.Dir: got %q", cfg.Download.Dir)
	}
	if !cfg.Log.Debug {
		t.Error("Log.Debug should be true")
	}
}
