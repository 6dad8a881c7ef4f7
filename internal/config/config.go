// Package config handles reading and writing .vivi/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteConfig when the file is present and
// overwriting was not requested.
var ErrConfigExists = errors.New("config already exists")

// Config is the top-level structure for .vivi/config.yaml.
type Config struct {
	Version  int            `yaml:"version"`
	Backend  BackendConfig  `yaml:"backend"`
	Render   RenderConfig   `yaml:"render"`
	Download DownloadConfig `yaml:"download"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

// BackendConfig points the client at the question-answering service.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	SearchPath     string `yaml:"search_path"`
	HealthPath     string `yaml:"health_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 0 disables the timeout
}

// RenderConfig controls how answers are turned into terminal output.
type RenderConfig struct {
	Style    string `yaml:"style"` // "auto" | "dark" | "light" | "notty" | ...
	WordWrap int    `yaml:"word_wrap"`
}

// DownloadConfig controls where downloaded answers are written.
type DownloadConfig struct {
	Dir string `yaml:"dir"`
}

// UIConfig holds interactive behaviour knobs.
type UIConfig struct {
	AckMillis int `yaml:"ack_millis"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Debug      bool   `yaml:"debug"`
}

const configDir = ".vivi"
const configFile = "config.yaml"

// Dir returns the .vivi directory inside the given project root.
func Dir(root string) string {
	return filepath.Join(root, configDir)
}

// ReadConfig reads .vivi/config.yaml from the given directory.
// dir is the working directory (not .vivi/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to .vivi/config.yaml in the given directory.
// Creates the .vivi/ directory if it does not exist. An existing file is
// only replaced when force is set.
func WriteConfig(dir string, cfg *Config, force bool) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Load reads the config from dir, falling back to defaults when the file
// is missing, then applies overrides from v (environment and flags).
// A malformed file is still an error.
func Load(dir string, v *viper.Viper) (*Config, error) {
	cfg, err := ReadConfig(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = DefaultConfig()
	}
	if v != nil {
		ApplyOverrides(cfg, v)
	}
	return cfg, nil
}

// NewViper returns a viper instance reading VIVI_* environment variables,
// with dots in keys mapped to underscores (backend.base_url ->
// VIVI_BACKEND_BASE_URL).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("VIVI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every non-empty value known to v onto cfg.
func ApplyOverrides(cfg *Config, v *viper.Viper) {
	if s := v.GetString("backend.base_url"); s != "" {
		cfg.Backend.BaseURL = strings.TrimRight(s, "/")
	}
	if s := v.GetString("backend.search_path"); s != "" {
		cfg.Backend.SearchPath = s
	}
	if s := v.GetString("backend.health_path"); s != "" {
		cfg.Backend.HealthPath = s
	}
	if v.IsSet("backend.timeout_seconds") {
		cfg.Backend.TimeoutSeconds = v.GetInt("backend.timeout_seconds")
	}
	if s := v.GetString("render.style"); s != "" {
		cfg.Render.Style = s
	}
	if n := v.GetInt("render.word_wrap"); n > 0 {
		cfg.Render.WordWrap = n
	}
	if s := v.GetString("download.dir"); s != "" {
		cfg.Download.Dir = s
	}
	if n := v.GetInt("ui.ack_millis"); n > 0 {
		cfg.UI.AckMillis = n
	}
	if s := v.GetString("log.file"); s != "" {
		cfg.Log.File = s
	}
	if v.GetBool("log.debug") {
		cfg.Log.Debug = true
	}
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendConfig{
			BaseURL:    "http://localhost:5001",
			SearchPath: "/api/buscar",
			HealthPath: "/api/health",
		},
		Render: RenderConfig{
			Style:    "auto",
			WordWrap: 80,
		},
		Download: DownloadConfig{
			Dir: ".",
		},
		UI: UIConfig{
			AckMillis: 2000,
		},
		Log: LogConfig{
			File:       filepath.Join(configDir, "vivi.log"),
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}
