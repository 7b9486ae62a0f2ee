// Package settings handles loading and saving bookdeck configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/bdk/config.yaml (layout + debug preferences)
//   - Config: ~/.config/bdk/ai.yaml (advisory-service credentials, stored
//     ungrouped and merged into the effective config on read)
//   - Data:   ~/.local/share/bdk/ (the bookmark database)
//   - State:  ~/.local/state/bdk/ (ratings)
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bounds for max_entries_per_column.
const (
	MinEntriesPerColumn = 5
	MaxEntriesPerColumn = 100
)

// DefaultMaxEntriesPerColumn is used when no config file exists.
const DefaultMaxEntriesPerColumn = 20

// AICredentials hold the advisory scoring service access settings. They are
// persisted separately from the main config, as three ungrouped keys.
type AICredentials struct {
	APIURL string `yaml:"api_url,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// Complete reports whether every field needed to issue a call is present.
// Incomplete credentials mean the call is never attempted.
func (c AICredentials) Complete() bool {
	return c.APIURL != "" && c.APIKey != "" && c.Model != ""
}

// Config is the effective bookdeck configuration: the persisted layout
// preferences plus the AI credentials merged in on read.
type Config struct {
	MaxEntriesPerColumn int  `yaml:"max_entries_per_column"`
	ShowDebugInfo       bool `yaml:"show_debug_info,omitempty"`

	AI AICredentials `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{MaxEntriesPerColumn: DefaultMaxEntriesPerColumn}
}

// ConfigDir returns the XDG config directory for bdk.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bdk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bdk")
}

// DataDir returns the XDG data directory for bdk.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "bdk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "bdk")
}

// StateDir returns the XDG state directory for bdk.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "bdk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "bdk")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// CredentialsPath returns the full path to ai.yaml.
func CredentialsPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "ai.yaml")
}

// Load reads the config and credential files from the XDG config directory,
// merging the credentials into the returned Config. Missing files yield
// defaults, not errors.
func Load() (Config, error) {
	return LoadFrom(ConfigPath(), CredentialsPath())
}

// LoadFrom reads config and credentials from specific paths.
func LoadFrom(configPath, credsPath string) (Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}
	cfg.MaxEntriesPerColumn = ClampMaxEntries(cfg.MaxEntriesPerColumn)

	if credsPath != "" {
		data, err := os.ReadFile(credsPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg.AI); err != nil {
				return cfg, fmt.Errorf("parsing credentials: %w", err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading credentials: %w", err)
		}
	}
	return cfg, nil
}

// Save writes both files, creating the config directory as needed. The AI
// credentials keep their own file so the main config can be shared or
// version-controlled without leaking a key.
func Save(cfg Config) error {
	return SaveTo(cfg, ConfigPath(), CredentialsPath())
}

// SaveTo writes config and credentials to specific paths.
func SaveTo(cfg Config, configPath, credsPath string) error {
	if configPath == "" || credsPath == "" {
		return fmt.Errorf("config directory could not be determined")
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	cfg.MaxEntriesPerColumn = ClampMaxEntries(cfg.MaxEntriesPerColumn)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	creds, err := yaml.Marshal(cfg.AI)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := os.WriteFile(credsPath, creds, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// ClampMaxEntries forces a column capacity into the valid range.
func ClampMaxEntries(n int) int {
	if n < MinEntriesPerColumn {
		if n <= 0 {
			return DefaultMaxEntriesPerColumn
		}
		return MinEntriesPerColumn
	}
	if n > MaxEntriesPerColumn {
		return MaxEntriesPerColumn
	}
	return n
}
