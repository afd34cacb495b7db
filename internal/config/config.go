package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// RoleConfig describes one auxiliary window role.
type RoleConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Floating keeps the window above normal-level windows for its whole
	// lifetime, not just while being activated. Defaults to true.
	Floating *bool `yaml:"floating,omitempty"`

	// Background is the content panel color as "#rrggbb".
	Background string `yaml:"background,omitempty"`

	// Hotkey is an optional global X11 keybinding (e.g. "Mod4-F1") that
	// shows this window.
	Hotkey string `yaml:"hotkey,omitempty"`
}

// LoggingConfig configures the window action log.
type LoggingConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb,omitempty"`
	MaxFiles  int    `yaml:"max_files,omitempty"`
}

// Config is the root auxwind configuration.
type Config struct {
	// Display overrides the DISPLAY environment variable for the daemon.
	Display string `yaml:"display,omitempty"`

	Roles   map[string]RoleConfig `yaml:"roles"`
	Logging LoggingConfig         `yaml:"logging,omitempty"`
}

const (
	// DefaultRole always exists so a bare install has something to show.
	DefaultRole = "about"

	DefaultLogMaxSizeMB = 10
	DefaultLogMaxFiles  = 3

	defaultBackground = "#2e3440"
)

// DefaultConfig returns the built-in configuration: a single about role,
// 400x500, floating, with logging disabled.
func DefaultConfig() *Config {
	floating := true
	return &Config{
		Roles: map[string]RoleConfig{
			DefaultRole: {
				Title:      "About",
				Width:      400,
				Height:     500,
				Floating:   &floating,
				Background: defaultBackground,
			},
		},
		Logging: LoggingConfig{
			MaxSizeMB: DefaultLogMaxSizeMB,
			MaxFiles:  DefaultLogMaxFiles,
		},
	}
}

// IsFloating resolves the floating flag with its default.
func (r RoleConfig) IsFloating() bool {
	if r.Floating == nil {
		return true
	}
	return *r.Floating
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Roles) == 0 {
		return fmt.Errorf("config has no roles")
	}
	for name, role := range c.Roles {
		if name == "" {
			return fmt.Errorf("role with empty name")
		}
		if role.Title == "" {
			return fmt.Errorf("role %q: title must not be empty", name)
		}
		if role.Width <= 0 || role.Height <= 0 {
			return fmt.Errorf("role %q: invalid size %dx%d", name, role.Width, role.Height)
		}
	}
	if c.Logging.MaxSizeMB < 0 {
		return fmt.Errorf("logging.max_size_mb must not be negative")
	}
	if c.Logging.MaxFiles < 0 {
		return fmt.Errorf("logging.max_files must not be negative")
	}
	return nil
}

// RoleNames returns all configured role names in sorted order.
func (c *Config) RoleNames() []string {
	names := make([]string, 0, len(c.Roles))
	for name := range c.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultLogPath returns the default action log file path.
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "auxwind", "window-actions.log"), nil
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "auxwind", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from path, merging file-defined roles over
// the built-in defaults. Unknown keys are rejected so typos surface instead
// of being silently ignored.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fileCfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fileCfg.Display != "" {
		cfg.Display = fileCfg.Display
	}
	for name, role := range fileCfg.Roles {
		if role.Background == "" {
			role.Background = defaultBackground
		}
		cfg.Roles[name] = role
	}
	if fileCfg.Logging.Enabled {
		cfg.Logging.Enabled = true
	}
	if fileCfg.Logging.File != "" {
		cfg.Logging.File = fileCfg.Logging.File
	}
	if fileCfg.Logging.MaxSizeMB > 0 {
		cfg.Logging.MaxSizeMB = fileCfg.Logging.MaxSizeMB
	}
	if fileCfg.Logging.MaxFiles > 0 {
		cfg.Logging.MaxFiles = fileCfg.Logging.MaxFiles
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
