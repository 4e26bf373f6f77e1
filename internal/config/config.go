// Package config loads and saves the envkeep YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/envkeep/internal/engine"
)

// Config represents the CLI configuration
type Config struct {
	// Durable-store backend: "keyring" or "powershell" (empty = platform default)
	Backend string `yaml:"backend,omitempty"`

	// Default color mode (auto, always, never)
	Color string `yaml:"color,omitempty"`

	// Directory run reports are written into (empty = reports disabled)
	ReportsDir string `yaml:"reports_dir,omitempty"`

	// Keyring placement/unlocking overrides
	Keyring KeyringConfig `yaml:"keyring,omitempty"`

	// Tokens, when set, replaces the built-in token catalog
	Tokens []TokenConfig `yaml:"tokens,omitempty"`
}

// KeyringConfig overrides file-keyring placement and unlocking.
type KeyringConfig struct {
	// Dir is the credential root for the file-backed ring
	Dir string `yaml:"dir,omitempty"`

	// PasswordEnv names an environment variable holding the ring passphrase
	PasswordEnv string `yaml:"password_env,omitempty"`
}

// TokenConfig is one catalog entry in the config file.
type TokenConfig struct {
	Name     string `yaml:"name"`
	Label    string `yaml:"label,omitempty"`
	Required bool   `yaml:"required,omitempty"`
}

// configPathFunc is the function used to get the default config path
// It can be overridden for testing
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns ~/.config/envkeep/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "envkeep", "config.yaml"), nil
}

// DefaultConfigPath returns ~/.config/envkeep/config.yaml
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returns empty config if not found
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

// Save saves config to the default path
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path
func (c *Config) SaveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// TokenSpecs converts the configured catalog override into engine specs.
// Returns nil when no override is configured, so the engine keeps its
// built-in defaults.
func (c *Config) TokenSpecs() []engine.TokenSpec {
	if len(c.Tokens) == 0 {
		return nil
	}
	specs := make([]engine.TokenSpec, 0, len(c.Tokens))
	for _, tok := range c.Tokens {
		label := tok.Label
		if label == "" {
			label = tok.Name
		}
		specs = append(specs, engine.TokenSpec{Name: tok.Name, Label: label, Required: tok.Required})
	}
	return specs
}

// KeyringPassword resolves the configured passphrase, or "" when unset.
func (c *Config) KeyringPassword() string {
	if c.Keyring.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(c.Keyring.PasswordEnv)
}
