// Package config loads the misan CLI configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds optional CLI defaults loaded from ~/.misan/config.json.
// Everything in it can also be supplied by flag or environment; the
// file only changes defaults.
type Config struct {
	// APIKey is the credential used when no flag or env value is set.
	APIKey string `json:"api_key,omitempty"`
	// DefaultModel overrides the library default model.
	DefaultModel string `json:"default_model,omitempty"`
	// DefaultMaxTokens overrides the library default output budget.
	DefaultMaxTokens int `json:"default_max_tokens,omitempty"`
	// ModelAliases maps friendly names (e.g. sonnet) to model ids.
	ModelAliases map[string]string `json:"model_aliases,omitempty"`
}

// ErrConfigInvalid is returned when the config file does not parse.
var ErrConfigInvalid = errors.New("config file invalid")

// Path returns the default config file path.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".misan", "config.json"), nil
}

// Load reads the config file at path, or the default path when path is
// empty. A missing file is not an error: all fields are optional, so an
// empty Config is returned instead.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{ModelAliases: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if cfg.ModelAliases == nil {
		cfg.ModelAliases = map[string]string{}
	}
	return &cfg, nil
}

// ResolveModel picks the model for a run: the flag value wins over the
// config default, and aliases apply to both.
func (c *Config) ResolveModel(flagModel string) string {
	if flagModel != "" {
		return c.aliasModel(flagModel)
	}
	if c.DefaultModel != "" {
		return c.aliasModel(c.DefaultModel)
	}
	return ""
}

// aliasModel resolves a friendly alias to a model id.
func (c *Config) aliasModel(name string) string {
	if aliased, ok := c.ModelAliases[name]; ok {
		return aliased
	}
	return name
}
