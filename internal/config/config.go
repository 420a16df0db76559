// Package config handles loading of the .gitissues configuration files:
// the tracked config.yaml and users.yaml and the per-user settings.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the contents of .gitissues/config.yaml.
type Config struct {
	States        []string          `yaml:"states"`
	Types         []string          `yaml:"types"`
	Relationships RelationshipTypes `yaml:"relationships"`
	ListColumns   []string          `yaml:"list_columns"`
	CommitAuto    bool              `yaml:"commit_auto"`
	CommitMessage string            `yaml:"commit_message"`
}

// InitialState returns the state new issues start in.
func (c Config) InitialState() string {
	if len(c.States) == 0 {
		return ""
	}
	return c.States[0]
}

// HasState reports whether state is configured.
func (c Config) HasState(state string) bool {
	return contains(c.States, state)
}

// HasType reports whether typ is configured. The empty type is always allowed.
func (c Config) HasType(typ string) bool {
	return typ == "" || contains(c.Types, typ)
}

// Default returns the configuration written by init.
func Default() Config {
	var cfg Config
	data, err := defaultFiles.ReadFile("defaults/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// Load reads config.yaml from path, applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
