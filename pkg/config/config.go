// Package config implements interpreter configuration loading.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config controls interpreter behavior outside the language itself: which
// native functions are bound, and where the REPL keeps its history.
type Config struct {
	Allowed     map[string]bool
	Denied      map[string]bool
	HistoryFile string
}

// File represents the JSON structure of a config file.
type File struct {
	Natives *NativePolicy `json:"natives,omitempty"`
	History string        `json:"history,omitempty"`
}

// NativePolicy lists native functions to enable or disable. An absent
// policy allows everything; a deny-only policy allows everything not
// denied.
type NativePolicy struct {
	Allow []string `json:"allow,omitempty"`
	Deny  []string `json:"deny,omitempty"`
}

// IsAllowed checks whether a native function may be bound under this
// config. A nil Allowed map signals "allow all".
func (c *Config) IsAllowed(name string) bool {
	if c == nil {
		return true
	}
	if c.Denied[name] {
		return false
	}
	if c.Allowed == nil {
		return true
	}
	return c.Allowed[name]
}

// Load reads interpreter configuration from project and user config files.
// Precedence: project (.loxrc.json) → user (~/.lox/config.json) → defaults.
func Load(projectDir string) (*Config, *File) {
	projectPath := filepath.Join(projectDir, ".loxrc.json")
	if f, err := loadFile(projectPath); err == nil {
		return build(f), f
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(homeDir, ".lox", "config.json")
		if f, err := loadFile(userPath); err == nil {
			return build(f), f
		}
	}

	return Default(), nil
}

func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func build(f *File) *Config {
	c := &Config{HistoryFile: f.History}

	if f.Natives == nil {
		return c // allow all
	}

	if len(f.Natives.Allow) > 0 {
		allowed := make(map[string]bool)
		for _, name := range f.Natives.Allow {
			allowed[name] = true
		}
		c.Allowed = allowed
	}
	if len(f.Natives.Deny) > 0 {
		denied := make(map[string]bool)
		for _, name := range f.Natives.Deny {
			denied[name] = true
		}
		c.Denied = denied
	}
	return c
}

// Default returns the configuration used when no config file exists:
// every native is allowed and history goes to the default location.
func Default() *Config {
	return &Config{Allowed: nil}
}
