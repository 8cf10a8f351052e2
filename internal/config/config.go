package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds CLI configuration loaded from ~/.lockbox/config.yaml.
// Service, access group, and accessibility become the process-wide defaults
// for every operation that does not override them.
type Config struct {
	Service       string `yaml:"service"`
	AccessGroup   string `yaml:"access_group"`
	Accessibility string `yaml:"accessibility"` // e.g. "when-unlocked"
	AuditLog      string `yaml:"audit_log"`     // path; empty disables auditing
}

// DefaultPath returns the default config file path: ~/.lockbox/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lockbox", "config.yaml")
}

// Load reads a YAML config file from path. If the file does not exist,
// it returns an empty Config and no error. An empty or all-comment file
// also returns an empty Config with no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
