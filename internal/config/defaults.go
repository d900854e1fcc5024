package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults holds the subset of flag defaults that can be overridden by a
// persisted config file, mirroring the teacher's YAML-tagged config struct.
type Defaults struct {
	Threads      int    `yaml:"threads"`
	BinaryNames  bool   `yaml:"binary_names"`
	Format       string `yaml:"format"`
	Progress     string `yaml:"progress"`
	Backup       bool   `yaml:"backup"`
}

// DefaultDefaults returns the built-in defaults used when no config file is
// present, matching the flag defaults documented in spec §6.
func DefaultDefaults() Defaults {
	return Defaults{
		Threads:     0,
		BinaryNames: false,
		Format:      "human",
		Progress:    "auto",
		Backup:      false,
	}
}

// Home returns the refac configuration home directory, creating it if
// necessary. Priority order:
//  1. REFAC_HOME environment variable, if set.
//  2. $XDG_CONFIG_HOME/refac (or ~/.config/refac as a fallback).
func Home() (string, error) {
	if home := os.Getenv("REFAC_HOME"); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create refac home directory: %w", err)
		}
		return home, nil
	}

	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve user home directory: %w", err)
		}
		base = filepath.Join(userHome, ".config")
	}

	home := filepath.Join(base, "refac")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create refac home directory: %w", err)
	}
	return home, nil
}

// LoadDefaults reads <Home()>/config.yaml, falling back to DefaultDefaults
// when the file does not exist. A malformed config file is an error; a
// missing one is not.
func LoadDefaults() (Defaults, error) {
	home, err := Home()
	if err != nil {
		return DefaultDefaults(), err
	}
	return LoadDefaultsFrom(filepath.Join(home, "config.yaml"))
}

// LoadDefaultsFrom reads defaults from an explicit path, for testing.
func LoadDefaultsFrom(path string) (Defaults, error) {
	defaults := DefaultDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return defaults, nil
}
