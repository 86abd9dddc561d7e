// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the optional per-user configuration file. Everything
// in it has a flag equivalent; the file exists so operators don't
// retype --server on every login.
type Config struct {
	// Server is the base URL of the helpdesk deployment, e.g.
	// "https://helpdesk.example.com/fix-flow-api". Used by login and
	// signup when --server is not given.
	Server string `yaml:"server"`

	// LogFile, when set, redirects structured logs to this file as
	// JSON lines instead of the in-app notice bar. Useful when
	// debugging the browser itself.
	LogFile string `yaml:"log_file"`
}

// ConfigFilePath returns the path to the config file. Checks the
// FIXFLOW_CONFIG environment variable first, then falls back to
// ~/.config/fixflow/config.yaml.
func ConfigFilePath() string {
	if envPath := os.Getenv("FIXFLOW_CONFIG"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join("/tmp", "fixflow-config.yaml")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "fixflow", "config.yaml")
}

// LoadConfig reads the config file from the well-known path. A
// missing file is not an error: every setting has a flag or an
// in-app default, so the zero Config is returned.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigFilePath())
}

// LoadConfigFrom reads a config file from a specific path.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &config, nil
}
