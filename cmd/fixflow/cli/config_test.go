// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if config.Server != "" || config.LogFile != "" {
		t.Errorf("missing file should yield zero config, got %+v", config)
	}
}

func TestLoadConfigParsesFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server: https://helpdesk.example.com/fix-flow-api\nlog_file: /tmp/fixflow.log\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	config, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if config.Server != "https://helpdesk.example.com/fix-flow-api" {
		t.Errorf("Server = %q", config.Server)
	}
	if config.LogFile != "/tmp/fixflow.log" {
		t.Errorf("LogFile = %q", config.LogFile)
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadConfigFrom(path); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}

func TestConfigFilePathHonorsEnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("FIXFLOW_CONFIG", override)

	if path := ConfigFilePath(); path != override {
		t.Errorf("ConfigFilePath() = %q, want %q", path, override)
	}
}
