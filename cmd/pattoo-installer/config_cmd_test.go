package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/palisadoes/pattoo-shared/internal/config"
)

func TestExecuteConfigInit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pattoo.yml")

	initCmd := createConfigInitCommand()
	if err := executeConfigInit(initCmd, []string{configPath}); err != nil {
		t.Fatalf("executeConfigInit failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading generated config: %v", err)
	}
	if !strings.Contains(string(data), "workers:") {
		t.Error("Expected generated config to contain workers setting")
	}

	// The generated file must load back cleanly.
	cfg, err := config.LoadGlobalConfig(configPath)
	if err != nil {
		t.Fatalf("generated config failed to load: %v", err)
	}
	if cfg.Workers != config.DefaultGlobalConfig().Workers {
		t.Errorf("Expected default workers, got %d", cfg.Workers)
	}
}

func TestExecuteConfigShow(t *testing.T) {
	showCmd := createConfigShowCommand()
	if err := executeConfigShow(showCmd, nil); err != nil {
		t.Errorf("executeConfigShow failed: %v", err)
	}
}

func TestConfigCommandWiring(t *testing.T) {
	configCmd := createConfigCommand()

	expected := map[string]bool{"init": false, "show": false, "path": false}
	for _, sub := range configCmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("Expected config subcommand %q", name)
		}
	}
}
