package validate_test

import (
	"strings"
	"testing"

	"github.com/palisadoes/pattoo-shared/internal/config/validate"
)

func TestValidateConfigYAML(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "full valid config",
			yaml: `
workers: 4
config_dir: ./config
cache_dir: ./cache
venv_dir: ./venv
temp_dir: ./tmp
polling:
  interval: 300
  max_timestamp_age: 3600
logging:
  level: debug
  file: pattoo.log
`,
		},
		{
			name: "minimal config",
			yaml: "workers: 1\n",
		},
		{
			name:    "workers out of range",
			yaml:    "workers: 0\n",
			wantErr: "schema validation",
		},
		{
			name:    "bad log level",
			yaml:    "logging:\n  level: loud\n",
			wantErr: "schema validation",
		},
		{
			name:    "unknown key",
			yaml:    "polling_interval: 300\n",
			wantErr: "schema validation",
		},
		{
			name:    "polling interval zero",
			yaml:    "polling:\n  interval: 0\n",
			wantErr: "schema validation",
		},
		{
			name:    "not yaml at all",
			yaml:    "{{nope",
			wantErr: "converting YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.ValidateConfigYAML([]byte(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid config, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateConfigJSONRejectsInvalidJSON(t *testing.T) {
	if err := validate.ValidateConfigJSON([]byte("not-json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
