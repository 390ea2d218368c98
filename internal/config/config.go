package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/palisadoes/pattoo-shared/internal/config/validate"
	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
	"github.com/palisadoes/pattoo-shared/internal/utils/security"
)

var log = logger.Logger()

// GlobalConfig holds tool-level configuration shared across the library and
// the installer CLI.
type GlobalConfig struct {
	Workers   int    `yaml:"workers" json:"workers"`       // Concurrent workers for bulk package operations (1-100)
	ConfigDir string `yaml:"config_dir" json:"config_dir"` // Directory for configuration files
	CacheDir  string `yaml:"cache_dir" json:"cache_dir"`   // Directory for prefetched package archives
	VenvDir   string `yaml:"venv_dir" json:"venv_dir"`     // Default virtual environment directory
	TempDir   string `yaml:"temp_dir" json:"temp_dir"`     // Directory for scratch virtual environments

	Polling PollingConfig `yaml:"polling" json:"polling"` // Platform-wide polling defaults
	Logging LoggingConfig `yaml:"logging" json:"logging"` // Logging behavior settings
}

// PollingConfig carries the platform-wide timestamp defaults. Agents bucket
// their readings on Interval boundaries; readings older than MaxTimestampAge
// are discarded on ingest.
type PollingConfig struct {
	Interval        int64 `yaml:"interval" json:"interval"`
	MaxTimestampAge int64 `yaml:"max_timestamp_age" json:"max_timestamp_age"`
}

// LoggingConfig controls basic logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// DefaultGlobalConfig returns a GlobalConfig with sensible defaults.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Workers:   4,
		ConfigDir: "./config",
		CacheDir:  "./cache",
		VenvDir:   "./venv",
		TempDir:   "./tmp",

		Polling: PollingConfig{
			Interval:        300,
			MaxTimestampAge: 3600,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "pattoo-installer.log",
		},
	}
}

// LoadGlobalConfig loads configuration from the specified path, falling back
// to defaults when the path is empty or the file does not exist.
func LoadGlobalConfig(configPath string) (*GlobalConfig, error) {
	config := DefaultGlobalConfig()

	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		if errors.Is(err, os.ErrPermission) {
			log.Warnf("Config file %s is not accessible (%v); using defaults", configPath, err)
			return config, nil
		}
		return nil, fmt.Errorf("accessing config file %s: %w", configPath, err)
	}

	data, err := security.SafeReadFile(configPath, security.RejectSymlinks)
	if err != nil {
		log.Errorf("Error reading config file %s: %v", configPath, err)
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := validate.ValidateConfigYAML(data); err != nil {
			log.Errorf("Schema validation failed: %v", err)
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			log.Errorf("Error parsing YAML config: %v", err)
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	if err := config.Validate(); err != nil {
		log.Errorf("Config validation failed: %v", err)
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs semantic checks that the schema cannot express.
func (gc *GlobalConfig) Validate() error {
	if gc.Workers < 1 || gc.Workers > 100 {
		return fmt.Errorf("workers must be between 1 and 100, got %d", gc.Workers)
	}
	if gc.Polling.Interval <= 0 {
		return fmt.Errorf("polling interval must be positive, got %d", gc.Polling.Interval)
	}
	if gc.Polling.MaxTimestampAge <= 0 {
		return fmt.Errorf("max timestamp age must be positive, got %d", gc.Polling.MaxTimestampAge)
	}
	switch strings.ToLower(gc.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", gc.Logging.Level)
	}
	return nil
}

// SaveGlobalConfig saves the configuration to the specified path.
func (gc *GlobalConfig) SaveGlobalConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(gc)
	if err != nil {
		return fmt.Errorf("marshaling config to YAML: %w", err)
	}

	if err := validate.ValidateConfigYAML(data); err != nil {
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	if err := security.SafeWriteFile(configPath, data, 0o600, security.RejectSymlinks); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// SaveGlobalConfigWithComments writes the configuration with descriptive
// comments. Used by the CLI config init command to create a user-friendly
// starting file.
func (gc *GlobalConfig) SaveGlobalConfigWithComments(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is empty")
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	content := fmt.Sprintf(`# Pattoo shared library configuration
#
# Concurrent workers used for bulk package verification and prefetch (1-100).
workers: %d

# Directory holding configuration files.
config_dir: %s

# Directory where prefetched package archives are stored.
cache_dir: %s

# Default virtual environment directory for package installs.
venv_dir: %s

# Directory for short-lived files such as scratch virtual environments.
temp_dir: %s

polling:
  # Default polling interval in seconds. Timestamps are bucketed on
  # interval boundaries.
  interval: %d
  # Maximum accepted age of an inbound timestamp in seconds.
  max_timestamp_age: %d

logging:
  # Log verbosity: debug, info, warn, error.
  level: %s
  # Optional log file. Remove to log to stderr only.
  file: %s
`,
		gc.Workers, gc.ConfigDir, gc.CacheDir, gc.VenvDir, gc.TempDir,
		gc.Polling.Interval, gc.Polling.MaxTimestampAge,
		gc.Logging.Level, gc.Logging.File)

	if err := security.SafeWriteFile(configPath, []byte(content), 0o600, security.RejectSymlinks); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
