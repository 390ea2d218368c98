package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Global singleton variables
var (
	globalInstance *GlobalConfig
	globalMutex    sync.RWMutex
	once           sync.Once
)

// SetGlobal sets the global config instance (call once at startup in main).
func SetGlobal(config *GlobalConfig) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalInstance = config
}

// Global returns the global config instance, falling back to defaults when
// nothing was set.
func Global() *GlobalConfig {
	once.Do(func() {
		globalMutex.Lock()
		defer globalMutex.Unlock()
		if globalInstance == nil {
			globalInstance = DefaultGlobalConfig()
		}
	})

	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalInstance
}

// GetConfigPaths returns the config file search order. The PATTOO_CONFIGDIR
// environment variable takes precedence, then the working directory, the
// user's home directory, and finally the system-wide location.
func GetConfigPaths() []string {
	var paths []string

	if envDir := os.Getenv("PATTOO_CONFIGDIR"); envDir != "" {
		paths = append(paths, filepath.Join(envDir, "pattoo.yml"))
		paths = append(paths, filepath.Join(envDir, "pattoo.yaml"))
	}

	paths = append(paths, "pattoo.yml")

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".pattoo", "pattoo.yml"))
	}

	paths = append(paths, "/etc/pattoo/pattoo.yml")
	return paths
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() string {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Convenience accessors usable anywhere in the codebase.

func Workers() int {
	return Global().Workers
}

// VerificationWorkers caps the pool used for bulk version checks; pip
// subprocesses are expensive enough that more wins nothing.
func VerificationWorkers() int {
	workers := Global().Workers
	if workers > 4 {
		workers = 4
	}
	return workers
}

func ConfigDir() (string, error) {
	configDir, err := filepath.Abs(Global().ConfigDir)
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return configDir, nil
}

func CacheDir() (string, error) {
	cacheDir, err := filepath.Abs(Global().CacheDir)
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	return cacheDir, nil
}

func VenvDir() (string, error) {
	venvDir, err := filepath.Abs(Global().VenvDir)
	if err != nil {
		return "", fmt.Errorf("resolving venv directory: %w", err)
	}
	return venvDir, nil
}

func TempDir() string {
	return Global().TempDir
}

func PollingInterval() int64 {
	return Global().Polling.Interval
}

func MaxTimestampAge() int64 {
	return Global().Polling.MaxTimestampAge
}
