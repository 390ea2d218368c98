// Package environment manages the Python virtual environments that package
// installs run inside.
package environment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/palisadoes/pattoo-shared/internal/config"
	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
	"github.com/palisadoes/pattoo-shared/internal/utils/shell"
)

var log = logger.Logger()

// Environment is a created virtual environment. Commands run against it by
// injecting its Environ into the shell rather than mutating the process
// environment, so multiple environments can coexist.
type Environment struct {
	dir     string
	scratch bool
}

// Setup creates a virtual environment at dir. An empty dir allocates a
// scratch directory under the configured temp dir; scratch environments are
// removed by Remove, caller-owned directories never are.
func Setup(dir string) (*Environment, error) {
	scratch := false
	if dir == "" {
		dir = filepath.Join(config.TempDir(), fmt.Sprintf("venv-%s", uuid.New().String()[:8]))
		scratch = true
	}

	parent := filepath.Dir(dir)
	if parent != "." && parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("creating venv parent directory %s: %w", parent, err)
		}
	}

	cmd := fmt.Sprintf("python3 -m venv %s", dir)
	if out, err := shell.ExecCmd(cmd, nil); err != nil {
		log.Errorf("Failed to create virtual environment %s: %v", dir, err)
		return nil, fmt.Errorf("creating virtual environment %s: %w (output: %s)", dir, err, out)
	}

	log.Debugf("Virtual environment ready: %s", dir)
	return &Environment{dir: dir, scratch: scratch}, nil
}

// Dir returns the environment's root directory.
func (e *Environment) Dir() string {
	return e.dir
}

// Python returns the path to the environment's interpreter.
func (e *Environment) Python() string {
	return filepath.Join(e.dir, "bin", "python3")
}

// Environ returns the variables that activate the environment for a child
// process: VIRTUAL_ENV plus a PATH with the venv bin directory first. Proxy
// variables are forwarded so pip works behind corporate proxies.
func (e *Environment) Environ() []string {
	env := []string{
		"VIRTUAL_ENV=" + e.dir,
		"PATH=" + filepath.Join(e.dir, "bin") + string(os.PathListSeparator) + os.Getenv("PATH"),
	}
	return append(env, shell.GetOSProxyEnvirons()...)
}

// Remove deletes a scratch environment. Caller-owned directories are left in
// place.
func (e *Environment) Remove() error {
	if !e.scratch {
		return nil
	}
	if err := os.RemoveAll(e.dir); err != nil {
		return fmt.Errorf("removing virtual environment %s: %w", e.dir, err)
	}
	return nil
}
