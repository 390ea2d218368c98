// Package packages installs and inspects Python packages inside virtual
// environments, and parses requirement specifier strings.
package packages

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/palisadoes/pattoo-shared/installation/environment"
	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
	"github.com/palisadoes/pattoo-shared/internal/utils/shell"
)

var log = logger.Logger()

// Sentinel errors. The installer CLI maps these to its documented exit codes.
var (
	ErrInstallFailed       = errors.New("package installation failed")
	ErrRequirementsMissing = errors.New("requirements file not found")
)

// Package is a parsed requirement specifier. Version is empty when the
// specifier carries no version. Inequality marks a minimum bound (>=) as
// opposed to an exact pin (==); the version is still reported in that case
// so callers can distinguish "at least" from "exactly".
type Package struct {
	Name       string
	Version    string
	Inequality bool
}

// PackageDetails parses a single-line requirement specifier. A >= bound is
// checked before an == pin; a specifier with neither operator is a bare
// name. Inputs are assumed pre-trimmed, and specifiers with multiple
// operators are undefined.
func PackageDetails(spec string) Package {
	if name, version, found := strings.Cut(spec, ">="); found {
		return Package{Name: name, Version: version, Inequality: true}
	}
	if name, version, found := strings.Cut(spec, "=="); found {
		return Package{Name: name, Version: version, Inequality: false}
	}
	return Package{Name: spec}
}

// InstallPackage installs a single requirement specifier into env. Verbose
// installs stream pip's output through the logger as it runs.
func InstallPackage(env *environment.Environment, spec string, verbose bool) error {
	cmd := fmt.Sprintf("python3 -m pip install %s", spec)

	var err error
	if verbose {
		_, err = shell.ExecCmdWithStream(cmd, env.Environ())
	} else {
		_, err = shell.ExecCmdSilent(cmd, env.Environ())
	}
	if err != nil {
		log.Errorf("Failed to install %s: %v", spec, err)
		return fmt.Errorf("%w: %q: %v", ErrInstallFailed, spec, err)
	}
	return nil
}

// Install installs every requirement listed in
// <requirementsDir>/requirements.txt into env and returns the parsed
// specifiers. Verbose mode streams pip output; otherwise a progress bar
// tracks packages completed.
func Install(env *environment.Environment, requirementsDir string, verbose bool) ([]Package, error) {
	path := filepath.Join(requirementsDir, "requirements.txt")
	if _, err := os.Stat(path); err != nil {
		log.Errorf("Requirements file does not exist: %s", path)
		return nil, fmt.Errorf("%w: %s", ErrRequirementsMissing, path)
	}

	specs, err := ReadRequirements(path)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if !verbose {
		bar = newInstallBar(len(specs))
	}

	parsed := make([]Package, 0, len(specs))
	for _, spec := range specs {
		pkg := PackageDetails(spec)
		if bar != nil {
			bar.Describe(pkg.Name)
		}

		if err := InstallPackage(env, spec, verbose); err != nil {
			if bar != nil {
				_ = bar.Finish()
			}
			return parsed, err
		}

		parsed = append(parsed, pkg)
		if bar != nil {
			if err := bar.Add(1); err != nil {
				log.Errorf("failed to add to progress bar: %v", err)
			}
		}
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			log.Errorf("failed to finish progress bar: %v", err)
		}
	}
	return parsed, nil
}

// ReadRequirements returns the non-blank, non-comment lines of a
// requirements file.
func ReadRequirements(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening requirements file %s: %w", path, err)
	}
	defer file.Close()

	var specs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		specs = append(specs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requirements file %s: %w", path, err)
	}
	return specs, nil
}

// InstalledVersion reports the version of pkg inside env, parsed from
// pip freeze output. The boolean is false when the package is absent or the
// freeze itself fails. Names match case-insensitively since pip normalizes
// case.
func InstalledVersion(env *environment.Environment, pkg string) (string, bool) {
	output, err := shell.ExecCmdSilent("python3 -m pip freeze", env.Environ())
	if err != nil {
		log.Debugf("pip freeze failed: %v", err)
		return "", false
	}

	for _, line := range strings.Split(output, "\n") {
		name, version, found := strings.Cut(strings.TrimSpace(line), "==")
		if found && strings.EqualFold(name, pkg) {
			return version, true
		}
	}
	return "", false
}

// InstalledVersions resolves the installed version of each named package,
// fanning the freeze lookups across a pool of workers. Packages that are
// absent, or whose lookup fails, are missing from the result.
func InstalledVersions(env *environment.Environment, pkgs []string, workers int) map[string]string {
	versions := make(map[string]string, len(pkgs))
	if len(pkgs) == 0 {
		return versions
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(pkgs) {
		workers = len(pkgs)
	}

	jobs := make(chan string, len(pkgs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pkg := range jobs {
				if version, ok := InstalledVersion(env, pkg); ok {
					mu.Lock()
					versions[pkg] = version
					mu.Unlock()
				}
			}
		}()
	}

	for _, pkg := range pkgs {
		jobs <- pkg
	}
	close(jobs)

	wg.Wait()
	return versions
}

// Prefetch downloads the archives for the given specifiers into cacheDir
// using a pool of workers, with a single progress bar tracking specifiers
// completed. Download failures are logged and skipped so one unreachable
// package does not abort a warm-up run.
func Prefetch(env *environment.Environment, specs []string, cacheDir string, workers int) error {
	if len(specs) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", cacheDir, err)
	}

	bar := newInstallBar(len(specs))
	jobs := make(chan string, len(specs))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range jobs {
				bar.Describe(PackageDetails(spec).Name)

				cmd := fmt.Sprintf("python3 -m pip download %s -d %s", spec, cacheDir)
				if _, err := shell.ExecCmdSilent(cmd, env.Environ()); err != nil {
					log.Errorf("prefetching %s failed: %v", spec, err)
				}
				if err := bar.Add(1); err != nil {
					log.Errorf("failed to add to progress bar: %v", err)
				}
			}
		}()
	}

	for _, spec := range specs {
		jobs <- spec
	}
	close(jobs)

	wg.Wait()
	if err := bar.Finish(); err != nil {
		log.Errorf("failed to finish progress bar: %v", err)
	}
	return nil
}

func newInstallBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
