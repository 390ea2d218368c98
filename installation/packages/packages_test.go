package packages_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/palisadoes/pattoo-shared/installation/environment"
	"github.com/palisadoes/pattoo-shared/installation/packages"
	"github.com/palisadoes/pattoo-shared/internal/utils/shell"
)

func TestPackageDetails(t *testing.T) {
	specs := []string{
		"PattooShared>=0.0.106",
		"PyYAML",
		"Flask-Session",
		"PyMySQL",
		"SQLAlchemy",
		"graphene",
		"Flask",
		"Flask-CORS",
		"Flask-GraphQL",
		"gunicorn",
		"requests",
		"Werkzeug",
		"numpy",
		"pandas",
		"psutil",
		"distro",
		"python-gnupg==0.4.6",
	}
	expected := []packages.Package{
		{Name: "PattooShared", Version: "0.0.106", Inequality: true},
		{Name: "PyYAML"},
		{Name: "Flask-Session"},
		{Name: "PyMySQL"},
		{Name: "SQLAlchemy"},
		{Name: "graphene"},
		{Name: "Flask"},
		{Name: "Flask-CORS"},
		{Name: "Flask-GraphQL"},
		{Name: "gunicorn"},
		{Name: "requests"},
		{Name: "Werkzeug"},
		{Name: "numpy"},
		{Name: "pandas"},
		{Name: "psutil"},
		{Name: "distro"},
		{Name: "python-gnupg", Version: "0.4.6", Inequality: false},
	}

	var results []packages.Package
	for _, spec := range specs {
		results = append(results, packages.PackageDetails(spec))
	}

	if diff := cmp.Diff(expected, results); diff != "" {
		t.Errorf("PackageDetails mismatch (-want +got):\n%s", diff)
	}
}

func TestPackageDetailsOperatorPrecedence(t *testing.T) {
	// A >= bound is recognized before an == pin.
	pkg := packages.PackageDetails("sample>=1.0")
	if !pkg.Inequality || pkg.Version != "1.0" {
		t.Errorf("Expected inequality bound with version, got %+v", pkg)
	}

	pkg = packages.PackageDetails("sample==1.0")
	if pkg.Inequality || pkg.Version != "1.0" {
		t.Errorf("Expected exact pin, got %+v", pkg)
	}
}

// mockEnv builds an Environment backed by the current mock executor.
func mockEnv(t *testing.T) *environment.Environment {
	t.Helper()
	env, err := environment.Setup(filepath.Join(t.TempDir(), "venv"))
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return env
}

func withMock(t *testing.T, commands []shell.MockCommand) {
	t.Helper()
	originalExecutor := shell.Default
	t.Cleanup(func() { shell.Default = originalExecutor })
	shell.Default = shell.NewMockExecutor(append(commands, shell.MockCommand{
		Pattern: "python3 -m venv", Output: "", Error: nil,
	}))
}

func TestInstallPackage(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip install PyYAML", Output: "Successfully installed PyYAML-6.0.1\n"},
	})
	env := mockEnv(t)

	if err := packages.InstallPackage(env, "PyYAML", false); err != nil {
		t.Errorf("InstallPackage failed: %v", err)
	}
}

func TestInstallPackageFailure(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip install", Output: "ERROR: No matching distribution\n", Error: errors.New("exit status 1")},
	})
	env := mockEnv(t)

	err := packages.InstallPackage(env, "this-does-not-exist", false)
	if !errors.Is(err, packages.ErrInstallFailed) {
		t.Errorf("Expected ErrInstallFailed, got: %v", err)
	}
}

func TestInstallMissingRequirements(t *testing.T) {
	withMock(t, nil)
	env := mockEnv(t)

	_, err := packages.Install(env, t.TempDir(), false)
	if !errors.Is(err, packages.ErrRequirementsMissing) {
		t.Errorf("Expected ErrRequirementsMissing, got: %v", err)
	}
}

func TestInstall(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip install", Output: "ok\n"},
	})
	env := mockEnv(t)

	requirementsDir := t.TempDir()
	content := `# platform requirements
PattooShared>=0.0.106

PyYAML
python-gnupg==0.4.6
`
	path := filepath.Join(requirementsDir, "requirements.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	installed, err := packages.Install(env, requirementsDir, false)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	expected := []packages.Package{
		{Name: "PattooShared", Version: "0.0.106", Inequality: true},
		{Name: "PyYAML"},
		{Name: "python-gnupg", Version: "0.4.6"},
	}
	if diff := cmp.Diff(expected, installed); diff != "" {
		t.Errorf("Install mismatch (-want +got):\n%s", diff)
	}
}

func TestInstallStopsOnFirstFailure(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip install PyYAML", Output: "ok\n"},
		{Pattern: "pip install broken", Output: "boom\n", Error: errors.New("exit status 1")},
	})
	env := mockEnv(t)

	requirementsDir := t.TempDir()
	path := filepath.Join(requirementsDir, "requirements.txt")
	if err := os.WriteFile(path, []byte("PyYAML\nbroken\nnever-reached\n"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	installed, err := packages.Install(env, requirementsDir, false)
	if !errors.Is(err, packages.ErrInstallFailed) {
		t.Fatalf("Expected ErrInstallFailed, got: %v", err)
	}
	if len(installed) != 1 || installed[0].Name != "PyYAML" {
		t.Errorf("Expected only PyYAML installed before failure, got: %+v", installed)
	}
}

func TestInstalledVersion(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip freeze", Output: "Flask==2.0.1\nPattooShared==0.0.106\nPyYAML==6.0.1\n"},
	})
	env := mockEnv(t)

	version, ok := packages.InstalledVersion(env, "PattooShared")
	if !ok || version != "0.0.106" {
		t.Errorf("Expected (0.0.106, true), got (%s, %v)", version, ok)
	}

	// pip freeze normalizes names, matches are case-insensitive.
	version, ok = packages.InstalledVersion(env, "pyyaml")
	if !ok || version != "6.0.1" {
		t.Errorf("Expected (6.0.1, true), got (%s, %v)", version, ok)
	}

	if _, ok := packages.InstalledVersion(env, "absent-package"); ok {
		t.Error("Expected absent package to report false")
	}
}

func TestInstalledVersionFreezeFailure(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip freeze", Output: "", Error: errors.New("exit status 1")},
	})
	env := mockEnv(t)

	if _, ok := packages.InstalledVersion(env, "PyYAML"); ok {
		t.Error("Expected false when pip freeze fails")
	}
}

func TestInstalledVersions(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip freeze", Output: "Flask==2.0.1\nPyYAML==6.0.1\n"},
	})
	env := mockEnv(t)

	versions := packages.InstalledVersions(env, []string{"Flask", "PyYAML", "absent"}, 2)
	expected := map[string]string{
		"Flask":  "2.0.1",
		"PyYAML": "6.0.1",
	}
	if diff := cmp.Diff(expected, versions); diff != "" {
		t.Errorf("InstalledVersions mismatch (-want +got):\n%s", diff)
	}
}

func TestInstalledVersionsWorkerBounds(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip freeze", Output: "Flask==2.0.1\nPyYAML==6.0.1\nrequests==2.31.0\n"},
	})
	env := mockEnv(t)

	pkgs := []string{"Flask", "PyYAML", "requests"}
	expected := map[string]string{
		"Flask":    "2.0.1",
		"PyYAML":   "6.0.1",
		"requests": "2.31.0",
	}

	// The pool must produce identical results whether undersized,
	// oversized, or degenerate.
	for _, workers := range []int{0, 1, 8} {
		versions := packages.InstalledVersions(env, pkgs, workers)
		if diff := cmp.Diff(expected, versions); diff != "" {
			t.Errorf("workers=%d mismatch (-want +got):\n%s", workers, diff)
		}
	}

	if got := packages.InstalledVersions(env, nil, 4); len(got) != 0 {
		t.Errorf("Expected empty result for empty package list, got: %v", got)
	}
}

func TestPrefetch(t *testing.T) {
	withMock(t, []shell.MockCommand{
		{Pattern: "pip download", Output: "Saved archive\n"},
	})
	env := mockEnv(t)

	cacheDir := filepath.Join(t.TempDir(), "cache")
	specs := []string{"PyYAML", "requests", "distro"}

	if err := packages.Prefetch(env, specs, cacheDir, 2); err != nil {
		t.Fatalf("Prefetch failed: %v", err)
	}

	if _, err := os.Stat(cacheDir); err != nil {
		t.Errorf("Expected cache directory to be created: %v", err)
	}
}

func TestPrefetchEmptySpecList(t *testing.T) {
	withMock(t, nil)
	env := mockEnv(t)

	if err := packages.Prefetch(env, nil, filepath.Join(t.TempDir(), "cache"), 4); err != nil {
		t.Errorf("Prefetch of empty list should be a no-op, got: %v", err)
	}
}
