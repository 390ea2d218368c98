package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/palisadoes/pattoo-shared/installation/environment"
	"github.com/palisadoes/pattoo-shared/installation/packages"
	"github.com/palisadoes/pattoo-shared/installation/reports"
	"github.com/palisadoes/pattoo-shared/internal/config"
	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
)

// Exit codes for install failures. Platform setup scripts branch on these.
const (
	exitInstallFailed       = 2
	exitRequirementsMissing = 3
)

var (
	installVenvDir   string
	installReportDir string
	installVerbose   bool
	installPrefetch  bool
)

// createInstallCommand creates the install subcommand
func createInstallCommand() *cobra.Command {
	installCmd := &cobra.Command{
		Use:   "install [requirements-dir]",
		Short: "Install packages from a requirements.txt file",
		Long: `Install every package listed in <requirements-dir>/requirements.txt into
a virtual environment, then write an install report.

Exit codes:
  2  a package failed to install
  3  the requirements.txt file was not found

Examples:
  # Install from the current directory into the configured venv
  pattoo-installer install

  # Install from a checkout into a specific venv
  pattoo-installer install /opt/pattoo-agents --venv /opt/pattoo/venv`,
		Args: cobra.MaximumNArgs(1),
		Run:  executeInstall,
	}

	installCmd.Flags().StringVar(&installVenvDir, "venv", "",
		"Virtual environment directory (defaults to the configured venv_dir)")
	installCmd.Flags().StringVar(&installReportDir, "report-dir", "",
		"Directory for the install report (empty disables the report)")
	installCmd.Flags().BoolVar(&installVerbose, "verbose", false,
		"Stream pip output instead of showing a progress bar")
	installCmd.Flags().BoolVar(&installPrefetch, "prefetch", false,
		"Download package archives into the cache directory before installing")

	installCmd.AddCommand(createInstallPackageCommand())

	return installCmd
}

// createInstallPackageCommand creates the install package sub-subcommand
func createInstallPackageCommand() *cobra.Command {
	packageCmd := &cobra.Command{
		Use:   "package <spec>...",
		Short: "Install individual packages by specifier",
		Long: `Install one or more packages given as requirement specifiers, for
example 'PyYAML', 'python-gnupg==0.4.6', or 'PattooShared>=0.0.106'.

Exits with code 2 when any package fails to install.`,
		Args: cobra.MinimumNArgs(1),
		Run:  executeInstallPackage,
	}

	packageCmd.Flags().StringVar(&installVenvDir, "venv", "",
		"Virtual environment directory (defaults to the configured venv_dir)")
	packageCmd.Flags().BoolVar(&installVerbose, "verbose", false,
		"Stream pip output")

	return packageCmd
}

// setupVenv resolves the target venv directory and creates the environment.
func setupVenv() *environment.Environment {
	log := logger.Logger()

	venvDir := installVenvDir
	if venvDir == "" {
		resolved, err := config.VenvDir()
		if err != nil {
			log.Errorf("Failed to resolve venv directory: %v", err)
			os.Exit(1)
		}
		venvDir = resolved
	}

	env, err := environment.Setup(venvDir)
	if err != nil {
		log.Errorf("Failed to set up virtual environment: %v", err)
		os.Exit(1)
	}
	return env
}

// executeInstall handles the install command logic
func executeInstall(cmd *cobra.Command, args []string) {
	log := logger.Logger()

	requirementsDir := "."
	if len(args) > 0 {
		requirementsDir = args[0]
	}

	env := setupVenv()

	if installPrefetch {
		prefetchRequirements(env, requirementsDir)
	}

	installed, err := packages.Install(env, requirementsDir, installVerbose)
	if err != nil {
		log.Errorf("Install failed: %v", err)
		if errors.Is(err, packages.ErrRequirementsMissing) {
			os.Exit(exitRequirementsMissing)
		}
		os.Exit(exitInstallFailed)
	}

	log.Infof("Installed %d packages into %s", len(installed), env.Dir())

	if installReportDir != "" {
		report := reports.Build(env, installed)
		path, err := report.Write(installReportDir)
		if err != nil {
			log.Errorf("Failed to write install report: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Install report written to: %s\n", path)
	}
}

// prefetchRequirements warms the package cache before installation. A failed
// prefetch is not fatal; the install itself will surface real errors.
func prefetchRequirements(env *environment.Environment, requirementsDir string) {
	log := logger.Logger()

	specs, err := packages.ReadRequirements(filepath.Join(requirementsDir, "requirements.txt"))
	if err != nil {
		log.Warnf("Skipping prefetch: %v", err)
		return
	}

	cacheDir, err := config.CacheDir()
	if err != nil {
		log.Warnf("Skipping prefetch: %v", err)
		return
	}

	if err := packages.Prefetch(env, specs, cacheDir, config.Workers()); err != nil {
		log.Warnf("Prefetch incomplete: %v", err)
	}
}

// executeInstallPackage handles the install package command logic
func executeInstallPackage(cmd *cobra.Command, args []string) {
	log := logger.Logger()
	env := setupVenv()

	for _, spec := range args {
		if err := packages.InstallPackage(env, spec, installVerbose); err != nil {
			log.Errorf("Install failed: %v", err)
			os.Exit(exitInstallFailed)
		}
		log.Infof("Installed %s", spec)
	}
}
