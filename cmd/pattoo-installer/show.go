package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/palisadoes/pattoo-shared/installation/environment"
	"github.com/palisadoes/pattoo-shared/installation/packages"
	"github.com/palisadoes/pattoo-shared/internal/config"
	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
)

var showVenvDir string

// createShowCommand creates the show subcommand
func createShowCommand() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show <package>...",
		Short: "Show installed versions of packages",
		Long: `Show the installed version of one or more packages in a virtual
environment. Exits with a non-zero status when any package is absent.`,
		Args: cobra.MinimumNArgs(1),
		Run:  executeShow,
	}

	showCmd.Flags().StringVar(&showVenvDir, "venv", "",
		"Virtual environment directory (defaults to the configured venv_dir)")

	return showCmd
}

// executeShow handles the show command logic
func executeShow(cmd *cobra.Command, args []string) {
	log := logger.Logger()

	venvDir := showVenvDir
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

	versions := packages.InstalledVersions(env, args, config.VerificationWorkers())

	missing := false
	for _, pkg := range args {
		if version, ok := versions[pkg]; ok {
			fmt.Printf("%s==%s\n", pkg, version)
		} else {
			fmt.Printf("%s: not installed\n", pkg)
			missing = true
		}
	}
	if missing {
		os.Exit(1)
	}
}
