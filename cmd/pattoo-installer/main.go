package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/palisadoes/pattoo-shared/internal/config"
	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
	"github.com/palisadoes/pattoo-shared/internal/utils/security"
)

// Command-line flags that can override config file settings
var (
	configFile string = ""
	logLevel   string = ""
)

func main() {
	// The config file has to be loaded before cobra parses flags during
	// Execute, so --config is pulled out of the raw arguments here.
	configFilePath := configFlagValue(os.Args[1:])
	if configFilePath == "" {
		configFilePath = config.FindConfigFile()
	}

	globalConfig, err := config.LoadGlobalConfig(configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(globalConfig)

	cleanup := initLogging(globalConfig)
	defer cleanup()

	rootCmd := newRootCommand(globalConfig)

	log := logger.Logger()
	if configFilePath != "" {
		log.Infof("Using configuration from: %s", configFilePath)
	}
	cacheDir, _ := config.CacheDir()
	venvDir, _ := config.VenvDir()
	log.Debugf("Config: workers=%d, cache_dir=%s, venv_dir=%s, temp_dir=%s",
		config.Workers(), cacheDir, venvDir, config.TempDir())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configFlagValue extracts --config from raw arguments ahead of cobra's own
// flag parsing.
func configFlagValue(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if value, found := strings.CutPrefix(arg, "--config="); found {
			return value
		}
	}
	return ""
}

// initLogging sets up the global logger from the loaded configuration,
// including the configured log file when one is set.
func initLogging(globalConfig *config.GlobalConfig) func() {
	_, cleanup, err := logger.InitWithConfig(logger.Config{
		Level:    globalConfig.Logging.Level,
		FilePath: globalConfig.Logging.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	return cleanup
}

// newRootCommand builds the fully wired root command. The log level override
// is installed as PersistentPreRunE before the validation hooks attach, so it
// survives on every subcommand's hook chain.
func newRootCommand(globalConfig *config.GlobalConfig) *cobra.Command {
	rootCmd := createRootCommand()

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if logLevel != "" {
			globalConfig.Logging.Level = logLevel
			config.SetGlobal(globalConfig)
			logger.SetLogLevel(logLevel)
		}
		return nil
	}
	security.AttachRecursive(rootCmd, security.DefaultLimits())

	return rootCmd
}

// createRootCommand creates and configures the root cobra command with all
// subcommands.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pattoo-installer",
		Short: "Installer for pattoo platform Python dependencies",
		Long: `pattoo-installer manages the Python dependencies of the pattoo
monitoring platform. It creates virtual environments, installs packages from
requirement specifiers or requirements.txt files, verifies installed
versions, and records install reports.

Use 'pattoo-installer --help' to see available commands.
Use 'pattoo-installer <command> --help' for more information about a command.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")

	rootCmd.AddCommand(createInstallCommand())
	rootCmd.AddCommand(createShowCommand())
	rootCmd.AddCommand(createConfigCommand())
	rootCmd.AddCommand(createVersionCommand())
	rootCmd.AddCommand(createInstallCompletionCommand())

	return rootCmd
}
