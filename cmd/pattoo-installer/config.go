package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/palisadoes/pattoo-shared/internal/config"
)

// createConfigCommand creates the config subcommand
func createConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage global configuration for the pattoo installer.

Available commands:
  init    Initialize a new configuration file with default values
  show    Print the effective configuration
  path    Print the configuration file discovery result`,
	}

	configCmd.AddCommand(createConfigInitCommand())
	configCmd.AddCommand(createConfigShowCommand())
	configCmd.AddCommand(createConfigPathCommand())

	return configCmd
}

// createConfigInitCommand creates the config init subcommand
func createConfigInitCommand() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new configuration file with default values.

If no path is specified, the config will be created in the current directory
as pattoo.yml

Examples:
  # Create config in current directory
  pattoo-installer config init

  # Create config at specific location
  pattoo-installer config init /etc/pattoo/pattoo.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeConfigInit,
	}

	return initCmd
}

// executeConfigInit handles the config init command logic
func executeConfigInit(cmd *cobra.Command, args []string) error {
	configPath := "pattoo.yml"
	if len(args) > 0 {
		configPath = args[0]
	}

	defaultConfig := config.DefaultGlobalConfig()

	if err := defaultConfig.SaveGlobalConfigWithComments(configPath); err != nil {
		return fmt.Errorf("failed to save config file: %v", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Printf("\nDefault configuration settings:\n")
	fmt.Printf("  Workers: %d\n", defaultConfig.Workers)
	fmt.Printf("  Cache Directory: %s\n", defaultConfig.CacheDir)
	fmt.Printf("  Venv Directory: %s\n", defaultConfig.VenvDir)
	fmt.Printf("  Polling Interval: %d\n", defaultConfig.Polling.Interval)
	fmt.Printf("  Max Timestamp Age: %d\n", defaultConfig.Polling.MaxTimestampAge)
	fmt.Printf("  Log Level: %s\n", defaultConfig.Logging.Level)
	fmt.Printf("\nEdit the configuration file to customize these settings.\n")

	return nil
}

// createConfigShowCommand creates the config show subcommand
func createConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  executeConfigShow,
	}
}

// executeConfigShow prints the merged configuration as YAML
func executeConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(config.Global())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}
	fmt.Print(string(data))
	return nil
}

// createConfigPathCommand creates the config path subcommand
func createConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file discovery result",
		Run: func(cmd *cobra.Command, args []string) {
			if path := config.FindConfigFile(); path != "" {
				fmt.Println(path)
				return
			}
			fmt.Println("no configuration file found; using defaults")
			fmt.Println("searched:")
			for _, path := range config.GetConfigPaths() {
				fmt.Printf("  %s\n", path)
			}
		},
	}
}
