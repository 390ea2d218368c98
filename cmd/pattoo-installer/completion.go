package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// createInstallCompletionCommand creates the install-completion subcommand
func createInstallCompletionCommand() *cobra.Command {
	installCompletionCmd := &cobra.Command{
		Use:   "install-completion",
		Short: "Install shell completion script",
		Long: `Install shell completion script for Bash, Zsh, or Fish.
Automatically detects your shell and installs the appropriate completion script.`,
		RunE: executeInstallCompletion,
	}

	installCompletionCmd.Flags().String("shell", "", "Specify shell type (bash, zsh, fish)")
	installCompletionCmd.Flags().Bool("stdout", false, "Print the completion script instead of installing it")

	return installCompletionCmd
}

// executeInstallCompletion handles installation of shell completion scripts
func executeInstallCompletion(cmd *cobra.Command, args []string) error {
	shellType, err := cmd.Flags().GetString("shell")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}

	if shellType == "" {
		shellEnv := os.Getenv("SHELL")
		switch {
		case strings.Contains(shellEnv, "bash"):
			shellType = "bash"
		case strings.Contains(shellEnv, "zsh"):
			shellType = "zsh"
		case strings.Contains(shellEnv, "fish"):
			shellType = "fish"
		default:
			return fmt.Errorf("could not detect shell. Please specify with --shell flag")
		}
	}

	var buf bytes.Buffer
	switch shellType {
	case "bash":
		if err := cmd.Root().GenBashCompletion(&buf); err != nil {
			return fmt.Errorf("generating bash completion: %w", err)
		}
	case "zsh":
		if err := cmd.Root().GenZshCompletion(&buf); err != nil {
			return fmt.Errorf("generating zsh completion: %w", err)
		}
	case "fish":
		if err := cmd.Root().GenFishCompletion(&buf, true); err != nil {
			return fmt.Errorf("generating fish completion: %w", err)
		}
	default:
		return fmt.Errorf("unsupported shell: %s", shellType)
	}

	if toStdout {
		fmt.Print(buf.String())
		return nil
	}

	target, err := completionPath(shellType)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating completion directory: %w", err)
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing completion script: %w", err)
	}

	fmt.Printf("Completion script installed at: %s\n", target)
	fmt.Println("Restart your shell or source the script to enable completion.")
	return nil
}

// completionPath returns the per-user install location for a shell's
// completion script.
func completionPath(shellType string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	switch shellType {
	case "bash":
		return filepath.Join(home, ".local", "share", "bash-completion", "completions", "pattoo-installer"), nil
	case "zsh":
		return filepath.Join(home, ".zsh", "completions", "_pattoo-installer"), nil
	case "fish":
		return filepath.Join(home, ".config", "fish", "completions", "pattoo-installer.fish"), nil
	default:
		return "", fmt.Errorf("unsupported shell: %s", shellType)
	}
}
