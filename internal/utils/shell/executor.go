package shell

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
)

// Executor runs shell command strings. The package-level Default executor is
// swappable so tests can intercept commands instead of running them.
type Executor interface {
	Run(cmdStr string, env []string) (string, error)
	RunStream(cmdStr string, env []string) (string, error)
	RunWithInput(inputStr, cmdStr string, env []string) (string, error)
}

// Default is the executor used by the package-level Exec helpers.
var Default Executor = &bashExecutor{}

type bashExecutor struct{}

func (b *bashExecutor) command(cmdStr string, env []string) *exec.Cmd {
	cmd := exec.Command("bash", "-c", cmdStr)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return cmd
}

func (b *bashExecutor) Run(cmdStr string, env []string) (string, error) {
	cmd := b.command(cmdStr, env)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("failed to exec %s: %w", cmdStr, err)
	}
	return string(output), nil
}

func (b *bashExecutor) RunStream(cmdStr string, env []string) (string, error) {
	log := logger.Logger()
	cmd := b.command(cmdStr, env)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to get stdout pipe for command %s: %w", cmdStr, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to get stderr pipe for command %s: %w", cmdStr, err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start command %s: %w", cmdStr, err)
	}

	var outputStr string
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			str := scanner.Text()
			if str != "" {
				outputStr += str + "\n"
				log.Infof(str)
			}
		}
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			str := scanner.Text()
			if str != "" {
				log.Infof(str)
			}
		}
	}()

	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return outputStr, fmt.Errorf("failed to wait for command %s: %w", cmdStr, err)
	}
	return outputStr, nil
}

func (b *bashExecutor) RunWithInput(inputStr, cmdStr string, env []string) (string, error) {
	cmd := b.command(cmdStr, env)
	cmd.Stdin = strings.NewReader(inputStr)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("failed to exec %s with input: %w", cmdStr, err)
	}
	return string(output), nil
}

// MockCommand pairs a command substring with the canned result the mock
// executor returns for it.
type MockCommand struct {
	Pattern string
	Output  string
	Error   error
}

type mockExecutor struct {
	commands []MockCommand
}

// NewMockExecutor returns an Executor that matches commands against the given
// patterns instead of running them.
func NewMockExecutor(commands []MockCommand) Executor {
	return &mockExecutor{commands: commands}
}

func (m *mockExecutor) match(cmdStr string) (string, error) {
	for _, mc := range m.commands {
		if strings.Contains(cmdStr, mc.Pattern) {
			if mc.Error != nil {
				return mc.Output, fmt.Errorf("failed to exec %s: %w", cmdStr, mc.Error)
			}
			return mc.Output, nil
		}
	}
	return "", fmt.Errorf("no mock registered for command %s", cmdStr)
}

func (m *mockExecutor) Run(cmdStr string, env []string) (string, error) {
	return m.match(cmdStr)
}

func (m *mockExecutor) RunStream(cmdStr string, env []string) (string, error) {
	return m.match(cmdStr)
}

func (m *mockExecutor) RunWithInput(inputStr, cmdStr string, env []string) (string, error) {
	return m.match(cmdStr)
}
