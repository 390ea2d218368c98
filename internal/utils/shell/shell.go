package shell

import (
	"os"
	"strings"

	"github.com/palisadoes/pattoo-shared/internal/utils/logger"
)

// GetOSEnvirons returns the system environment variables as a map.
func GetOSEnvirons() map[string]string {
	environ := make(map[string]string)
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			environ[parts[0]] = parts[1]
		}
	}
	return environ
}

// GetOSProxyEnvirons retrieves HTTP and HTTPS proxy environment variables.
// They are forwarded to pip so installs work behind corporate proxies.
func GetOSProxyEnvirons() []string {
	var proxyEnv []string
	for key, value := range GetOSEnvirons() {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "http_proxy") || strings.Contains(lower, "https_proxy") {
			proxyEnv = append(proxyEnv, key+"="+value)
		}
	}
	return proxyEnv
}

// ExecCmd executes a command and returns its combined output. Output is
// logged at debug level on success, info on failure.
func ExecCmd(cmdStr string, env []string) (string, error) {
	log := logger.Logger()
	log.Debugf("Exec: [%s]", cmdStr)

	output, err := Default.Run(cmdStr, env)
	if err != nil {
		if output != "" {
			log.Infof(output)
		}
		return output, err
	}
	if output != "" {
		log.Debugf(output)
	}
	return output, nil
}

// ExecCmdSilent executes a command without logging its output.
func ExecCmdSilent(cmdStr string, env []string) (string, error) {
	return Default.Run(cmdStr, env)
}

// ExecCmdWithStream executes a command and streams its output line by line
// through the logger as it is produced.
func ExecCmdWithStream(cmdStr string, env []string) (string, error) {
	log := logger.Logger()
	log.Debugf("Exec: [%s]", cmdStr)
	return Default.RunStream(cmdStr, env)
}

// ExecCmdWithInput executes a command with the given string on stdin.
func ExecCmdWithInput(inputStr, cmdStr string, env []string) (string, error) {
	log := logger.Logger()
	log.Debugf("Exec: [%s]", cmdStr)

	output, err := Default.RunWithInput(inputStr, cmdStr, env)
	if err != nil {
		if output != "" {
			log.Infof(output)
		}
		return output, err
	}
	if output != "" {
		log.Debugf(output)
	}
	return output, nil
}
