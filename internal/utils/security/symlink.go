package security

import (
	"fmt"
	"os"
	"path/filepath"
)

// SymlinkPolicy defines how file operations treat symlinks.
type SymlinkPolicy int

const (
	// RejectSymlinks refuses to touch any symlink.
	RejectSymlinks SymlinkPolicy = iota
	// ResolveSymlinks follows symlinks and operates on the target.
	ResolveSymlinks
)

// resolvePath applies the policy to path. The returned path is safe to open.
func resolvePath(path string, policy SymlinkPolicy) (string, error) {
	if policy != RejectSymlinks && policy != ResolveSymlinks {
		return "", fmt.Errorf("invalid symlink policy: %d", policy)
	}

	fileInfo, err := os.Lstat(path)
	if err != nil {
		return "", fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	if fileInfo.Mode()&os.ModeSymlink == 0 {
		return path, nil
	}

	if policy == RejectSymlinks {
		return "", fmt.Errorf("symlinks are not allowed: %s", path)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlink %s: %w", path, err)
	}
	return resolved, nil
}

// SafeReadFile reads a file after performing symlink checks.
func SafeReadFile(path string, policy SymlinkPolicy) ([]byte, error) {
	resolved, err := resolvePath(path, policy)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(resolved)
}

// SafeWriteFile writes to a file after performing symlink checks on both the
// file and its parent directory.
func SafeWriteFile(path string, data []byte, perm os.FileMode, policy SymlinkPolicy) error {
	if _, err := os.Lstat(path); err == nil {
		resolved, err := resolvePath(path, policy)
		if err != nil {
			return fmt.Errorf("existing file symlink check failed: %w", err)
		}
		path = resolved
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "/" {
		if _, err := os.Lstat(dir); err == nil {
			resolvedDir, err := resolvePath(dir, policy)
			if err != nil {
				return fmt.Errorf("parent directory symlink check failed: %w", err)
			}
			if resolvedDir != dir {
				path = filepath.Join(resolvedDir, filepath.Base(path))
			}
		}
	}

	return os.WriteFile(path, data, perm)
}
