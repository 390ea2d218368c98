// Package reports records what an install run put into a virtual
// environment.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/palisadoes/pattoo-shared/data"
	"github.com/palisadoes/pattoo-shared/installation/environment"
	"github.com/palisadoes/pattoo-shared/installation/packages"
	"github.com/palisadoes/pattoo-shared/internal/config"
	"github.com/palisadoes/pattoo-shared/internal/config/version"
	"github.com/palisadoes/pattoo-shared/internal/utils/security"
)

// Entry is one installed package in a report.
type Entry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Pinned  bool   `json:"pinned"`
}

// InstallReport summarizes a completed install run.
type InstallReport struct {
	ID        string  `json:"id"`
	Tool      string  `json:"tool"`
	Version   string  `json:"version"`
	CreatedAt string  `json:"created_at"`
	Venv      string  `json:"venv"`
	Packages  []Entry `json:"packages"`
	Digest    string  `json:"digest"`
	DigestAlg string  `json:"digest_alg"`
}

// Build assembles a report for the given install run, resolving the
// installed version of each package from the environment. The digest covers
// the package rows so two runs with identical outcomes hash identically.
func Build(env *environment.Environment, installed []packages.Package) *InstallReport {
	names := make([]string, len(installed))
	for i, pkg := range installed {
		names[i] = pkg.Name
	}
	versions := packages.InstalledVersions(env, names, config.VerificationWorkers())

	entries := make([]Entry, 0, len(installed))
	for _, pkg := range installed {
		entry := Entry{
			Name:    pkg.Name,
			Version: versions[pkg.Name],
			Pinned:  pkg.Version != "" && !pkg.Inequality,
		}
		if entry.Version == "" {
			// Fall back to the requested version when the freeze
			// lookup came up empty.
			entry.Version = pkg.Version
		}
		entries = append(entries, entry)
	}

	return &InstallReport{
		ID:        uuid.New().String(),
		Tool:      version.Toolname,
		Version:   version.Version,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Venv:      env.Dir(),
		Packages:  entries,
		Digest:    digest(entries),
		DigestAlg: "sha256",
	}
}

// digest hashes the package rows in order.
func digest(entries []Entry) string {
	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "%s==%s;pinned=%v\n", entry.Name, entry.Version, entry.Pinned)
	}
	return data.Hashstring(sb.String(), data.SHA256)
}

// Filename returns a timestamped report filename.
func Filename() string {
	return fmt.Sprintf("install_report_%s.json", time.Now().Format("20060102_150405"))
}

// Write serializes the report into dir and returns the full path.
func (r *InstallReport) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory %s: %w", dir, err)
	}

	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling install report: %w", err)
	}

	path := filepath.Join(dir, Filename())
	if err := security.SafeWriteFile(path, payload, 0o640, security.RejectSymlinks); err != nil {
		return "", fmt.Errorf("writing install report %s: %w", path, err)
	}
	return path, nil
}
