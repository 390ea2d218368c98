package version

// Package metadata, replaced at build time by the release pipeline.
var (
	Version      = "0.1.0"
	Toolname     = "pattoo-installer"
	Organization = "unknown"
	BuildDate    = "unknown"
	CommitSHA    = "unknown"
)
