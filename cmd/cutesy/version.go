package main

import (
	"strings"

	"cutesy/internal/version"
)

const versionTagline = "lint and format HTML"

// versionTemplate renders --version output with the colored version and any
// build metadata set at link time.
func versionTemplate() string {
	var b strings.Builder
	b.WriteString("cutesy " + version.Colored() + " - " + versionTagline + "\n")
	if commit := strings.TrimSpace(version.GitCommit); commit != "" {
		b.WriteString("commit: " + commit + "\n")
	}
	if date := strings.TrimSpace(version.BuildDate); date != "" {
		b.WriteString("built:  " + date + "\n")
	}
	return b.String()
}
