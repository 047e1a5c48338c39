//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "github.com/magefile/mage/mg"

// Extract builds the CLI and runs it over a report or a directory of reports.
func Extract(path string) error {
	mg.Deps(Build)
	return run(binPath(), path)
}

// Export builds the CLI and exports the table in format (xlsx, yaml or json).
func Export(format string) error {
	mg.Deps(Build)
	return run(binPath(), "export", "--format", format)
}

// Index builds the CLI and mirrors the table into SQLite.
func Index() error {
	mg.Deps(Build)
	return run(binPath(), "index")
}
