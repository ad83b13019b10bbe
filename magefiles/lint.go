//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import "github.com/magefile/mage/sh"

const (
	binLint    = "golangci-lint"
	lintConfig = ".golangci.yml"
)

// Lint runs golangci-lint with the repository config over the module and
// the magefiles.
func Lint() error {
	if err := sh.RunV(binLint, "run", "--config", lintConfig, "./..."); err != nil {
		return err
	}
	return sh.RunV(binLint, "run", "--config", lintConfig, "--build-tags", "mage", "./magefiles/...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}
