//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for blueprint using Mage.
//
// Usage:
//
//	mage build        Compile the blueprint binary to bin/
//	mage test:all     Run every test
//	mage test:race    Run every test with the race detector
//	mage test:cover   Write coverage to bin/coverage.out
//	mage lint         Run golangci-lint with .golangci.yml
//	mage vet          Run go vet
//	mage clean        Remove build artifacts
//	mage install      Install blueprint to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo       = "go"
	binGit      = "git"
	binaryName  = "blueprint"
	binaryDir   = "bin"
	cmdDir      = "./cmd/blueprint"
	versionVar  = "github.com/mesh-intelligence/blueprint/internal/cli.Version"
	fallbackVer = "dev"
)

// version describes HEAD with git, or returns fallbackVer outside a
// checkout.
func version() string {
	out, err := sh.Output(binGit, "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(out) == "" {
		return fallbackVer
	}
	return strings.TrimSpace(out)
}

// Build compiles the blueprint binary to bin/ with the version stamped in.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := "-X " + versionVar + "=" + version()
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
