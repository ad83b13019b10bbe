// Package paths resolves where blueprint keeps its configuration and data.
// Each directory is chosen by flag, then environment, then configuration,
// then the platform default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform base directories.
const AppName = "blueprint"

// Environment variables that override the platform defaults.
const (
	EnvConfigDir = "BLUEPRINT_CONFIG_DIR"
	EnvDataDir   = "BLUEPRINT_DATA_DIR"
)

// lookup holds the environment probes. Tests replace them.
var lookup = struct {
	getenv        func(string) string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	goos          string
}{
	getenv:        os.Getenv,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	goos:          runtime.GOOS,
}

// DefaultConfigDir returns the platform configuration directory:
// $XDG_CONFIG_HOME/blueprint or ~/.config/blueprint on Linux, and
// os.UserConfigDir()/blueprint elsewhere.
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory:
// $XDG_DATA_HOME/blueprint or ~/.local/share/blueprint on Linux, and
// os.UserConfigDir()/blueprint/data elsewhere.
func DefaultDataDir() (string, error) {
	if lookup.goos != "linux" {
		dir, err := lookup.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName, "data"), nil
	}
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if lookup.goos != "linux" {
		dir, err := lookup.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if base := lookup.getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := lookup.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir applies flag > BLUEPRINT_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDir, flag, lookup.getenv(EnvConfigDir))
}

// ResolveDataDir applies flag > BLUEPRINT_DATA_DIR > config file value >
// DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDir, flag, lookup.getenv(EnvDataDir), configValue)
}

// resolve returns the first non-empty candidate as an absolute path, or the
// fallback when all are empty.
func resolve(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
