package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/purelb/shipyard/internal"
)

// File-backed defaults for flags that rarely change between invocations.
type Defaults struct {
	Project    string `yaml:"project"`
	Tag        string `yaml:"tag"`
	DockerUser string `yaml:"docker-user"`
}

// Returns the built-in defaults.
func builtinDefaults() Defaults {
	return Defaults{
		Project:    "metallb",
		Tag:        "dev",
		DockerUser: "metallb",
	}
}

// Default path to the config file.
//
//	Linux:   $XDG_CONFIG_HOME/shipyard/config.yaml
//	macOS:   ~/Library/Application Support/shipyard/config.yaml
func configPath() string {
	return filepath.Join(xdg.ConfigHome, internal.Name, "config.yaml")
}

// Returns the effective defaults, merging the config file over the built-ins.
//
// A missing file at the default path is fine; a path given explicitly must
// exist. File values only override the keys they set.
func loadDefaults(path string) (Defaults, error) {
	defaults := builtinDefaults()

	explicit := path != ""
	if !explicit {
		path = configPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return defaults, nil
}

// Returns the flag value, or the fallback when the flag was not given.
func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
