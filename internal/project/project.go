package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Immutable build/release configuration for one project.
//
// The two sibling projects share all orchestration logic and differ only in
// these values. A Config is looked up once at command start and passed down;
// nothing mutates it afterwards.
type Config struct {
	Name                 string   // Project name, also the image namespace in deployment manifests.
	Binaries             []string // Known binaries, sorted.
	Architectures        []string // Known CPU architectures, sorted.
	DefaultArchitectures []string // Fallback when no architecture selector is given.
	ImageBinaries        []string // Binaries whose image references are patched on release.
	LdflagsPrefix        string   // Package path for the -X gitCommit/gitBranch symbols.
	Manifest             string   // Deployment manifest patched on release.
	VersionFile          string   // Source file holding the version assignment.
	ReleaseNotes         string   // Release-notes file gated on release.
	MainBranch           string   // Branch to return to after a release commit.
}

// Returns the Dockerfile path for a binary.
func (c Config) Dockerfile(binary string) string {
	return filepath.Join("build", "package", "Dockerfile."+binary)
}

// Returns the output path for a compiled binary, following the
// build/<arch>/<binary>/<binary> layout.
func (c Config) BinaryPath(arch, binary string) string {
	return filepath.Join("build", arch, binary, binary)
}

var registry = map[string]Config{
	"metallb": {
		Name: "metallb",
		Binaries: []string{
			"controller-acnodal",
			"controller-pool",
			"speaker-acnodal",
			"speaker-local",
		},
		Architectures:        []string{"amd64", "arm", "arm64", "ppc64le", "s390x"},
		DefaultArchitectures: []string{"amd64"},
		ImageBinaries:        []string{"controller", "speaker"},
		LdflagsPrefix:        "go.universe.tf/metallb/internal/version",
		Manifest:             "deployments/metallb.yaml",
		VersionFile:          "internal/version/version.go",
		ReleaseNotes:         "website/content/release-notes/_index.md",
		MainBranch:           "main",
	},
	"purelb": {
		Name:                 "purelb",
		Binaries:             []string{"allocator", "lbnodeagent"},
		Architectures:        []string{"amd64"},
		DefaultArchitectures: []string{"amd64"},
		ImageBinaries:        []string{"allocator", "lbnodeagent"},
		LdflagsPrefix:        "purelb.io/internal/version",
		Manifest:             "deployments/purelb.yaml",
		VersionFile:          "internal/version/version.go",
		ReleaseNotes:         "website/content/release-notes/_index.md",
		MainBranch:           "main",
	},
}

// Returns the configuration for the named project.
func Get(name string) (Config, error) {
	cfg, ok := registry[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown project %q (known projects: %s)", name, strings.Join(Names(), ", "))
	}
	return cfg, nil
}

// Returns the sorted names of all known projects.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
