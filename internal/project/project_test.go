package project

import (
	"strings"
	"testing"
)

func TestGetKnownProjects(t *testing.T) {
	for _, name := range Names() {
		cfg, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q) returned error: %v", name, err)
		}
		if cfg.Name != name {
			t.Fatalf("Name = %q, want %q", cfg.Name, name)
		}
		if len(cfg.Binaries) == 0 {
			t.Fatalf("project %q has no binaries", name)
		}
		if len(cfg.Architectures) == 0 {
			t.Fatalf("project %q has no architectures", name)
		}
		if len(cfg.DefaultArchitectures) == 0 {
			t.Fatalf("project %q has no default architectures", name)
		}
	}
}

func TestGetUnknownProject(t *testing.T) {
	_, err := Get("bogus")
	if err == nil {
		t.Fatal("Get accepted an unknown project")
	}
	if !strings.Contains(err.Error(), "metallb") {
		t.Fatalf("error %q does not list known projects", err)
	}
}

func TestDockerfile(t *testing.T) {
	cfg, err := Get("metallb")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got, want := cfg.Dockerfile("speaker-local"), "build/package/Dockerfile.speaker-local"; got != want {
		t.Fatalf("Dockerfile = %q, want %q", got, want)
	}
}

func TestBinaryPath(t *testing.T) {
	cfg, err := Get("metallb")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got, want := cfg.BinaryPath("arm64", "controller-pool"), "build/arm64/controller-pool/controller-pool"; got != want {
		t.Fatalf("BinaryPath = %q, want %q", got, want)
	}
}
