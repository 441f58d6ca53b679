package forge

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/purelb/shipyard/internal/project"
)

// Permission mode for build directories: owner read/write/execute only.
const buildDirMode os.FileMode = 0700

// Idempotently creates the build directory tree under root.
//
// Directories are created for the full known enumerations, not just the
// current selection, so later runs with a different selector never need
// layout creation again. Existing directories are left untouched.
func EnsureLayout(root string, cfg project.Config) error {
	if root == "" {
		root = "."
	}
	for _, arch := range cfg.Architectures {
		for _, binary := range cfg.Binaries {
			dir := filepath.Join(root, "build", arch, binary)
			if err := os.MkdirAll(dir, buildDirMode); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrLayout, dir, err)
			}
		}
	}
	return nil
}
