// Package release implements the versioned release workflow.
//
// A release moves through a fixed sequence: clean-tree guard, version parse,
// release-notes gate, branch transition, artifact patching, commit, and the
// return to the main branch. Every precondition runs before the first
// mutating git command; any later failure stops the sequence where it
// occurred with no rollback, and the operator re-invokes after fixing the
// cause.
package release

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/purelb/shipyard/internal/gitrepo"
	"github.com/purelb/shipyard/internal/project"
	"github.com/purelb/shipyard/internal/shell"
)

// Performs releases for one project.
type Releaser struct {
	runner shell.Runner
	repo   *gitrepo.Repo
	cfg    project.Config
}

func New(runner shell.Runner, cfg project.Config) *Releaser {
	return &Releaser{
		runner: runner,
		repo:   gitrepo.New(runner),
		cfg:    cfg,
	}
}

// Controls one release run.
type Options struct {
	Version          string // Release version, strict major.minor.patch.
	SkipReleaseNotes bool   // Bypass the release-notes gate.
	Root             string // Project directory. Empty means the current directory.
}

// Runs the release sequence for the given version.
//
// A patch release (patch != 0) checks out the existing v<major>.<minor>
// branch; a minor or major release creates it at the current position. The
// deployment manifest and the version file are then patched to the new
// version, the result is committed, and HEAD returns to the main branch,
// leaving the release branch holding the new commit.
func (r *Releaser) Run(ctx context.Context, opts Options) error {
	clean, err := r.repo.IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("%w: commit or stash your changes before releasing", ErrDirtyTree)
	}

	version, err := semver.StrictNewVersion(opts.Version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrVersion, opts.Version, err)
	}

	if !opts.SkipReleaseNotes {
		if err := r.checkReleaseNotes(opts.Root, version); err != nil {
			return err
		}
	}

	branch := fmt.Sprintf("v%d.%d", version.Major(), version.Minor())
	patchRelease := version.Patch() != 0

	slog.Info("releasing",
		"project", r.cfg.Name,
		"version", version.String(),
		"branch", branch,
		"patch_release", patchRelease,
	)

	// Move HEAD to the release branch: an existing one for a patch release,
	// a new one otherwise.
	if err := r.repo.Checkout(ctx, branch, !patchRelease); err != nil {
		return err
	}

	if err := r.patchArtifacts(ctx, version, opts); err != nil {
		return err
	}

	message := fmt.Sprintf("Automated update for release v%s", version)
	if err := r.repo.CommitAll(ctx, message); err != nil {
		return err
	}

	return r.repo.Checkout(ctx, r.cfg.MainBranch, false)
}

// Rewrites the versioned artifacts to reference the new version.
//
// Image references in the deployment manifest move to the v<version> tag for
// every image-bearing binary, and the version assignment in the version file
// becomes the literal version string, followed by a formatting pass.
func (r *Releaser) patchArtifacts(ctx context.Context, version *semver.Version, opts Options) error {
	for _, binary := range r.cfg.ImageBinaries {
		expr := fmt.Sprintf("s,image: %s/%s:.*,image: %s/%s:v%s,g",
			r.cfg.Name, binary, r.cfg.Name, binary, version)
		if err := r.patch(ctx, expr, r.cfg.Manifest, opts); err != nil {
			return err
		}
	}

	expr := fmt.Sprintf(`s/version\s+=.*/version = "%s"/g`, version)
	if err := r.patch(ctx, expr, r.cfg.VersionFile, opts); err != nil {
		return err
	}

	format := shell.Command{
		Argv: []string{"gofmt", "-w", r.cfg.VersionFile},
		Dir:  opts.Root,
	}
	_, err := shell.RunChecked(ctx, r.runner, format)
	return err
}

// Rewrites file in place with a perl substitution expression.
func (r *Releaser) patch(ctx context.Context, expr, file string, opts Options) error {
	cmd := shell.Command{
		Argv: []string{"perl", "-pi", "-e", expr, file},
		Dir:  opts.Root,
	}
	_, err := shell.RunChecked(ctx, r.runner, cmd)
	return err
}

// Verifies the release-notes file mentions the new version.
func (r *Releaser) checkReleaseNotes(root string, version *semver.Version) error {
	path := filepath.Join(root, r.cfg.ReleaseNotes)
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReleaseNotes, path, err)
	}

	if !strings.Contains(string(text), version.String()) {
		return fmt.Errorf("%w: %s has no entry for %s", ErrReleaseNotes, path, version)
	}
	return nil
}
