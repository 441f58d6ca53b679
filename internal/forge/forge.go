package forge

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/purelb/shipyard/internal/gitrepo"
	"github.com/purelb/shipyard/internal/project"
	"github.com/purelb/shipyard/internal/selector"
	"github.com/purelb/shipyard/internal/shell"
)

// Drives build, push, and multi-architecture publication for one project.
type Forge struct {
	runner shell.Runner
	repo   *gitrepo.Repo
	cfg    project.Config
}

func New(runner shell.Runner, cfg project.Config) *Forge {
	return &Forge{
		runner: runner,
		repo:   gitrepo.New(runner),
		cfg:    cfg,
	}
}

// Controls one build, push, or publish run.
type Options struct {
	Binaries      []string // Selector tokens. Empty selects the full binary set.
	Architectures []string // Selector tokens. Empty selects the default architecture.
	Tag           string   // Image tag prefix; per-target tags are <tag>-<arch>.
	DockerUser    string   // Registry namespace for image tags.
	Root          string   // Project directory. Empty means the current directory.
}

// Commit and branch identity embedded into every compiled binary.
//
// Derived once per invocation from two read-only git queries and reused
// across all matrix cells.
type revision struct {
	commit string
	branch string
}

// Builds and locally tags an image for every target in the resolved matrix.
func (f *Forge) Build(ctx context.Context, opts Options) error {
	targets, err := f.resolveTargets(opts)
	if err != nil {
		return err
	}

	if err := EnsureLayout(opts.Root, f.cfg); err != nil {
		return err
	}

	rev, err := f.revision(ctx)
	if err != nil {
		return err
	}

	slog.Info("building",
		"project", f.cfg.Name,
		"targets", len(targets),
		"commit", rev.commit,
		"branch", rev.branch,
	)

	for _, target := range targets {
		if err := f.buildTarget(ctx, target, rev, opts); err != nil {
			return fmt.Errorf("%w: target %s: %w", ErrBuild, target, err)
		}
	}

	return nil
}

// Builds and pushes every target in the resolved matrix.
//
// Each target runs its full single-cell build before its push, in matrix
// order. The commit/branch identity is derived once and shared with the
// per-cell builds.
func (f *Forge) Push(ctx context.Context, opts Options) error {
	targets, err := f.resolveTargets(opts)
	if err != nil {
		return err
	}

	if err := EnsureLayout(opts.Root, f.cfg); err != nil {
		return err
	}

	rev, err := f.revision(ctx)
	if err != nil {
		return err
	}

	for _, target := range targets {
		if err := f.buildTarget(ctx, target, rev, opts); err != nil {
			return fmt.Errorf("%w: target %s: %w", ErrBuild, target, err)
		}
		if err := f.pushTarget(ctx, target, opts); err != nil {
			return fmt.Errorf("%w: target %s: %w", ErrPush, target, err)
		}
	}

	return nil
}

// Builds and pushes the selected binaries for every known architecture, then
// publishes one architecture-spanning manifest tag per binary.
//
// Multi-architecture publication always covers the full architecture set;
// any architecture selection in opts is ignored.
func (f *Forge) PushMultiarch(ctx context.Context, opts Options) error {
	binaries, err := selector.Resolve(opts.Binaries, f.cfg.Binaries, f.cfg.Binaries)
	if err != nil {
		return err
	}
	architectures, err := selector.Resolve([]string{selector.Wildcard}, f.cfg.Architectures, f.cfg.DefaultArchitectures)
	if err != nil {
		return err
	}

	pushOpts := opts
	pushOpts.Binaries = binaries
	pushOpts.Architectures = architectures
	if err := f.Push(ctx, pushOpts); err != nil {
		return err
	}

	platforms := make([]string, len(architectures))
	for i, arch := range architectures {
		platforms[i] = "linux/" + arch
	}

	for _, binary := range binaries {
		argv := []string{
			"manifest-tool", "push", "from-args",
			"--platforms", strings.Join(platforms, ","),
			"--template", imageTag(opts.DockerUser, binary, opts.Tag, "ARCH"),
			"--target", fmt.Sprintf("%s/%s:%s", opts.DockerUser, binary, opts.Tag),
		}
		cmd := shell.Command{Argv: argv, Dir: opts.Root}
		if _, err := shell.RunChecked(ctx, f.runner, cmd); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPublish, binary, err)
		}
	}

	return nil
}

// Resolves the selector tokens and returns the build matrix.
func (f *Forge) resolveTargets(opts Options) ([]Target, error) {
	binaries, err := selector.Resolve(opts.Binaries, f.cfg.Binaries, f.cfg.Binaries)
	if err != nil {
		return nil, err
	}
	architectures, err := selector.Resolve(opts.Architectures, f.cfg.Architectures, f.cfg.DefaultArchitectures)
	if err != nil {
		return nil, err
	}
	return crossProduct(architectures, binaries), nil
}

// Derives the commit/branch identity from the working tree.
func (f *Forge) revision(ctx context.Context) (revision, error) {
	commit, err := f.repo.Describe(ctx)
	if err != nil {
		return revision{}, err
	}
	branch, err := f.repo.CurrentBranch(ctx)
	if err != nil {
		return revision{}, err
	}
	return revision{commit: commit, branch: branch}, nil
}

// Compiles one target and assembles its container image.
func (f *Forge) buildTarget(ctx context.Context, target Target, rev revision, opts Options) error {
	slog.Info("building target", "binary", target.Binary, "arch", target.Architecture)

	ldflags := fmt.Sprintf("-X %s.gitCommit=%s -X %s.gitBranch=%s",
		f.cfg.LdflagsPrefix, rev.commit, f.cfg.LdflagsPrefix, rev.branch)

	compile := shell.Command{
		Argv: []string{
			"go", "build", "-v",
			"-o", f.cfg.BinaryPath(target.Architecture, target.Binary),
			"-ldflags", ldflags,
			"./cmd/" + target.Binary,
		},
		Env: map[string]string{
			"CGO_ENABLED": "0",
			"GOOS":        "linux",
			"GOARCH":      target.Architecture,
			"GOARM":       "6",
			"GO111MODULE": "on",
		},
		Dir: opts.Root,
	}
	if _, err := shell.RunChecked(ctx, f.runner, compile); err != nil {
		return err
	}

	image := shell.Command{
		Argv: []string{
			"docker", "build",
			"-t", imageTag(opts.DockerUser, target.Binary, opts.Tag, target.Architecture),
			"-f", f.cfg.Dockerfile(target.Binary),
			filepath.Join("build", target.Architecture, target.Binary),
		},
		Dir: opts.Root,
	}
	_, err := shell.RunChecked(ctx, f.runner, image)
	return err
}

// Pushes one target's image to the registry.
func (f *Forge) pushTarget(ctx context.Context, target Target, opts Options) error {
	cmd := shell.Command{
		Argv: []string{"docker", "push", imageTag(opts.DockerUser, target.Binary, opts.Tag, target.Architecture)},
		Dir:  opts.Root,
	}
	_, err := shell.RunChecked(ctx, f.runner, cmd)
	return err
}

// Returns the per-architecture image tag <user>/<binary>:<tag>-<arch>.
func imageTag(user, binary, tag, arch string) string {
	return fmt.Sprintf("%s/%s:%s-%s", user, binary, tag, arch)
}
