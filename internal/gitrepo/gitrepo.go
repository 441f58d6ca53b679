// Package gitrepo issues git commands through the shell runner.
//
// It is a thin translation layer: every method maps to exactly one git
// invocation, and the core never inspects repository state any other way.
package gitrepo

import (
	"context"
	"strings"

	"github.com/purelb/shipyard/internal/shell"
)

// Git operations on the current working tree.
type Repo struct {
	runner shell.Runner
}

func New(runner shell.Runner) *Repo {
	return &Repo{runner: runner}
}

// Returns a human-readable commit identifier (git describe --dirty --always).
func (r *Repo) Describe(ctx context.Context) (string, error) {
	return r.query(ctx, "describe", "--dirty", "--always")
}

// Returns the name of the currently checked-out branch.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	return r.query(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// Returns true if the working tree has no uncommitted changes.
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	status, err := r.query(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return status == "", nil
}

// Checks out a branch. With create set, the branch is created at the current
// position (checkout -b); otherwise it must already exist.
func (r *Repo) Checkout(ctx context.Context, branch string, create bool) error {
	argv := []string{"git", "checkout"}
	if create {
		argv = append(argv, "-b")
	}
	argv = append(argv, branch)

	_, err := shell.RunChecked(ctx, r.runner, shell.Command{Argv: argv})
	return err
}

// Commits all working-tree changes with the given message.
func (r *Repo) CommitAll(ctx context.Context, message string) error {
	_, err := shell.RunChecked(ctx, r.runner, shell.Command{
		Argv: []string{"git", "commit", "-a", "-m", message},
	})
	return err
}

// Runs a read-only git query and returns its trimmed stdout.
func (r *Repo) query(ctx context.Context, args ...string) (string, error) {
	argv := append([]string{"git"}, args...)
	result, err := shell.RunChecked(ctx, r.runner, shell.Command{Argv: argv, Quiet: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
