// Package shell is the command-execution boundary for the whole tool.
//
// Every external collaborator (git, the compiler, docker, manifest-tool, the
// patch tool) is reached through the [Runner] interface. Orchestration code
// never touches os/exec directly, which keeps the matrix walk and the release
// state machine testable against the [Recorder] double.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// One external command invocation.
type Command struct {
	Argv  []string          // Program and arguments. Never empty.
	Env   map[string]string // Extra environment, appended to the process env.
	Dir   string            // Working directory. Empty means inherit.
	Quiet bool              // Suppress console streaming (read-only queries).
}

// Returns the command line as a single string, for logs and errors.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Captured outcome of a command invocation.
//
// A non-zero exit code is not an error at this layer; the caller decides.
type Result struct {
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
	ExitCode int    // Exit code of the process.
}

// Executes external commands.
type Runner interface {
	// Runs the command to completion. The returned error reports only
	// spawn or context failures; exit status lives in the Result.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Runner backed by os/exec on the host.
//
// Unless the command is marked Quiet, its output streams to the console
// while being captured, so long compiler and docker runs stay visible.
type Exec struct{}

func NewExec() *Exec {
	return &Exec{}
}

func (e *Exec) Run(ctx context.Context, cmd Command) (*Result, error) {
	if len(cmd.Argv) == 0 {
		return nil, fmt.Errorf("%w: empty argv", ErrCommandFailed)
	}

	if !cmd.Quiet {
		slog.Info("exec", "command", cmd.String())
	}

	proc := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	if cmd.Dir != "" {
		proc.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		proc.Env = append(os.Environ(), flattenEnv(cmd.Env)...)
	}

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr
	if !cmd.Quiet {
		proc.Stdout = io.MultiWriter(&stdout, os.Stdout)
		proc.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	err := proc.Run()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("%w: %s: %w", ErrCommandFailed, cmd, err)
	}

	return result, nil
}

// Runs the command and treats a non-zero exit as an error.
//
// The error wraps [ErrCommandFailed] and carries the command line, exit code,
// and captured stderr, which is all a failed orchestration step reports.
func RunChecked(ctx context.Context, r Runner, cmd Command) (*Result, error) {
	result, err := r.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return result, fmt.Errorf("%w: %s: exit code %d: %s",
			ErrCommandFailed, cmd, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result, nil
}

// Flattens an env map into sorted KEY=VALUE form.
func flattenEnv(env map[string]string) []string {
	entries := make([]string, 0, len(env))
	for k, v := range env {
		entries = append(entries, k+"="+v)
	}
	sort.Strings(entries)
	return entries
}
