package shell

import (
	"context"
	"strings"
)

// Scripted response for a recorded command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error // Spawn failure; takes precedence over the result.
}

// Runner double that records invocations instead of executing processes.
//
// Responses are scripted by command-line prefix: the longest key that is a
// prefix of the joined argv wins. Unscripted commands succeed with empty
// output, so tests only script the commands they care about.
type Recorder struct {
	Calls     []Command
	Responses map[string]Response
}

func NewRecorder() *Recorder {
	return &Recorder{Responses: make(map[string]Response)}
}

// Scripts a response for commands starting with the given prefix.
func (r *Recorder) Respond(prefix string, resp Response) {
	r.Responses[prefix] = resp
}

func (r *Recorder) Run(ctx context.Context, cmd Command) (*Result, error) {
	r.Calls = append(r.Calls, cmd)

	line := cmd.String()
	match := ""
	for prefix := range r.Responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(match) {
			match = prefix
		}
	}

	resp := r.Responses[match]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Result{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}, nil
}

// Returns the recorded command lines, one joined string per invocation.
func (r *Recorder) Lines() []string {
	lines := make([]string, len(r.Calls))
	for i, call := range r.Calls {
		lines[i] = call.String()
	}
	return lines
}
