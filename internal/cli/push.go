package cli

import (
	"context"
)

// Represents the 'shipyard push' command.
type PushCmd struct {
	Binaries      []string `short:"b" name:"binary" help:"Binaries to push, or 'all'. Repeatable; defaults to all."`
	Architectures []string `short:"a" name:"arch" help:"Architectures to push, or 'all'. Repeatable; defaults to amd64."`
	Tag           string   `help:"Image tag prefix; per-architecture tags are <tag>-<arch>. Default 'dev'."`
	DockerUser    string   `name:"docker-user" help:"Registry user under which to tag images. Default 'metallb'."`
	Project       string   `help:"Project to operate on. Default 'metallb'."`
}

// Executes the push command.
func (c *PushCmd) Run(ctx context.Context) error {
	f, opts, err := buildForge(c.Project, c.Binaries, c.Architectures, c.Tag, c.DockerUser)
	if err != nil {
		return err
	}
	return f.Push(ctx, opts)
}

// Represents the 'shipyard push-multiarch' command.
//
// Multi-architecture publication always spans the full architecture set, so
// the command takes no architecture selector.
type PushMultiarchCmd struct {
	Binaries   []string `short:"b" name:"binary" help:"Binaries to push, or 'all'. Repeatable; defaults to all."`
	Tag        string   `help:"Image tag prefix; the manifest tag is the bare <tag>. Default 'dev'."`
	DockerUser string   `name:"docker-user" help:"Registry user under which to tag images. Default 'metallb'."`
	Project    string   `help:"Project to operate on. Default 'metallb'."`
}

// Executes the push-multiarch command.
func (c *PushMultiarchCmd) Run(ctx context.Context) error {
	f, opts, err := buildForge(c.Project, c.Binaries, nil, c.Tag, c.DockerUser)
	if err != nil {
		return err
	}
	return f.PushMultiarch(ctx, opts)
}
