package cli

import (
	"context"

	"github.com/purelb/shipyard/internal/forge"
	"github.com/purelb/shipyard/internal/project"
	"github.com/purelb/shipyard/internal/shell"
)

// Represents the 'shipyard build' command.
type BuildCmd struct {
	Binaries      []string `short:"b" name:"binary" help:"Binaries to build, or 'all'. Repeatable; defaults to all."`
	Architectures []string `short:"a" name:"arch" help:"Architectures to build, or 'all'. Repeatable; defaults to amd64."`
	Tag           string   `help:"Image tag prefix; per-architecture tags are <tag>-<arch>. Default 'dev'."`
	DockerUser    string   `name:"docker-user" help:"Registry user under which to tag images. Default 'metallb'."`
	Project       string   `help:"Project to operate on. Default 'metallb'."`
}

// Executes the build command.
func (c *BuildCmd) Run(ctx context.Context) error {
	f, opts, err := buildForge(c.Project, c.Binaries, c.Architectures, c.Tag, c.DockerUser)
	if err != nil {
		return err
	}
	return f.Build(ctx, opts)
}

// Resolves defaults and constructs the forge and its options shared by the
// build and push commands.
func buildForge(projectName string, binaries, architectures []string, tag, dockerUser string) (*forge.Forge, forge.Options, error) {
	defaults, err := loadDefaults(RootCmd.Config)
	if err != nil {
		return nil, forge.Options{}, err
	}

	cfg, err := project.Get(pick(projectName, defaults.Project))
	if err != nil {
		return nil, forge.Options{}, err
	}

	opts := forge.Options{
		Binaries:      binaries,
		Architectures: architectures,
		Tag:           pick(tag, defaults.Tag),
		DockerUser:    pick(dockerUser, defaults.DockerUser),
	}
	return forge.New(shell.NewExec(), cfg), opts, nil
}
