package cli

import (
	"context"

	"github.com/purelb/shipyard/internal/project"
	"github.com/purelb/shipyard/internal/release"
	"github.com/purelb/shipyard/internal/shell"
)

// Represents the 'shipyard release' command.
type ReleaseCmd struct {
	Version          string `arg:"" help:"Release version (strict major.minor.patch, e.g. 1.4.0)."`
	SkipReleaseNotes bool   `name:"skip-release-notes" help:"Skip the release-notes check."`
	Project          string `help:"Project to release. Default 'metallb'."`
}

// Executes the release command.
func (c *ReleaseCmd) Run(ctx context.Context) error {
	defaults, err := loadDefaults(RootCmd.Config)
	if err != nil {
		return err
	}

	cfg, err := project.Get(pick(c.Project, defaults.Project))
	if err != nil {
		return err
	}

	return release.New(shell.NewExec(), cfg).Run(ctx, release.Options{
		Version:          c.Version,
		SkipReleaseNotes: c.SkipReleaseNotes,
	})
}
