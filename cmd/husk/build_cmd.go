package main

import (
	"context"
	"log/slog"
	"os"
)

// BuildCmd has no flags of its own: the image tag is fixed and the build
// context is wherever the command runs.
type BuildCmd struct{}

func (c *BuildCmd) Run(cctx *Context) error {
	ctx := context.Background()

	if err := cctx.RequireEngine(); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		slog.ErrorContext(ctx, "os.Getwd", "error", err)
		return err
	}

	// Engine output and any engine failure pass through untouched.
	return cctx.Workbench.Build(ctx, cwd)
}
