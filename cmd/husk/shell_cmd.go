package main

import (
	"context"
	"log/slog"
	"os"
)

// ShellCmd has no flags of its own: the image tag and mount target are fixed,
// and the mounted directory is wherever the command runs.
type ShellCmd struct{}

func (c *ShellCmd) Run(cctx *Context) error {
	ctx := context.Background()

	if err := cctx.RequireEngine(); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		slog.ErrorContext(ctx, "os.Getwd", "error", err)
		return err
	}

	// The session's exit status becomes this command's exit status; main
	// unwraps the *exec.ExitError and exits with the embedded code.
	return cctx.Workbench.Shell(ctx, cwd)
}
