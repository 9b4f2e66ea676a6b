package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

type RunCmd struct {
	TTY bool     `help:"allocate a pseudo-terminal for the command"`
	Arg []string `arg:"" optional:"" passthrough:"" help:"command and args to run in the container"`
}

func (c *RunCmd) Run(cctx *Context) error {
	ctx := context.Background()

	if err := cctx.RequireEngine(); err != nil {
		return err
	}
	if len(c.Arg) == 0 {
		return fmt.Errorf("nothing to run: husk run -- CMD [ARGS...]")
	}

	cwd, err := os.Getwd()
	if err != nil {
		slog.ErrorContext(ctx, "os.Getwd", "error", err)
		return err
	}

	return cctx.Workbench.RunOnce(ctx, cwd, c.Arg, c.TTY)
}
