package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type InitCmd struct {
	Force bool `help:"overwrite an existing Dockerfile"`
}

func (c *InitCmd) Run(cctx *Context) error {
	ctx := context.Background()

	cwd, err := os.Getwd()
	if err != nil {
		slog.ErrorContext(ctx, "os.Getwd", "error", err)
		return err
	}
	target := filepath.Join(cwd, "Dockerfile")

	if _, err := os.Stat(target); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	}

	if err := os.WriteFile(target, starterDockerfile, 0o644); err != nil {
		slog.ErrorContext(ctx, "InitCmd write", "error", err, "target", target)
		return err
	}

	cctx.Msg.Messagef(ctx, "Wrote %s; edit it, then run `husk build`", target)
	return nil
}
