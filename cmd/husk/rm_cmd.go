package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type RmCmd struct {
	Name    []string `arg:"" optional:"" help:"session container names to stop and remove"`
	All     bool     `short:"a" help:"remove all live husk sessions"`
	Image   bool     `help:"also remove the dev image"`
	History bool     `help:"clear recorded build, session, and bundle history"`
}

func (c *RmCmd) Run(cctx *Context) error {
	ctx := context.Background()
	slog.InfoContext(ctx, "RmCmd", "run", *c)

	names := c.Name
	if len(names) > 0 || c.All || c.Image {
		if err := cctx.RequireEngine(); err != nil {
			return err
		}
	}
	if c.All {
		live, err := cctx.Workbench.LiveSessions(ctx)
		if err != nil {
			return err
		}
		names = names[:0]
		for _, ctr := range live {
			names = append(names, ctr.Names)
		}
	}
	if len(names) == 0 && !c.Image && !c.History {
		return fmt.Errorf("nothing to remove: give session names, or --all, --image, --history")
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := cctx.Workbench.RemoveSession(ctx, name); err != nil {
				errChan <- fmt.Errorf("%s: %w", name, err)
				return
			}
			fmt.Fprintf(cctx.Stdout, "%s\n", name)
		}(name)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		return err
	}

	if c.Image {
		if err := cctx.Workbench.RemoveImage(ctx); err != nil {
			return err
		}
	}

	if c.History && cctx.Store != nil {
		builds, err := cctx.Store.PruneBuilds(ctx)
		if err != nil {
			return err
		}
		sessions, err := cctx.Store.PruneSessions(ctx)
		if err != nil {
			return err
		}
		bundles, err := cctx.Store.PruneBundles(ctx)
		if err != nil {
			return err
		}
		cctx.Msg.Messagef(ctx, "Cleared %d builds, %d sessions, %d bundles from history", builds, sessions, bundles)
	}

	return nil
}
