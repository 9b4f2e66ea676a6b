package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"
)

type LsCmd struct {
	Limit int  `default:"10" help:"history rows to show per section"`
	Live  bool `help:"only show live session containers"`
}

func (c *LsCmd) Run(cctx *Context) error {
	ctx := context.Background()

	if err := cctx.RequireEngine(); err != nil {
		return err
	}

	live, err := cctx.Workbench.LiveSessions(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "LsCmd LiveSessions", "error", err)
		return err
	}

	w := tabwriter.NewWriter(cctx.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "LIVE\tCONTAINER ID\tIMAGE\tSTATUS\t")
	for _, ctr := range live {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", ctr.Names, ctr.ID, ctr.Image, ctr.Status)
	}
	if len(live) == 0 {
		fmt.Fprintln(w, "(none)\t\t\t\t")
	}

	if c.Live || cctx.Store == nil {
		return nil
	}

	builds, err := cctx.Store.ListBuilds(ctx, c.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "LsCmd ListBuilds", "error", err)
		return err
	}
	if len(builds) > 0 {
		fmt.Fprintln(w, "\nBUILD\tWHEN\tCONTEXT\tDURATION\tEXIT\t")
		for _, b := range builds {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t\n",
				b.Image, b.StartedAt.Format(time.DateTime), b.ContextDir, b.Duration.Round(time.Millisecond), b.ExitCode)
		}
	}

	sessions, err := cctx.Store.ListSessions(ctx, c.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "LsCmd ListSessions", "error", err)
		return err
	}
	if len(sessions) > 0 {
		fmt.Fprintln(w, "\nSESSION\tWHEN\tHOST DIR\tCOMMAND\tEXIT\t")
		for _, s := range sessions {
			cmd := s.Command
			if cmd == "" {
				cmd = "(shell)"
			}
			exit := "-"
			if s.Ended {
				exit = fmt.Sprintf("%d", s.ExitCode)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				s.Name, s.StartedAt.Format(time.DateTime), s.HostDir, cmd, exit)
		}
	}

	bundles, err := cctx.Store.ListBundles(ctx, c.Limit)
	if err != nil {
		slog.ErrorContext(ctx, "LsCmd ListBundles", "error", err)
		return err
	}
	if len(bundles) > 0 {
		fmt.Fprintln(w, "\nBUNDLE\tDIGEST\tPUSHED\tREFERENCE\t")
		for _, b := range bundles {
			fmt.Fprintf(w, "%s\t%.12s\t%t\t%s\t\n", b.Name, b.Digest, b.Pushed, b.Reference)
		}
	}

	return nil
}
