package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/husklabs/husk/version"
)

type diagnosticCheck struct {
	Name     string
	Optional bool
	Run      func(context.Context) error
}

func diagnosticChecks(cctx *Context) []diagnosticCheck {
	return []diagnosticCheck{
		{
			Name: fmt.Sprintf("%s binary on PATH", cctx.Engine),
			Run: func(ctx context.Context) error {
				if !cctx.Client.Available() {
					return fmt.Errorf("%s not found on PATH", cctx.Engine)
				}
				return nil
			},
		},
		{
			Name: "engine answering requests",
			Run: func(ctx context.Context) error {
				return cctx.Client.Ping(ctx)
			},
		},
		{
			Name: "state directory writable",
			Run: func(ctx context.Context) error {
				if err := os.MkdirAll(cctx.StateDir, 0o750); err != nil {
					return err
				}
				probe, err := os.CreateTemp(cctx.StateDir, "doctor-*")
				if err != nil {
					return err
				}
				probe.Close()
				return os.Remove(probe.Name())
			},
		},
		{
			Name: "log file writable",
			Run: func(ctx context.Context) error {
				if err := os.MkdirAll(filepath.Dir(cctx.LogFile), 0o750); err != nil {
					return err
				}
				f, err := os.OpenFile(cctx.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				return f.Close()
			},
		},
		{
			Name:     "Dockerfile in current directory",
			Optional: true,
			Run: func(ctx context.Context) error {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				if _, err := os.Stat(filepath.Join(cwd, "Dockerfile")); err != nil {
					return fmt.Errorf("no Dockerfile here; `husk init` writes a starter one")
				}
				return nil
			},
		},
	}
}

type DoctorCmd struct{}

func (c *DoctorCmd) Run(cctx *Context) error {
	ctx := context.Background()

	fmt.Fprintf(cctx.Stdout, "husk %s\n", version.Get())
	if banner, err := cctx.Client.VersionInfo(ctx); err == nil {
		fmt.Fprintf(cctx.Stdout, "engine %s\n", banner)
	}
	fmt.Fprintln(cctx.Stdout)

	w := tabwriter.NewWriter(cctx.Stdout, 0, 0, 2, ' ', 0)
	failures := 0
	for _, check := range diagnosticChecks(cctx) {
		err := check.Run(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(w, "ok\t%s\t\n", check.Name)
			slog.InfoContext(ctx, "diagnosticCheck passed", "name", check.Name)
		case check.Optional:
			fmt.Fprintf(w, "warn\t%s\t%v\n", check.Name, err)
			slog.InfoContext(ctx, "diagnosticCheck warned", "name", check.Name, "error", err)
		default:
			failures++
			fmt.Fprintf(w, "fail\t%s\t%v\n", check.Name, err)
			slog.ErrorContext(ctx, "diagnosticCheck failed", "name", check.Name, "error", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failures > 0 {
		return &exitError{code: 1}
	}
	return nil
}
