package main

import (
	"fmt"
	"os"

	"github.com/nxadm/tail"
	"golang.org/x/term"
)

type LogsCmd struct {
	Follow bool `short:"f" help:"keep watching the log file for new records"`
}

func (c *LogsCmd) Run(cctx *Context) error {
	t, err := tail.TailFile(cctx.LogFile, tail.Config{
		Follow:        c.Follow,
		ReOpen:        c.Follow,
		CompleteLines: true,
	})
	if err != nil {
		return err
	}

	fmtr := &logFormatter{}
	if f, ok := cctx.Stdout.(*os.File); ok {
		fmtr.colorize = term.IsTerminal(int(f.Fd()))
	}

	for line := range t.Lines {
		if line.Err != nil {
			fmt.Fprintln(cctx.Stderr, line.Err.Error())
			continue
		}
		out, err := fmtr.Format(line.Text)
		if err != nil {
			// Not a JSON record (rotation artifacts, partial writes): show it raw.
			fmt.Fprintln(cctx.Stdout, line.Text)
			continue
		}
		fmt.Fprintln(cctx.Stdout, out)
	}
	return t.Wait()
}
