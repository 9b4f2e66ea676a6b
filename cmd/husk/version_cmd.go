package main

import (
	"encoding/json"
	"fmt"

	"github.com/husklabs/husk/version"
)

type VersionCmd struct {
	JSON bool `help:"print version info as JSON"`
}

func (c *VersionCmd) Run(cctx *Context) error {
	info := version.Get()
	if c.JSON {
		enc := json.NewEncoder(cctx.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(cctx.Stdout, "husk %s\n", info)
	if info.GoVersion != "" {
		fmt.Fprintf(cctx.Stdout, "go %s\n", info.GoVersion)
	}
	return nil
}
