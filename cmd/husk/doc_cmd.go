package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
)

type DocCmd struct{}

// Run prints the complete CLI reference as markdown: app summary, global
// flags, then every command with its usage line and flags.
func (c *DocCmd) Run(kctx *kong.Context) error {
	w := kctx.Stdout
	if w == nil {
		w = io.Discard
	}
	md := mdWriter{w: w}

	root := kctx.Model.Node
	fmt.Fprintf(w, "# %s\n\n", kctx.Model.Name)
	if root.Help != "" {
		fmt.Fprintf(w, "%s\n\n", root.Help)
	}

	var global []*kong.Flag
	for _, flag := range kctx.Model.Flags {
		if !flag.Hidden {
			global = append(global, flag)
		}
	}
	if len(global) > 0 {
		fmt.Fprintf(w, "## Global Flags\n\n")
		md.flags(global)
	}

	fmt.Fprintf(w, "## Commands\n\n")
	md.commands(root, kctx.Model.Name, 2)
	return nil
}

type mdWriter struct {
	w io.Writer
}

// commands walks the command tree depth first, one heading per command.
func (md mdWriter) commands(node *kong.Node, path string, level int) {
	for _, child := range node.Children {
		if child.Hidden || child.Type != kong.CommandNode {
			continue
		}
		cmdPath := path + " " + child.Name

		fmt.Fprintf(md.w, "%s `%s`\n\n", strings.Repeat("#", level), cmdPath)
		if child.Help != "" {
			fmt.Fprintf(md.w, "%s\n\n", child.Help)
		}
		fmt.Fprintf(md.w, "**Usage:**\n\n```\n%s\n```\n\n", usageLine(cmdPath, child))

		var own []*kong.Flag
		for _, flag := range child.Flags {
			if !flag.Hidden {
				own = append(own, flag)
			}
		}
		if len(own) > 0 {
			fmt.Fprintf(md.w, "**Flags:**\n\n")
			md.flags(own)
		}

		if len(child.Children) > 0 {
			md.commands(child, cmdPath, level+1)
		}
	}
}

func (md mdWriter) flags(flags []*kong.Flag) {
	for _, flag := range flags {
		sig := "--" + flag.Name
		if flag.Short != 0 {
			sig = fmt.Sprintf("-%c, %s", flag.Short, sig)
		}
		fmt.Fprintf(md.w, "- `%s`", sig)
		if !flag.IsBool() {
			fmt.Fprintf(md.w, " _%s_", flag.FormatPlaceHolder())
		}
		if flag.Help != "" {
			fmt.Fprintf(md.w, " - %s", flag.Help)
		}
		if flag.Default != "" {
			fmt.Fprintf(md.w, " (default: `%s`)", flag.Default)
		}
		fmt.Fprintln(md.w)
	}
	fmt.Fprintln(md.w)
}

func usageLine(cmdPath string, node *kong.Node) string {
	usage := cmdPath
	if len(node.Flags) > 0 {
		usage += " [flags]"
	}
	for _, arg := range node.Positional {
		name := strings.ToUpper(arg.Name)
		if arg.Required {
			usage += fmt.Sprintf(" <%s>", name)
		} else {
			usage += fmt.Sprintf(" [%s]", name)
		}
		if arg.Passthrough {
			usage += "..."
		}
	}
	return usage
}
