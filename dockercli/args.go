package dockercli

import (
	"strings"

	"github.com/husklabs/husk/dockercli/options"
)

// Argv builders are separated from the exec plumbing so tests can check the
// exact command lines without an engine installed.

// Table formats using only verbs docker and podman render identically.
const (
	psFormat     = "{{.ID}}\t{{.Names}}\t{{.Image}}\t{{.Status}}"
	imagesFormat = "{{.Repository}}\t{{.Tag}}\t{{.ID}}\t{{.CreatedSince}}\t{{.Size}}"
)

func buildImageArgs(opts options.BuildImage, contextDir string) []string {
	return append(append([]string{"build"}, options.ToArgs(opts)...), contextDir)
}

func runContainerArgs(opts options.RunContainer, image string, argv []string) []string {
	args := append([]string{"run"}, options.ToArgs(opts)...)
	args = append(args, image)
	return append(args, argv...)
}

func listContainersArgs(opts options.ListContainers) []string {
	return append([]string{"ps"}, options.ToArgs(opts)...)
}

func stopContainerArgs(opts options.StopContainer, ids []string) []string {
	return append(append([]string{"stop"}, options.ToArgs(opts)...), ids...)
}

func removeContainerArgs(opts options.RemoveContainer, ids []string) []string {
	return append(append([]string{"rm"}, options.ToArgs(opts)...), ids...)
}

func listImagesArgs(opts options.ListImages) []string {
	return append([]string{"image", "ls"}, options.ToArgs(opts)...)
}

func removeImageArgs(opts options.RemoveImage, ref string) []string {
	return append(append([]string{"image", "rm"}, options.ToArgs(opts)...), ref)
}

func inspectImageArgs(ref string) []string {
	return []string{"image", "inspect", ref}
}

// parseRows splits tab-separated engine output into rows with at least
// wantCols columns, dropping blank lines and anything malformed.
func parseRows(output string, wantCols int) [][]string {
	var rows [][]string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < wantCols {
			continue
		}
		rows = append(rows, cols)
	}
	return rows
}
