package dockercli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"

	"github.com/husklabs/husk/dockercli/options"
	"github.com/husklabs/husk/dockercli/types"
)

// BuildImage builds an image from contextDir. The engine's progress output
// goes straight to the given writers: the engine detects when it isn't
// writing to a tty and changes its output, so there's no intermediary pipe.
// The returned wait func blocks until the build finishes and returns the
// engine process's error untouched.
func (c *Client) BuildImage(ctx context.Context, opts options.BuildImage, contextDir string, stdout, stderr io.Writer) (func() error, error) {
	cmd := exec.CommandContext(ctx, c.bin, buildImageArgs(opts, contextDir)...)
	cmd.Dir = contextDir
	slog.InfoContext(ctx, "Client.BuildImage", "cmd.Dir", cmd.Dir, "cmd", strings.Join(cmd.Args, " "))

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}

// InspectImage returns details about the image with the given reference, or an error.
func (c *Client) InspectImage(ctx context.Context, ref string) ([]types.ImageInspect, error) {
	cmd := exec.CommandContext(ctx, c.bin, inspectImageArgs(ref)...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	rawJSON, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var entries []types.ImageInspect
	if err := json.Unmarshal(rawJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse image JSON: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no image entries found in inspect output")
	}
	return entries, nil
}

// ListImages returns all images known to the engine, or an error.
func (c *Client) ListImages(ctx context.Context, opts options.ListImages) ([]types.ImageSummary, error) {
	if opts.Format == "" {
		opts.Format = imagesFormat
	}
	cmd := exec.CommandContext(ctx, c.bin, listImagesArgs(opts)...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var images []types.ImageSummary
	for _, row := range parseRows(string(output), 5) {
		images = append(images, types.ImageSummary{
			Repository:   row[0],
			Tag:          row[1],
			ID:           row[2],
			CreatedSince: row[3],
			Size:         row[4],
		})
	}
	return images, nil
}

// RemoveImage removes the image with the given reference. It returns the rm command output, or an error.
func (c *Client) RemoveImage(ctx context.Context, opts options.RemoveImage, ref string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, removeImageArgs(opts, ref)...)
	slog.InfoContext(ctx, "Client.RemoveImage", "cmd", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), err
	}
	return strings.TrimSpace(string(output)), nil
}
