package dockercli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/husklabs/husk/dockercli/options"
	"github.com/husklabs/husk/dockercli/types"
)

// RunContainer runs argv in a new container from the given image, attached to
// the caller's stdio. The returned wait func blocks until the container exits
// and returns the engine process's error, *exec.ExitError included, untouched.
//
// When opts requests a TTY and stdin really is one, the engine is attached
// directly; it puts the terminal into raw mode itself. When a TTY is requested
// but stdin is not one (scripted invocations, test harnesses), the engine gets
// a pseudo-terminal and we relay the bytes.
func (c *Client) RunContainer(ctx context.Context, opts options.RunContainer, image string, argv []string, stdin io.Reader, stdout, stderr io.Writer) (func() error, error) {
	cmd := exec.CommandContext(ctx, c.bin, runContainerArgs(opts, image, argv)...)
	slog.InfoContext(ctx, "Client.RunContainer", "cmd", strings.Join(cmd.Args, " "))

	stdinFile, isFile := stdin.(*os.File)
	if !opts.TTY || (isFile && term.IsTerminal(int(stdinFile.Fd()))) {
		cmd.Stdin = stdin
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return cmd.Wait, nil
	}

	slog.InfoContext(ctx, "Client.RunContainer: using pseudo-terminal")
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	// There's no real terminal to inherit a size from, so pick a sane one.
	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		slog.InfoContext(ctx, "Client.RunContainer pty.Setsize", "error", err)
	}
	go io.Copy(ptmx, stdin)
	// The pty is a single stream; the engine's stderr and stdout arrive interleaved.
	go io.Copy(stdout, ptmx)

	return func() error {
		err := cmd.Wait()
		ptmx.Close()
		if err != nil {
			slog.ErrorContext(ctx, "Client.RunContainer wait", "error", err)
		}
		return err
	}, nil
}

// ListContainers returns the engine's view of containers matching opts.
func (c *Client) ListContainers(ctx context.Context, opts options.ListContainers) ([]types.ContainerSummary, error) {
	if opts.Format == "" {
		opts.Format = psFormat
	}
	cmd := exec.CommandContext(ctx, c.bin, listContainersArgs(opts)...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var containers []types.ContainerSummary
	for _, row := range parseRows(string(output), 4) {
		containers = append(containers, types.ContainerSummary{
			ID:     row[0],
			Names:  row[1],
			Image:  row[2],
			Status: row[3],
		})
	}
	return containers, nil
}

// StopContainer stops the given containers. It returns the stop command output, or an error.
func (c *Client) StopContainer(ctx context.Context, opts options.StopContainer, ids ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, stopContainerArgs(opts, ids)...)
	slog.InfoContext(ctx, "Client.StopContainer", "cmd", strings.Join(cmd.Args, " "))
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// RemoveContainer removes the given containers. It returns the rm command output, or an error.
func (c *Client) RemoveContainer(ctx context.Context, opts options.RemoveContainer, ids ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, removeContainerArgs(opts, ids)...)
	slog.InfoContext(ctx, "Client.RemoveContainer", "cmd", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), err
	}
	return strings.TrimSpace(string(output)), nil
}
