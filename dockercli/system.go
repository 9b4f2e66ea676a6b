package dockercli

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
)

// VersionInfo returns the engine's version banner, or an error.
func (c *Client) VersionInfo(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, "--version")
	slog.InfoContext(ctx, "Client.VersionInfo", "cmd", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return strings.TrimSpace(string(output)), nil
}

// Ping checks that the engine can actually service requests (daemon running,
// socket reachable) by issuing the cheapest query both engines support.
func (c *Client) Ping(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.bin, "ps", "--quiet")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
