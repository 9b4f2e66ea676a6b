// package dockercli shells out to a docker-compatible container engine CLI.
//
// Everything in this package is a thin wrapper around the engine binary. No
// retries, no output rewriting: callers get whatever the engine said, and
// process failures carry the engine's own *exec.ExitError.
package dockercli

import (
	"os/exec"
)

// Engine binaries husk knows how to drive. Podman is accepted because its CLI
// dialect matches docker's for every verb this package issues.
const (
	EngineDocker = "docker"
	EnginePodman = "podman"
)

// Client wraps one docker-compatible CLI binary.
type Client struct {
	bin string
}

// New returns a Client that drives the given engine binary.
func New(bin string) *Client {
	return &Client{bin: bin}
}

// Binary returns the engine binary name this client drives.
func (c *Client) Binary() string {
	return c.bin
}

// Available reports whether the engine binary can be found on PATH.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}
