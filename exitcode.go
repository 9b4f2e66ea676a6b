package husk

import (
	"errors"
	"os/exec"
)

// ExitCode maps an error from an engine invocation to the exit code it
// carried: 0 for nil, the child process's code for *exec.ExitError, and -1
// when the engine never ran at all.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
