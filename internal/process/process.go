package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

const waitDelay = 500 * time.Millisecond

// Runner executes external programs and captures their output. A program that exits with a
// non-zero status is not a failure: its diagnostics are the captured output. Only a program
// that can't be started or gets killed on timeout is.
type Runner struct {
	// Shell is the shell invocation, the command is appended as its last argument.
	Shell []string
	// Timeout bounds every run. Zero disables it.
	Timeout time.Duration
}

// Exec runs the command through the shell with the working directory set to dir.
func (r Runner) Exec(ctx context.Context, dir, command string) (string, error) {
	if len(r.Shell) == 0 {
		return "", errors.New("no shell configured")
	}

	args := append(append([]string(nil), r.Shell[1:]...), command)
	return r.Run(ctx, dir, r.Shell[0], args...)
}

// Run executes the program and returns its standard output, or its standard error if the
// former is empty.
func (r Runner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// grandchildren may hold the pipes open after the process got killed
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("run %s: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", fmt.Errorf("run %s: %w", name, err)
	}

	if stdout.Len() == 0 {
		return stderr.String(), nil
	}

	return stdout.String(), nil
}
