package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/vpgbench/errors"
)

const defaultGracePeriod = 5 * time.Second

// Run executes a subprocess, buffering its output, and waits for it to complete.
// If the context is canceled, SIGTERM is sent first, then SIGKILL after GracePeriod.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	c, err := newCmd(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, startError(ctx, cmd, err)
	}
	err = c.Wait()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	if err != nil {
		return result, waitError(ctx, cmd, result, err)
	}
	return result, nil
}

// newCmd builds an exec.Cmd that runs in its own process group, so
// cancellation reaches every child the tool spawns.
func newCmd(ctx context.Context, cmd Command) (*exec.Cmd, error) {
	if cmd.Binary == "" {
		return nil, errors.MissingField("binary")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = defaultGracePeriod
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running external tools is the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Don't let exec.CommandContext kill with SIGKILL immediately
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod
	return c, nil
}

// startError classifies a failure to spawn the process.
func startError(ctx context.Context, cmd Command, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return contextError(cmd, ctxErr)
	}
	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, os.ErrNotExist) {
		return errors.MissingBinary(cmd.Binary, nil).WithCause(err)
	}
	return errors.Internal(fmt.Errorf("process: start %s: %w", cmd.Binary, err))
}

// waitError classifies a failed Wait. Context cancellation wins over the exit
// status, since a killed process also exits non-zero.
func waitError(ctx context.Context, cmd Command, result *Result, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return contextError(cmd, ctxErr)
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.ProcessFailed(cmd.Binary, cmd.Args, result.ExitCode).
			WithDetail("command", strings.Join(cmd.Argv(), " ")).
			WithCause(err)
	}
	return errors.Internal(fmt.Errorf("process: wait %s: %w", cmd.Binary, err))
}

func contextError(cmd Command, ctxErr error) error {
	if stderrors.Is(ctxErr, context.DeadlineExceeded) {
		return errors.Timeout(cmd.Binary).WithCause(ctxErr)
	}
	return errors.Interrupted(cmd.Binary).WithCause(ctxErr)
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
