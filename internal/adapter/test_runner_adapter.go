package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// RunResult describes one finished external process invocation.
type RunResult struct {
	ExitCode int
	Output   string
	Duration time.Duration
	TimedOut bool
}

// TestRunnerAdapter abstracts test command execution.
type TestRunnerAdapter interface {
	// Run executes command in workDir and waits for it. A non-zero exit is
	// reported through RunResult.ExitCode, not as an error; err is only set
	// when the process could not be started at all.
	Run(ctx context.Context, workDir string, command []string, timeout time.Duration) (RunResult, error)
}

// waitDelay bounds how long Run waits for output pipes after the process was
// killed, since grandchildren may keep them open.
const waitDelay = 2 * time.Second

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// Run executes the command with combined stdout/stderr capture. A zero
// timeout means no deadline.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, workDir string, command []string, timeout time.Duration) (RunResult, error) {
	if len(command) == 0 {
		return RunResult{}, errors.New("empty command")
	}

	runCtx := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// #nosec G204 - the test command is supplied by the user on purpose
	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.WaitDelay = waitDelay

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	err := cmd.Run()
	result := RunResult{
		Output:   output.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.TimedOut = true
		result.ExitCode = -1

		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, fmt.Errorf("start %s: %w", command[0], err)
}
