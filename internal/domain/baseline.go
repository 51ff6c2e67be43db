package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

// BaselineTestError reports that the unmutated project fails its own tests.
type BaselineTestError struct {
	ExitCode int
	TimedOut bool
	Output   string
}

func (e *BaselineTestError) Error() string {
	return fmt.Sprintf("clean trial does not pass, mutant tests will be meaningless (exit code %d)\noutput:\n%s", e.ExitCode, e.Output)
}

// BaselineVerifier runs the test command once against unmutated code.
type BaselineVerifier interface {
	// Verify cleans the test cache for srcRoot, then runs command in workDir
	// and returns how long it took.
	Verify(ctx context.Context, srcRoot m.Path, workDir m.Path, command []string) (time.Duration, error)
}

type baselineVerifier struct {
	cacheCleaner adapter.CacheCleaner
	testAdapter  adapter.TestRunnerAdapter
	timeout      time.Duration
}

// NewBaselineVerifier constructs a BaselineVerifier. cacheCleaner may be nil
// to skip cache cleanup; a zero timeout means none.
func NewBaselineVerifier(cacheCleaner adapter.CacheCleaner, testAdapter adapter.TestRunnerAdapter, timeout time.Duration) BaselineVerifier {
	return &baselineVerifier{
		cacheCleaner: cacheCleaner,
		testAdapter:  testAdapter,
		timeout:      timeout,
	}
}

func (b *baselineVerifier) Verify(ctx context.Context, srcRoot m.Path, workDir m.Path, command []string) (time.Duration, error) {
	if b.cacheCleaner != nil {
		if err := b.cacheCleaner.Clean(ctx, srcRoot); err != nil {
			slog.Warn("Failed to clean test cache", "root", srcRoot, "error", err)
		}
	}

	slog.Info("Running clean trial", "command", command, "dir", workDir)

	result, err := b.testAdapter.Run(ctx, string(workDir), command, b.timeout)
	if err != nil {
		slog.Error("Failed to run clean trial", "error", err)
		return 0, fmt.Errorf("run clean trial: %w", err)
	}

	if result.TimedOut || result.ExitCode != 0 {
		slog.Error("Clean trial failed", "exit_code", result.ExitCode, "timed_out", result.TimedOut)
		return 0, &BaselineTestError{ExitCode: result.ExitCode, TimedOut: result.TimedOut, Output: result.Output}
	}

	slog.Info("Clean trial passed", "duration", result.Duration)

	return result.Duration, nil
}
