package adapter

import (
	"context"
	"fmt"
	"log/slog"

	m "gooze.dev/pkg/mutest/internal/model"
)

// CacheCleaner removes stale build and test cache artifacts before the
// baseline run.
type CacheCleaner interface {
	Clean(ctx context.Context, root m.Path) error
}

// GoCacheCleaner clears the go test cache through the go tool.
type GoCacheCleaner struct {
	runner TestRunnerAdapter
}

// NewGoCacheCleaner constructs a GoCacheCleaner.
func NewGoCacheCleaner(runner TestRunnerAdapter) *GoCacheCleaner {
	return &GoCacheCleaner{runner: runner}
}

// Clean runs `go clean -testcache` from root.
func (c *GoCacheCleaner) Clean(ctx context.Context, root m.Path) error {
	result, err := c.runner.Run(ctx, string(root), []string{"go", "clean", "-testcache"}, 0)
	if err != nil {
		return fmt.Errorf("go clean: %w", err)
	}

	if result.ExitCode != 0 {
		return fmt.Errorf("go clean exited with %d: %s", result.ExitCode, result.Output)
	}

	slog.Debug("Cleaned test cache", "root", root, "duration", result.Duration)

	return nil
}
