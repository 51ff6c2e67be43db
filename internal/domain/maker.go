package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"gooze.dev/pkg/mutest/internal/adapter"
	"gooze.dev/pkg/mutest/internal/domain/mutagens"
	m "gooze.dev/pkg/mutest/internal/model"
)

const (
	// go test exits 1 for failing tests and for packages that do not build;
	// the latter are told apart by these markers.
	buildFailedMarker = "[build failed]"
	setupFailedMarker = "[setup failed]"

	mutantPerm = 0o600
)

// Classify maps a finished test command to a trial status.
func Classify(result adapter.RunResult) m.Status {
	switch {
	case result.TimedOut:
		return m.Unknown
	case result.ExitCode == 0:
		return m.Survived
	case result.ExitCode == 1:
		if strings.Contains(result.Output, buildFailedMarker) || strings.Contains(result.Output, setupFailedMarker) {
			return m.Error
		}

		return m.Detected
	case result.ExitCode == 2:
		return m.Error
	default:
		return m.Unknown
	}
}

type maker struct {
	fsAdapter   adapter.SourceFSAdapter
	testAdapter adapter.TestRunnerAdapter
	workspaces  WorkspaceManager
	workspace   Workspace
	timeout     time.Duration
}

// NewMaker constructs a TrialRunner that mutates files inside ws. A zero
// timeout lets each trial run until the test command exits.
func NewMaker(fsAdapter adapter.SourceFSAdapter, testAdapter adapter.TestRunnerAdapter, workspaces WorkspaceManager, ws Workspace, timeout time.Duration) TrialRunner {
	return &maker{
		fsAdapter:   fsAdapter,
		testAdapter: testAdapter,
		workspaces:  workspaces,
		workspace:   ws,
		timeout:     timeout,
	}
}

// RunTrial writes the mutant into the workspace, runs command, and restores
// the original bytes. Only a failed restore or a cancelled ctx is returned as
// an error; everything else becomes the trial status.
func (mk *maker) RunTrial(ctx context.Context, tree *adapter.SourceTree, loc m.LocIndex, op m.Operator, command []string) (m.TrialResult, error) {
	mutated, err := mutagens.Apply(tree.Content, loc, op)
	if err != nil {
		slog.Warn("Mutation not applicable", "path", tree.Path, "location", loc.String(), "operator", op, "error", err)
		return m.TrialResult{Status: m.Unknown, Output: err.Error()}, nil
	}

	target, err := mk.workspaces.Locate(ctx, mk.workspace, tree.Path)
	if err != nil {
		return m.TrialResult{}, err
	}

	diff := mk.diff(ctx, tree, mutated)

	if err := mk.fsAdapter.WriteFile(ctx, target, mutated, mutantPerm); err != nil {
		slog.Error("Failed to write mutant", "path", target, "error", err)
		return m.TrialResult{}, errors.Join(fmt.Errorf("write mutant %s: %w", target, err), mk.restore(ctx, target, tree.Content))
	}

	result, runErr := mk.testAdapter.Run(ctx, string(mk.workspace.WorkDir), command, mk.timeout)

	if err := mk.restore(ctx, target, tree.Content); err != nil {
		return m.TrialResult{}, err
	}

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return m.TrialResult{}, ctxErr
		}

		slog.Warn("Failed to run mutant trial", "command", command, "error", runErr)

		return m.TrialResult{Status: m.Unknown, Output: runErr.Error(), Diff: diff}, nil
	}

	return m.TrialResult{
		Status:   Classify(result),
		Output:   result.Output,
		Diff:     diff,
		Duration: result.Duration,
	}, nil
}

func (mk *maker) restore(ctx context.Context, target m.Path, original []byte) error {
	if err := mk.fsAdapter.WriteFile(context.WithoutCancel(ctx), target, original, mutantPerm); err != nil {
		slog.Error("Failed to restore original source", "path", target, "error", err)
		return fmt.Errorf("restore %s: %w", target, err)
	}

	return nil
}

func (mk *maker) diff(ctx context.Context, tree *adapter.SourceTree, mutated []byte) string {
	name := string(tree.Path)
	if rel, err := mk.fsAdapter.RelPath(ctx, mk.workspace.ProjectRoot, tree.Path); err == nil {
		name = string(rel)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(tree.Content)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: name,
		ToFile:   name,
		Context:  1,
	})
	if err != nil {
		slog.Debug("Failed to build mutant diff", "path", tree.Path, "error", err)
		return ""
	}

	return diff
}
