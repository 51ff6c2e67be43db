package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

const workspacePattern = "mutest-workspace-*"

// Workspace is a temporary copy of a project in which trials run.
type Workspace struct {
	// ProjectRoot is the directory holding the original go.mod.
	ProjectRoot m.Path
	// Dir is the root of the copy.
	Dir m.Path
	// WorkDir is where commands run: the copy of the directory the user
	// invoked mutest from, or Dir when that lies outside the project.
	WorkDir m.Path
}

// WorkspaceManager creates and removes trial workspaces.
type WorkspaceManager interface {
	Prepare(ctx context.Context, projectRoot m.Path, invokedFrom m.Path) (Workspace, error)
	Locate(ctx context.Context, ws Workspace, original m.Path) (m.Path, error)
	Cleanup(ctx context.Context, ws Workspace)
}

type workspaceManager struct {
	fsAdapter adapter.SourceFSAdapter
}

// NewWorkspaceManager constructs a WorkspaceManager.
func NewWorkspaceManager(fsAdapter adapter.SourceFSAdapter) WorkspaceManager {
	return &workspaceManager{fsAdapter: fsAdapter}
}

func (w *workspaceManager) Prepare(ctx context.Context, projectRoot m.Path, invokedFrom m.Path) (Workspace, error) {
	dir, err := w.fsAdapter.CreateTempDir(ctx, workspacePattern)
	if err != nil {
		slog.Error("Failed to create workspace", "error", err)
		return Workspace{}, fmt.Errorf("create workspace: %w", err)
	}

	ws := Workspace{ProjectRoot: projectRoot, Dir: dir, WorkDir: dir}

	if err := w.fsAdapter.CopyDir(ctx, projectRoot, dir); err != nil {
		w.Cleanup(ctx, ws)
		slog.Error("Failed to copy project into workspace", "root", projectRoot, "error", err)

		return Workspace{}, fmt.Errorf("copy %s into workspace: %w", projectRoot, err)
	}

	if invokedFrom != "" {
		if workDir, err := w.Locate(ctx, ws, invokedFrom); err == nil {
			ws.WorkDir = workDir
		}
	}

	slog.Debug("Workspace prepared", "root", projectRoot, "dir", dir, "work_dir", ws.WorkDir)

	return ws, nil
}

// Locate maps a path inside the project to the same path inside the copy.
func (w *workspaceManager) Locate(ctx context.Context, ws Workspace, original m.Path) (m.Path, error) {
	rel, err := w.fsAdapter.RelPath(ctx, ws.ProjectRoot, original)
	if err != nil {
		return "", fmt.Errorf("locate %s in workspace: %w", original, err)
	}

	if rel == ".." || strings.HasPrefix(string(rel), "../") || strings.HasPrefix(string(rel), `..\`) {
		return "", fmt.Errorf("locate %s in workspace: outside project root %s", original, ws.ProjectRoot)
	}

	return w.fsAdapter.JoinPath(ctx, string(ws.Dir), string(rel)), nil
}

func (w *workspaceManager) Cleanup(ctx context.Context, ws Workspace) {
	if ws.Dir == "" {
		return
	}

	if err := w.fsAdapter.RemoveAll(ctx, ws.Dir); err != nil {
		slog.Warn("Failed to remove workspace", "dir", ws.Dir, "error", err)
	}
}
