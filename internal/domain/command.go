package domain

import (
	"log/slog"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

// DefaultTestCommand runs every test of the module in the working directory.
var DefaultTestCommand = []string{"go", "test", "./..."}

// BuildTrialCommand returns the command for a trial at loc of path. The result
// is always a fresh slice. When wtw keeps at least one test for the line, its
// deselection arguments are appended.
func BuildTrialCommand(base []string, path m.Path, loc m.LocIndex, wtw adapter.WhoTestsWhat) []string {
	command := make([]string, len(base), len(base)+2)
	copy(command, base)

	if wtw == nil {
		return command
	}

	deselection := wtw.Deselect(path, loc.Line)
	kept := len(deselection.Kept)
	total := kept + len(deselection.Deselected)

	if kept == 0 {
		slog.Info("Who-tests-what kept no tests, running the full command", "path", path, "line", loc.Line)
		return command
	}

	slog.Info("Who-tests-what deselection", "path", path, "line", loc.Line, "keeping", kept, "total", total)

	return append(command, deselection.Args...)
}
