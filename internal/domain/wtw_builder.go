package domain

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

// DefaultWhoTestsWhatFile is where the wtw command writes its mapping.
const DefaultWhoTestsWhatFile = ".mutest-wtw.yaml"

var testNamePattern = regexp.MustCompile(`^Test[\p{L}\p{N}_]*$`)

// ParseTestList extracts top-level test names from `go test -list` output,
// sorted and without duplicates.
func ParseTestList(output string) []string {
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if testNamePattern.MatchString(line) {
			seen[line] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (w *workflow) BuildWhoTestsWhat(ctx context.Context, args WhoTestsWhatArgs) error {
	projectRoot, err := w.projectRoot(ctx, args.SourceRoot)
	if err != nil {
		return err
	}

	modulePath, err := w.fsAdapter.ModulePath(ctx, projectRoot)
	if err != nil {
		return err
	}

	packages := args.Packages
	if len(packages) == 0 {
		packages = []string{"./..."}
	}

	listCmd := append([]string{"go", "test", "-list", "."}, packages...)

	listed, err := w.testAdapter.Run(ctx, string(projectRoot), listCmd, args.Timeout)
	if err != nil {
		return fmt.Errorf("list tests: %w", err)
	}

	if listed.ExitCode != 0 {
		slog.Error("Listing tests failed", "exit_code", listed.ExitCode)
		return fmt.Errorf("list tests exited with %d: %s", listed.ExitCode, listed.Output)
	}

	tests := ParseTestList(listed.Output)
	slog.Info("Tests discovered", "count", len(tests))

	profileDir, err := w.fsAdapter.CreateTempDir(ctx, "mutest-wtw-*")
	if err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	defer func() {
		if err := w.fsAdapter.RemoveAll(ctx, profileDir); err != nil {
			slog.Warn("Failed to remove profile dir", "dir", profileDir, "error", err)
		}
	}()

	resolve := adapter.ModuleResolver(projectRoot, modulePath)
	data := adapter.WhoTestsWhatFile{Tests: tests, Files: map[string]map[int][]string{}}

	for i, test := range tests {
		coverage, err := w.coverageOfTest(ctx, projectRoot, profileDir, i, test, packages, args.Timeout, resolve)
		if err != nil {
			return err
		}

		addTestCoverage(ctx, w.fsAdapter, projectRoot, data.Files, test, coverage)
	}

	output := args.Output
	if output == "" {
		output = DefaultWhoTestsWhatFile
	}

	if err := w.wtwStore.Save(ctx, output, data); err != nil {
		slog.Error("Failed to save who-tests-what mapping", "file", output, "error", err)
		return fmt.Errorf("save who-tests-what %s: %w", output, err)
	}

	w.ui.DisplayWhoTestsWhat(ctx, len(tests), len(data.Files), output)

	return nil
}

func (w *workflow) coverageOfTest(
	ctx context.Context,
	projectRoot, profileDir m.Path,
	i int,
	test string,
	packages []string,
	timeout time.Duration,
	resolve adapter.PathResolver,
) (m.CoverageMapping, error) {
	profile := w.fsAdapter.JoinPath(ctx, string(profileDir), fmt.Sprintf("%d.out", i))

	command := []string{"go", "test", "-count=1", "-run", "^" + regexp.QuoteMeta(test) + "$", "-coverpkg=./...", "-coverprofile=" + string(profile)}
	command = append(command, packages...)

	result, err := w.testAdapter.Run(ctx, string(projectRoot), command, timeout)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", test, err)
	}

	if result.TimedOut || result.ExitCode != 0 {
		slog.Warn("Test failed while mapping coverage, skipping", "test", test, "exit_code", result.ExitCode, "timed_out", result.TimedOut)
		return m.CoverageMapping{}, nil
	}

	coverage, err := w.coverageAdapter.Load(ctx, profile, resolve)
	if err != nil {
		slog.Error("Failed to load test cover profile", "test", test, "error", err)
		return nil, fmt.Errorf("load profile of %s: %w", test, err)
	}

	slog.Debug("Mapped test coverage", "test", test, "lines", coverage.Lines())

	return coverage, nil
}

func addTestCoverage(ctx context.Context, fsAdapter adapter.SourceFSAdapter, projectRoot m.Path, files map[string]map[int][]string, test string, coverage m.CoverageMapping) {
	for path, lines := range coverage {
		rel, err := fsAdapter.RelPath(ctx, projectRoot, path)
		if err != nil {
			continue
		}

		name := filepath.ToSlash(string(rel))

		byLine, ok := files[name]
		if !ok {
			byLine = make(map[int][]string)
			files[name] = byLine
		}

		for line := range lines {
			byLine[line] = append(byLine[line], test)
		}
	}
}
