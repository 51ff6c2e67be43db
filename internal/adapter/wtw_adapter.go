package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/mutest/internal/model"
)

const wtwFormatVersion = 1

// Deselection is the outcome of asking who-tests-what about one source line.
type Deselection struct {
	// Args are appended to the test command to skip the deselected tests.
	Args []string
	// Kept are the tests known to execute the line.
	Kept []string
	// Deselected are the remaining tests.
	Deselected []string
}

// WhoTestsWhat maps source lines to the tests that execute them.
type WhoTestsWhat interface {
	// Deselect computes the tests to skip for a line of path.
	Deselect(path m.Path, line int) Deselection
	// CoverageMapping returns every line executed by at least one test.
	CoverageMapping() m.CoverageMapping
}

// WhoTestsWhatFile is the on-disk YAML layout. Paths are relative to the
// project root.
type WhoTestsWhatFile struct {
	Version int                         `yaml:"version"`
	Tests   []string                    `yaml:"tests"`
	Files   map[string]map[int][]string `yaml:"files"`
}

// WhoTestsWhatStore reads and writes who-tests-what mappings.
type WhoTestsWhatStore interface {
	Load(ctx context.Context, path m.Path, root m.Path) (WhoTestsWhat, error)
	Save(ctx context.Context, path m.Path, data WhoTestsWhatFile) error
}

// LocalWhoTestsWhatStore keeps mappings as YAML files.
type LocalWhoTestsWhatStore struct{}

// NewLocalWhoTestsWhatStore constructs a LocalWhoTestsWhatStore.
func NewLocalWhoTestsWhatStore() *LocalWhoTestsWhatStore {
	return &LocalWhoTestsWhatStore{}
}

// Load reads the mapping at path and resolves its file names against root.
func (s *LocalWhoTestsWhatStore) Load(ctx context.Context, path m.Path, root m.Path) (WhoTestsWhat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - mapping file chosen by the user
	content, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read who-tests-what %s: %w", path, err)
	}

	var data WhoTestsWhatFile
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decode who-tests-what %s: %w", path, err)
	}

	if data.Version != wtwFormatVersion {
		return nil, fmt.Errorf("who-tests-what %s: unsupported version %d", path, data.Version)
	}

	return NewWhoTestsWhat(root, data), nil
}

// Save writes data to path as YAML.
func (s *LocalWhoTestsWhatStore) Save(ctx context.Context, path m.Path, data WhoTestsWhatFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data.Version = wtwFormatVersion

	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode who-tests-what: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, 0o600)
}

type whoTestsWhat struct {
	tests []string
	lines map[m.Path]map[int][]string
}

// NewWhoTestsWhat builds an in-memory mapping from file data.
func NewWhoTestsWhat(root m.Path, data WhoTestsWhatFile) WhoTestsWhat {
	lines := make(map[m.Path]map[int][]string, len(data.Files))

	for file, byLine := range data.Files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(string(root), filepath.FromSlash(file))
		}

		lines[m.Path(filepath.Clean(path))] = byLine
	}

	tests := append([]string(nil), data.Tests...)
	sort.Strings(tests)

	return &whoTestsWhat{tests: tests, lines: lines}
}

func (w *whoTestsWhat) Deselect(path m.Path, line int) Deselection {
	keep := make(map[string]struct{})
	for _, name := range w.lines[path][line] {
		keep[name] = struct{}{}
	}

	var result Deselection

	for _, name := range w.tests {
		if _, ok := keep[name]; ok {
			result.Kept = append(result.Kept, name)
		} else {
			result.Deselected = append(result.Deselected, name)
		}
	}

	if len(result.Kept) > 0 && len(result.Deselected) > 0 {
		result.Args = []string{"-skip", skipPattern(result.Deselected)}
	}

	return result
}

func (w *whoTestsWhat) CoverageMapping() m.CoverageMapping {
	mapping := m.CoverageMapping{}

	for path, byLine := range w.lines {
		for line, tests := range byLine {
			if len(tests) > 0 {
				mapping.Add(path, line)
			}
		}
	}

	return mapping
}

func skipPattern(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}

	return "^(" + strings.Join(quoted, "|") + ")$"
}
