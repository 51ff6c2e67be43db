package domain

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/mutest/internal/adapter"
	"gooze.dev/pkg/mutest/internal/domain/mutagens"
	m "gooze.dev/pkg/mutest/internal/model"
)

// ErrSourceNotFound is returned when the scan root does not exist or is not a
// Go source file or directory.
var ErrSourceNotFound = errors.New("source not found")

const (
	sourceExt      = ".go"
	testFileSuffix = "_test.go"
	recursiveMark  = "..."
)

// SourceIndex holds every scanned file with at least one mutation target.
// Files are addressed by the FileID assigned in scan order.
type SourceIndex struct {
	files  []indexedFile
	byPath map[m.Path]m.FileID
}

type indexedFile struct {
	path    m.Path
	tree    *adapter.SourceTree
	targets []m.LocIndex
}

// NewSourceIndex builds an index from already parsed trees. Trees without
// targets are skipped.
func NewSourceIndex(trees []*adapter.SourceTree, targets [][]m.LocIndex) *SourceIndex {
	index := &SourceIndex{byPath: make(map[m.Path]m.FileID)}

	for i, tree := range trees {
		if tree == nil || i >= len(targets) || len(targets[i]) == 0 {
			continue
		}

		index.byPath[tree.Path] = m.FileID(len(index.files))
		index.files = append(index.files, indexedFile{
			path:    tree.Path,
			tree:    tree,
			targets: targets[i],
		})
	}

	return index
}

// Len returns the number of indexed files.
func (s *SourceIndex) Len() int { return len(s.files) }

// IDs returns all file identifiers in scan order.
func (s *SourceIndex) IDs() []m.FileID {
	ids := make([]m.FileID, len(s.files))
	for i := range s.files {
		ids[i] = m.FileID(i)
	}

	return ids
}

// Path returns the absolute path of id, or "" for an unknown id.
func (s *SourceIndex) Path(id m.FileID) m.Path {
	if !s.valid(id) {
		return ""
	}

	return s.files[id].path
}

// Tree returns the parsed tree of id, or nil for an unknown id.
func (s *SourceIndex) Tree(id m.FileID) *adapter.SourceTree {
	if !s.valid(id) {
		return nil
	}

	return s.files[id].tree
}

// Targets returns a copy of the targets of id in source order.
func (s *SourceIndex) Targets(id m.FileID) []m.LocIndex {
	if !s.valid(id) {
		return nil
	}

	targets := make([]m.LocIndex, len(s.files[id].targets))
	copy(targets, s.files[id].targets)

	return targets
}

// Lookup finds the identifier of an absolute path.
func (s *SourceIndex) Lookup(path m.Path) (m.FileID, bool) {
	id, ok := s.byPath[path]
	return id, ok
}

// TargetCount sums the targets of all files.
func (s *SourceIndex) TargetCount() int {
	total := 0
	for _, file := range s.files {
		total += len(file.targets)
	}

	return total
}

func (s *SourceIndex) valid(id m.FileID) bool {
	return id >= 0 && int(id) < len(s.files)
}

// SourceScanner discovers Go source files and their mutation targets.
type SourceScanner interface {
	// EligibleFiles lists the non-test Go files under root in lexical order.
	EligibleFiles(ctx context.Context, root m.Path) ([]m.Path, error)
	// Scan parses every eligible file not in exclude and indexes its targets.
	Scan(ctx context.Context, root m.Path, exclude []m.Path) (*SourceIndex, error)
}

type sourceScanner struct {
	fsAdapter     adapter.SourceFSAdapter
	goFileAdapter adapter.GoFileAdapter
	threads       int
}

// NewSourceScanner constructs a SourceScanner that parses files on up to
// GOMAXPROCS goroutines.
func NewSourceScanner(fsAdapter adapter.SourceFSAdapter, goFileAdapter adapter.GoFileAdapter) SourceScanner {
	return &sourceScanner{
		fsAdapter:     fsAdapter,
		goFileAdapter: goFileAdapter,
		threads:       runtime.GOMAXPROCS(0),
	}
}

func (s *sourceScanner) EligibleFiles(ctx context.Context, root m.Path) ([]m.Path, error) {
	base, _ := TrimRecursive(root)

	info, err := s.fsAdapter.FileInfo(ctx, base)
	if err != nil {
		slog.Error("Source root not found", "root", root, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, root)
	}

	if !info.IsDir() {
		if !isGoSource(string(base)) {
			return nil, fmt.Errorf("%w: %s is not a Go source file", ErrSourceNotFound, root)
		}

		abs, err := s.fsAdapter.Abs(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", base, err)
		}

		return []m.Path{abs}, nil
	}

	seen := make(map[m.Path]struct{})

	var files []m.Path

	err = s.fsAdapter.Walk(ctx, base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != string(base) && skipDir(info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !isGoSource(path) {
			return nil
		}

		abs, err := s.fsAdapter.Abs(ctx, m.Path(path))
		if err != nil {
			return err
		}

		if _, dup := seen[abs]; !dup {
			seen[abs] = struct{}{}
			files = append(files, abs)
		}

		return nil
	})
	if err != nil {
		slog.Error("Failed to walk source root", "root", root, "error", err)
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

func (s *sourceScanner) Scan(ctx context.Context, root m.Path, exclude []m.Path) (*SourceIndex, error) {
	files, err := s.EligibleFiles(ctx, root)
	if err != nil {
		return nil, err
	}

	excluded, err := s.absSet(ctx, exclude)
	if err != nil {
		return nil, err
	}

	var kept []m.Path

	for _, file := range files {
		if _, skip := excluded[file]; skip {
			slog.Info("Exclusion", "file", file)
			continue
		}

		kept = append(kept, file)
	}

	fset := token.NewFileSet()
	trees := make([]*adapter.SourceTree, len(kept))
	targets := make([][]m.LocIndex, len(kept))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.threads)

	for i, file := range kept {
		group.Go(func() error {
			content, err := s.fsAdapter.ReadFile(groupCtx, file)
			if err != nil {
				slog.Error("Failed to read source file", "file", file, "error", err)
				return fmt.Errorf("read %s: %w", file, err)
			}

			tree, err := s.goFileAdapter.Parse(groupCtx, fset, file, content)
			if err != nil {
				if ctxErr := groupCtx.Err(); ctxErr != nil {
					return ctxErr
				}

				slog.Warn("Skipping unparsable file", "file", file, "error", err)

				return nil
			}

			found := mutagens.Targets(tree.FileSet, tree.File)
			slog.Debug("Mutation targets found", "file", file, "count", len(found))

			trees[i] = tree
			targets[i] = found

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	index := NewSourceIndex(trees, targets)
	slog.Info("Scan complete", "files", index.Len(), "targets", index.TargetCount())

	return index, nil
}

func (s *sourceScanner) absSet(ctx context.Context, paths []m.Path) (map[m.Path]struct{}, error) {
	set := make(map[m.Path]struct{}, len(paths))

	for _, path := range paths {
		abs, err := s.fsAdapter.Abs(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("resolve exclusion %s: %w", path, err)
		}

		set[abs] = struct{}{}
	}

	return set, nil
}

// TrimRecursive strips a trailing "/..." from a Go package pattern and
// reports whether it was present.
func TrimRecursive(root m.Path) (m.Path, bool) {
	trimmed, ok := strings.CutSuffix(string(root), recursiveMark)
	if !ok {
		return root, false
	}

	trimmed = strings.TrimSuffix(trimmed, string(filepath.Separator))
	trimmed = strings.TrimSuffix(trimmed, "/")

	if trimmed == "" {
		trimmed = "."
	}

	return m.Path(trimmed), true
}

func isGoSource(path string) bool {
	return filepath.Ext(path) == sourceExt && !strings.HasSuffix(filepath.Base(path), testFileSuffix)
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
