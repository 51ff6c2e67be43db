package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/cover"

	m "gooze.dev/pkg/mutest/internal/model"
)

// DefaultCoverageFile is the cover profile looked up in the working directory
// when no other coverage source is configured.
const DefaultCoverageFile = "coverage.out"

// PathResolver maps a file name as written in a cover profile (an import
// path plus base name) to an absolute path on disk.
type PathResolver func(profileFile string) (m.Path, bool)

// ModuleResolver resolves profile names of files inside the module rooted at
// root with the given module path. Absolute names are returned unchanged.
func ModuleResolver(root m.Path, modulePath string) PathResolver {
	prefix := strings.TrimSuffix(modulePath, "/") + "/"

	return func(profileFile string) (m.Path, bool) {
		if filepath.IsAbs(profileFile) {
			return m.Path(filepath.Clean(profileFile)), true
		}

		rest, ok := strings.CutPrefix(profileFile, prefix)
		if !ok {
			return "", false
		}

		return m.Path(filepath.Join(string(root), filepath.FromSlash(rest))), true
	}
}

// CoverageAdapter loads line coverage from Go cover profiles.
type CoverageAdapter interface {
	Load(ctx context.Context, profile m.Path, resolve PathResolver) (m.CoverageMapping, error)
}

// LocalCoverageAdapter parses profiles with golang.org/x/tools/cover.
type LocalCoverageAdapter struct{}

// NewLocalCoverageAdapter constructs a LocalCoverageAdapter.
func NewLocalCoverageAdapter() *LocalCoverageAdapter {
	return &LocalCoverageAdapter{}
}

// Load returns every line that belongs to a block executed at least once.
func (a *LocalCoverageAdapter) Load(ctx context.Context, profile m.Path, resolve PathResolver) (m.CoverageMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profiles, err := cover.ParseProfiles(string(profile))
	if err != nil {
		return nil, fmt.Errorf("parse cover profile %s: %w", profile, err)
	}

	return CoverageFromProfiles(profiles, resolve), nil
}

// CoverageFromProfiles converts parsed profiles into a coverage mapping.
func CoverageFromProfiles(profiles []*cover.Profile, resolve PathResolver) m.CoverageMapping {
	mapping := m.CoverageMapping{}

	for _, p := range profiles {
		path, ok := resolve(p.FileName)
		if !ok {
			slog.Debug("Skipping cover profile entry outside module", "file", p.FileName)
			continue
		}

		for _, block := range p.Blocks {
			if block.Count == 0 {
				continue
			}

			for line := block.StartLine; line <= block.EndLine; line++ {
				mapping.Add(path, line)
			}
		}
	}

	return mapping
}
