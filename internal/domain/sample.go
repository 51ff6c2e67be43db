package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"gooze.dev/pkg/mutest/internal/adapter"
	m "gooze.dev/pkg/mutest/internal/model"
)

// ErrInvalidSampleSize is returned for a negative number of locations.
var ErrInvalidSampleSize = errors.New("sample size must be greater or equal to zero")

// Flatten turns an index into its sample space: one pair per target, files in
// scan order and targets in source order.
func Flatten(index *SourceIndex) m.SampleSpace {
	space := make(m.SampleSpace, 0, index.TargetCount())

	for _, id := range index.IDs() {
		path := index.Path(id)
		for _, loc := range index.Targets(id) {
			space = append(space, m.SamplePair{File: id, Path: path, Loc: loc})
		}
	}

	return space
}

// CoveredSampleSpace keeps the pairs whose line is covered, in order.
func CoveredSampleSpace(space m.SampleSpace, coverage m.CoverageMapping) m.SampleSpace {
	var covered m.SampleSpace

	for _, pair := range space {
		if coverage.Covers(pair.Path, pair.Loc.Line) {
			covered = append(covered, pair)
		}
	}

	return covered
}

// RestrictArgs selects the coverage source for Restrict.
type RestrictArgs struct {
	// IgnoreCoverage disables restriction entirely.
	IgnoreCoverage bool
	// Coverage is an explicit mapping, typically from who-tests-what.
	Coverage m.CoverageMapping
	// CoverageFile is the cover profile to look for; defaults to
	// adapter.DefaultCoverageFile.
	CoverageFile m.Path
	// ProjectRoot is the directory holding go.mod, used to resolve profile
	// import paths.
	ProjectRoot m.Path
}

// CoverageRestrictor narrows a sample space to covered lines.
type CoverageRestrictor interface {
	Restrict(ctx context.Context, space m.SampleSpace, args RestrictArgs) (m.SampleSpace, error)
}

type coverageRestrictor struct {
	fsAdapter       adapter.SourceFSAdapter
	coverageAdapter adapter.CoverageAdapter
}

// NewCoverageRestrictor constructs a CoverageRestrictor.
func NewCoverageRestrictor(fsAdapter adapter.SourceFSAdapter, coverageAdapter adapter.CoverageAdapter) CoverageRestrictor {
	return &coverageRestrictor{
		fsAdapter:       fsAdapter,
		coverageAdapter: coverageAdapter,
	}
}

func (r *coverageRestrictor) Restrict(ctx context.Context, space m.SampleSpace, args RestrictArgs) (m.SampleSpace, error) {
	if args.IgnoreCoverage {
		slog.Info("Ignoring coverage file for sample restriction")
		return space, nil
	}

	var restricted m.SampleSpace

	if args.Coverage != nil {
		slog.Info("Restricting sample based on existing coverage mapping", "lines", args.Coverage.Lines())
		restricted = CoveredSampleSpace(space, args.Coverage)
	} else {
		coverage, found, err := r.loadProfile(ctx, args)
		if err != nil {
			return nil, err
		}

		if !found {
			slog.Debug("No coverage profile found, using full sample space")
			return space, nil
		}

		restricted = CoveredSampleSpace(space, coverage)
	}

	if len(restricted) == 0 {
		if len(space) > 0 {
			slog.Warn("Coverage restriction matched no locations, using full sample space", "locations", len(space))
		}

		return space, nil
	}

	slog.Info("Coverage optimized sample", "before", len(space), "after", len(restricted))

	return restricted, nil
}

func (r *coverageRestrictor) loadProfile(ctx context.Context, args RestrictArgs) (m.CoverageMapping, bool, error) {
	file := args.CoverageFile
	if file == "" {
		file = adapter.DefaultCoverageFile
	}

	if _, err := r.fsAdapter.FileInfo(ctx, file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}

		slog.Error("Failed to stat coverage profile", "file", file, "error", err)

		return nil, false, fmt.Errorf("stat coverage profile %s: %w", file, err)
	}

	modulePath, err := r.fsAdapter.ModulePath(ctx, args.ProjectRoot)
	if err != nil {
		return nil, false, fmt.Errorf("coverage profile %s: %w", file, err)
	}

	slog.Info("Restricting sample based on coverage profile", "file", file)

	coverage, err := r.coverageAdapter.Load(ctx, file, adapter.ModuleResolver(args.ProjectRoot, modulePath))
	if err != nil {
		slog.Error("Failed to load coverage profile", "file", file, "error", err)
		return nil, false, fmt.Errorf("load coverage profile %s: %w", file, err)
	}

	return coverage, true, nil
}

// Sampler draws locations uniformly without replacement.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler constructs a Sampler drawing from rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// NewRand returns the generator used for one run, fully determined by seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample returns n distinct pairs of space. A nil n selects the whole space,
// as does an n larger than the space.
func (s *Sampler) Sample(space m.SampleSpace, n *int) (m.SampleSpace, error) {
	if n == nil {
		return space, nil
	}

	if *n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleSize, *n)
	}

	if *n > len(space) {
		slog.Info("Requested locations exceed the sample space, using all", "requested", *n, "available", len(space))
		return space, nil
	}

	picked := make(m.SampleSpace, len(space))
	copy(picked, space)

	for i := 0; i < *n; i++ {
		j := i + s.rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}

	return picked[:*n], nil
}
