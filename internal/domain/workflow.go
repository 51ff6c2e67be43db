package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"gooze.dev/pkg/mutest/internal/adapter"
	"gooze.dev/pkg/mutest/internal/controller"
	"gooze.dev/pkg/mutest/internal/domain/mutagens"
	m "gooze.dev/pkg/mutest/internal/model"
)

// RunArgs configures one mutation run.
type RunArgs struct {
	SourceRoot       m.Path
	TestCommand      []string
	Exclude          []m.Path
	Locations        *int
	Seed             uint64
	Break            BreakPolicy
	IgnoreCoverage   bool
	CoverageFile     m.Path
	WhoTestsWhatFile m.Path
	MutationTimeout  time.Duration
	CleanCache       bool
	Reports          m.Path
}

// ListArgs configures the list command.
type ListArgs struct {
	SourceRoot       m.Path
	Exclude          []m.Path
	IgnoreCoverage   bool
	CoverageFile     m.Path
	WhoTestsWhatFile m.Path
}

// ViewArgs configures the view command.
type ViewArgs struct {
	Reports m.Path
}

// WhoTestsWhatArgs configures building a who-tests-what mapping.
type WhoTestsWhatArgs struct {
	SourceRoot m.Path
	Packages   []string
	Output     m.Path
	Timeout    time.Duration
}

// Workflow wires scanning, sampling, and trials behind the CLI commands.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) (m.ResultsSummary, error)
	List(ctx context.Context, args ListArgs) error
	View(ctx context.Context, args ViewArgs) error
	BuildWhoTestsWhat(ctx context.Context, args WhoTestsWhatArgs) error
}

type workflow struct {
	fsAdapter       adapter.SourceFSAdapter
	testAdapter     adapter.TestRunnerAdapter
	reportStore     adapter.ReportStore
	wtwStore        adapter.WhoTestsWhatStore
	coverageAdapter adapter.CoverageAdapter
	ui              controller.UI
	scanner         SourceScanner
	restrictor      CoverageRestrictor
	workspaces      WorkspaceManager
	now             func() time.Time
}

// NewWorkflow wires a Workflow from its adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	goFileAdapter adapter.GoFileAdapter,
	testAdapter adapter.TestRunnerAdapter,
	coverageAdapter adapter.CoverageAdapter,
	reportStore adapter.ReportStore,
	wtwStore adapter.WhoTestsWhatStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		fsAdapter:       fsAdapter,
		testAdapter:     testAdapter,
		reportStore:     reportStore,
		wtwStore:        wtwStore,
		coverageAdapter: coverageAdapter,
		ui:              ui,
		scanner:         NewSourceScanner(fsAdapter, goFileAdapter),
		restrictor:      NewCoverageRestrictor(fsAdapter, coverageAdapter),
		workspaces:      NewWorkspaceManager(fsAdapter),
		now:             time.Now,
	}
}

func (w *workflow) Run(ctx context.Context, args RunArgs) (m.ResultsSummary, error) {
	if args.Locations != nil && *args.Locations < 0 {
		return m.ResultsSummary{}, fmt.Errorf("%w: %d", ErrInvalidSampleSize, *args.Locations)
	}

	command := args.TestCommand
	if len(command) == 0 {
		command = DefaultTestCommand
	}

	projectRoot, err := w.projectRoot(ctx, args.SourceRoot)
	if err != nil {
		return m.ResultsSummary{}, err
	}

	if err := w.ui.Start(ctx, controller.WithRunMode()); err != nil {
		return m.ResultsSummary{}, err
	}
	defer w.ui.Close(ctx)

	invokedFrom, err := w.fsAdapter.Abs(ctx, ".")
	if err != nil {
		return m.ResultsSummary{}, err
	}

	ws, err := w.workspaces.Prepare(ctx, projectRoot, invokedFrom)
	if err != nil {
		return m.ResultsSummary{}, err
	}
	defer w.workspaces.Cleanup(ctx, ws)

	var cleaner adapter.CacheCleaner
	if args.CleanCache {
		cleaner = adapter.NewGoCacheCleaner(w.testAdapter)
	}

	baseline, err := NewBaselineVerifier(cleaner, w.testAdapter, 0).Verify(ctx, projectRoot, ws.WorkDir, command)
	if err != nil {
		return m.ResultsSummary{}, err
	}

	w.ui.DisplayBaseline(ctx, baseline)

	start := w.now()

	wtw, err := w.loadWhoTestsWhat(ctx, args.WhoTestsWhatFile, projectRoot)
	if err != nil {
		return m.ResultsSummary{}, err
	}

	index, space, err := w.sampleSpace(ctx, args.SourceRoot, args.Exclude, RestrictArgs{
		IgnoreCoverage: args.IgnoreCoverage,
		Coverage:       coverageOf(wtw),
		CoverageFile:   args.CoverageFile,
		ProjectRoot:    projectRoot,
	})
	if err != nil {
		return m.ResultsSummary{}, err
	}

	rng := NewRand(args.Seed)

	sample, err := NewSampler(rng).Sample(space, args.Locations)
	if err != nil {
		return m.ResultsSummary{}, err
	}

	slog.Info("Selected mutation sample", "identified", len(space), "sampled", len(sample), "seed", args.Seed)
	w.ui.DisplaySampleInfo(ctx, len(space), len(sample), args.Seed)

	maker := NewMaker(w.fsAdapter, w.testAdapter, w.workspaces, ws, args.MutationTimeout)
	trials := NewTrialController(maker, mutagens.Operators, rng, w.ui)

	summary, err := trials.Run(ctx, TrialArgs{
		Index:          index,
		Sample:         sample,
		LocsIdentified: len(space),
		TestCommand:    command,
		WhoTestsWhat:   wtw,
		Break:          args.Break,
		Start:          start,
	})
	if err != nil {
		return m.ResultsSummary{}, err
	}

	score := MutationScore(summary)

	report := BuildReport(summary, ReportMeta{
		RunID:       uuid.NewString(),
		CreatedAt:   w.now(),
		Seed:        args.Seed,
		SourceRoot:  args.SourceRoot,
		TestCommand: command,
	})

	reportPath, err := w.reportStore.SaveReport(ctx, args.Reports, report)
	if err != nil {
		slog.Error("Failed to save report", "dir", args.Reports, "error", err)
		return summary, fmt.Errorf("save report: %w", err)
	}

	w.ui.DisplaySummary(ctx, summary, score, reportPath)

	return summary, nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	projectRoot, err := w.projectRoot(ctx, args.SourceRoot)
	if err != nil {
		return err
	}

	if err := w.ui.Start(ctx, controller.WithEstimateMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	wtw, err := w.loadWhoTestsWhat(ctx, args.WhoTestsWhatFile, projectRoot)
	if err != nil {
		return err
	}

	index, space, err := w.sampleSpace(ctx, args.SourceRoot, args.Exclude, RestrictArgs{
		IgnoreCoverage: args.IgnoreCoverage,
		Coverage:       coverageOf(wtw),
		CoverageFile:   args.CoverageFile,
		ProjectRoot:    projectRoot,
	})
	if err != nil {
		return err
	}

	rows := estimationRows(ctx, w.fsAdapter, projectRoot, index, space)

	if err := w.ui.DisplayEstimation(ctx, rows, len(space)); err != nil {
		return err
	}

	w.ui.Wait(ctx)

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.reportStore.LoadReport(ctx, args.Reports)
	if err != nil {
		slog.Error("Failed to load report", "dir", args.Reports, "error", err)
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.ui.Start(ctx, controller.WithEstimateMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	if err := w.ui.DisplayReport(ctx, report); err != nil {
		return err
	}

	w.ui.Wait(ctx)

	return nil
}

func (w *workflow) projectRoot(ctx context.Context, sourceRoot m.Path) (m.Path, error) {
	base, _ := TrimRecursive(sourceRoot)

	if _, err := w.fsAdapter.FileInfo(ctx, base); err != nil {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, sourceRoot)
	}

	root, err := w.fsAdapter.FindProjectRoot(ctx, base)
	if err != nil {
		slog.Error("Failed to locate project root", "source", sourceRoot, "error", err)
		return "", err
	}

	return root, nil
}

func (w *workflow) loadWhoTestsWhat(ctx context.Context, path m.Path, projectRoot m.Path) (adapter.WhoTestsWhat, error) {
	if path == "" {
		return nil, nil
	}

	wtw, err := w.wtwStore.Load(ctx, path, projectRoot)
	if err != nil {
		slog.Error("Failed to load who-tests-what mapping", "file", path, "error", err)
		return nil, fmt.Errorf("load who-tests-what %s: %w", path, err)
	}

	return wtw, nil
}

func (w *workflow) sampleSpace(ctx context.Context, root m.Path, exclude []m.Path, restrict RestrictArgs) (*SourceIndex, m.SampleSpace, error) {
	index, err := w.scanner.Scan(ctx, root, exclude)
	if err != nil {
		return nil, nil, err
	}

	space := Flatten(index)
	slog.Info("Identified mutation locations", "files", index.Len(), "locations", len(space))

	space, err = w.restrictor.Restrict(ctx, space, restrict)
	if err != nil {
		return nil, nil, err
	}

	return index, space, nil
}

func coverageOf(wtw adapter.WhoTestsWhat) m.CoverageMapping {
	if wtw == nil {
		return nil
	}

	return wtw.CoverageMapping()
}

func estimationRows(ctx context.Context, fsAdapter adapter.SourceFSAdapter, projectRoot m.Path, index *SourceIndex, space m.SampleSpace) []controller.EstimationRow {
	eligible := make(map[m.FileID]int)
	for _, pair := range space {
		eligible[pair.File]++
	}

	rows := make([]controller.EstimationRow, 0, index.Len())

	for _, id := range index.IDs() {
		path := index.Path(id)
		if rel, err := fsAdapter.RelPath(ctx, projectRoot, path); err == nil {
			path = rel
		}

		rows = append(rows, controller.EstimationRow{
			Path:      path,
			Locations: len(index.Targets(id)),
			Eligible:  eligible[id],
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })

	return rows
}

// IsBaselineFailure reports whether err comes from a failing clean trial.
func IsBaselineFailure(err error) bool {
	var baselineErr *BaselineTestError
	return errors.As(err, &baselineErr)
}
