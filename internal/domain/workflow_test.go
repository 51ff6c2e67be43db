package domain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutest/internal/adapter"
	adaptermocks "gooze.dev/pkg/mutest/internal/adapter/mocks"
	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

// calcRunner fails the tests whenever Add no longer adds, and passes
// otherwise, so mutants of ">" survive.
func calcRunner(t *testing.T) *adaptermocks.MockTestRunnerAdapter {
	t.Helper()

	runner := adaptermocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().
		Run(mock.Anything, mock.Anything, domain.DefaultTestCommand, mock.Anything).
		RunAndReturn(func(_ context.Context, workDir string, _ []string, _ time.Duration) (adapter.RunResult, error) {
			content, err := os.ReadFile(filepath.Join(workDir, "calc.go"))
			if err != nil {
				return adapter.RunResult{}, err
			}

			if !strings.Contains(string(content), "return a + b") {
				return adapter.RunResult{ExitCode: 1, Output: "--- FAIL: TestAdd"}, nil
			}

			return adapter.RunResult{Output: "ok"}, nil
		})

	return runner
}

func runArgs(root m.Path) domain.RunArgs {
	return domain.RunArgs{
		SourceRoot:   root,
		TestCommand:  domain.DefaultTestCommand,
		Seed:         1,
		Break:        domain.DefaultBreakPolicy(),
		CoverageFile: m.Path(filepath.Join(string(root), "coverage.out")),
		Reports:      m.Path(filepath.Join(string(root), ".mutest-reports")),
	}
}

func TestWorkflow_Run(t *testing.T) {
	root, calc := newCalcProject(t)

	var out strings.Builder

	summary, err := newWorkflowUnderTest(calcRunner(t), &out).Run(context.Background(), runArgs(root))
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Len())
	assert.Equal(t, 2, summary.LocsMutated())
	assert.Equal(t, 2, summary.LocsIdentified())
	assert.Equal(t, map[m.Status]int{m.Detected: 4, m.Survived: 1}, summary.CountByStatus())

	// the project itself is never mutated
	assert.Equal(t, calcSource, readString(t, calc))

	report, err := adapter.NewReportStore().LoadReport(context.Background(), runArgs(root).Reports)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), report.Seed)
	assert.NotEmpty(t, report.RunID)
	assert.InDelta(t, 0.8, report.Score, 1e-9)
	assert.Len(t, report.Trials, 5)

	assert.Contains(t, out.String(), "Clean trial passed in")
	assert.Contains(t, out.String(), "Mutating 2 of 2 identified location(s) (seed 1)")
	assert.Contains(t, out.String(), "Mutation score: 80.00%")
	assert.Contains(t, out.String(), "Report written to")
}

func TestWorkflow_Run_Sampled(t *testing.T) {
	root, _ := newCalcProject(t)

	args := runArgs(root)
	args.Locations = intPtr(1)
	args.Break = domain.BreakPolicy{}

	var out strings.Builder

	summary, err := newWorkflowUnderTest(calcRunner(t), &out).Run(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.LocsMutated())
	assert.Equal(t, 2, summary.LocsIdentified())

	// every operator of the one sampled location runs
	records := summary.Results()
	require.NotEmpty(t, records)
	for _, record := range records {
		assert.Equal(t, records[0].Loc, record.Loc)
	}
	assert.Contains(t, []int{4, 5}, len(records))
}

func TestWorkflow_Run_BaselineFailure(t *testing.T) {
	root, _ := newCalcProject(t)

	runner := adaptermocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().
		Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(adapter.RunResult{ExitCode: 1, Output: "--- FAIL: TestAdd"}, nil).
		Once()

	var out strings.Builder

	_, err := newWorkflowUnderTest(runner, &out).Run(context.Background(), runArgs(root))
	require.Error(t, err)
	assert.True(t, domain.IsBaselineFailure(err))

	_, statErr := os.Stat(filepath.Join(string(root), ".mutest-reports"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWorkflow_Run_InvalidArgs(t *testing.T) {
	root, _ := newCalcProject(t)
	runner := adaptermocks.NewMockTestRunnerAdapter(t)

	var out strings.Builder

	args := runArgs(root)
	args.Locations = intPtr(-2)

	_, err := newWorkflowUnderTest(runner, &out).Run(context.Background(), args)
	assert.True(t, errors.Is(err, domain.ErrInvalidSampleSize))

	args = runArgs(m.Path(filepath.Join(string(root), "missing")))

	_, err = newWorkflowUnderTest(runner, &out).Run(context.Background(), args)
	assert.True(t, errors.Is(err, domain.ErrSourceNotFound))
}

func TestWorkflow_Run_WhoTestsWhat(t *testing.T) {
	root, _ := newCalcProject(t)

	wtwFile := filepath.Join(string(root), ".mutest-wtw.yaml")
	require.NoError(t, adapter.NewLocalWhoTestsWhatStore().Save(context.Background(), m.Path(wtwFile), adapter.WhoTestsWhatFile{
		Tests: []string{"TestAdd", "TestPositive"},
		Files: map[string]map[int][]string{"calc.go": {8: {"TestPositive"}}},
	}))

	runner := adaptermocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().
		Run(mock.Anything, mock.Anything, domain.DefaultTestCommand, mock.Anything).
		Return(adapter.RunResult{}, nil).
		Once()
	runner.EXPECT().
		Run(mock.Anything, mock.Anything, []string{"go", "test", "./...", "-skip", "^(TestAdd)$"}, mock.Anything).
		Return(adapter.RunResult{ExitCode: 1}, nil)

	args := runArgs(root)
	args.WhoTestsWhatFile = m.Path(wtwFile)

	var out strings.Builder

	summary, err := newWorkflowUnderTest(runner, &out).Run(context.Background(), args)
	require.NoError(t, err)

	// only the covered comparison on line 8 is eligible
	assert.Equal(t, 1, summary.LocsIdentified())
	assert.Equal(t, 5, summary.Len())
	for _, record := range summary.Results() {
		assert.Equal(t, 8, record.Loc.Line)
		assert.Equal(t, m.Detected, record.Status)
	}
}

func TestWorkflow_List(t *testing.T) {
	root, _ := newCalcProject(t)
	writeFile(t, filepath.Join(string(root), "coverage.out"), "mode: set\n"+calcModule+"/calc.go:3.24,5.2 1 1\n")

	runner := adaptermocks.NewMockTestRunnerAdapter(t)

	var out strings.Builder

	err := newWorkflowUnderTest(runner, &out).List(context.Background(), domain.ListArgs{
		SourceRoot:   root,
		CoverageFile: m.Path(filepath.Join(string(root), "coverage.out")),
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "calc.go")
	assert.Contains(t, strings.ToUpper(out.String()), "TOTAL FILES 1")
	assert.NotContains(t, out.String(), "name.go")
}

func TestWorkflow_View(t *testing.T) {
	dir := m.Path(t.TempDir())

	_, err := adapter.NewReportStore().SaveReport(context.Background(), dir, domain.BuildReport(summaryOf(m.Survived, m.Detected), domain.ReportMeta{
		RunID:     "run-42",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Seed:      9,
	}))
	require.NoError(t, err)

	runner := adaptermocks.NewMockTestRunnerAdapter(t)

	var out strings.Builder

	require.NoError(t, newWorkflowUnderTest(runner, &out).View(context.Background(), domain.ViewArgs{Reports: dir}))
	assert.Contains(t, out.String(), "Run run-42")
	assert.Contains(t, out.String(), "seed 9")
	assert.Contains(t, out.String(), "Mutation score: 50.00%")

	err = newWorkflowUnderTest(runner, &out).View(context.Background(), domain.ViewArgs{Reports: m.Path(t.TempDir())})
	assert.Error(t, err)
}
