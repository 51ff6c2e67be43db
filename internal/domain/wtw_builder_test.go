package domain_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutest/internal/adapter"
	adaptermocks "gooze.dev/pkg/mutest/internal/adapter/mocks"
	"gooze.dev/pkg/mutest/internal/controller"
	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

func TestParseTestList(t *testing.T) {
	output := strings.Join([]string{
		"TestPositive",
		"TestAdd",
		"BenchmarkAdd",
		"ExampleAdd",
		"  TestAdd  ",
		"Test",
		"ok  \texample.com/calc\t0.003s",
		"TestÜnicode_2",
	}, "\n")

	assert.Equal(t, []string{"Test", "TestAdd", "TestPositive", "TestÜnicode_2"}, domain.ParseTestList(output))
	assert.Empty(t, domain.ParseTestList(""))
}

func coverProfileArg(command []string) string {
	for _, arg := range command {
		if value, ok := strings.CutPrefix(arg, "-coverprofile="); ok {
			return value
		}
	}

	return ""
}

func runArg(command []string) string {
	for i, arg := range command {
		if arg == "-run" && i+1 < len(command) {
			return command[i+1]
		}
	}

	return ""
}

func newWorkflowUnderTest(runner adapter.TestRunnerAdapter, out *strings.Builder) domain.Workflow {
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	return domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalGoFileAdapter(),
		runner,
		adapter.NewLocalCoverageAdapter(),
		adapter.NewReportStore(),
		adapter.NewLocalWhoTestsWhatStore(),
		controller.NewSimpleUI(cmd),
	)
}

func TestWorkflow_BuildWhoTestsWhat(t *testing.T) {
	root, calc := newCalcProject(t)
	output := m.Path(filepath.Join(string(root), ".mutest-wtw.yaml"))

	runner := adaptermocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().
		Run(mock.Anything, string(root), []string{"go", "test", "-list", ".", "./..."}, time.Minute).
		Return(adapter.RunResult{Output: "TestPositive\nTestAdd\nTestBroken\nok  \texample.com/calc\t0.01s\n"}, nil).
		Once()
	runner.EXPECT().
		Run(mock.Anything, string(root), mock.MatchedBy(func(command []string) bool {
			return coverProfileArg(command) != ""
		}), time.Minute).
		RunAndReturn(func(_ context.Context, _ string, command []string, _ time.Duration) (adapter.RunResult, error) {
			var block string

			switch runArg(command) {
			case "^TestAdd$":
				block = calcModule + "/calc.go:3.24,5.2 1 1\n" + calcModule + "/calc.go:7.27,9.2 1 0\n"
			case "^TestPositive$":
				block = calcModule + "/calc.go:3.24,5.2 1 0\n" + calcModule + "/calc.go:7.27,9.2 1 1\n"
			default:
				return adapter.RunResult{ExitCode: 1, Output: "--- FAIL: TestBroken"}, nil
			}

			writeFile(t, coverProfileArg(command), "mode: set\n"+block)

			return adapter.RunResult{}, nil
		}).
		Times(3)

	var out strings.Builder

	err := newWorkflowUnderTest(runner, &out).BuildWhoTestsWhat(context.Background(), domain.WhoTestsWhatArgs{
		SourceRoot: root,
		Output:     output,
		Timeout:    time.Minute,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Mapped 3 test(s) over 1 file(s)")

	wtw, err := adapter.NewLocalWhoTestsWhatStore().Load(context.Background(), output, root)
	require.NoError(t, err)

	add := wtw.Deselect(calc, 4)
	assert.Equal(t, []string{"TestAdd"}, add.Kept)
	assert.Equal(t, []string{"TestBroken", "TestPositive"}, add.Deselected)

	positive := wtw.Deselect(calc, 8)
	assert.Equal(t, []string{"TestPositive"}, positive.Kept)

	assert.True(t, wtw.CoverageMapping().Covers(calc, 4))
	assert.False(t, wtw.CoverageMapping().Covers(calc, 1))
}

func TestWorkflow_BuildWhoTestsWhat_ListFails(t *testing.T) {
	root, _ := newCalcProject(t)

	runner := adaptermocks.NewMockTestRunnerAdapter(t)
	runner.EXPECT().
		Run(mock.Anything, string(root), mock.Anything, mock.Anything).
		Return(adapter.RunResult{ExitCode: 1, Output: "[setup failed]"}, nil).
		Once()

	var out strings.Builder

	err := newWorkflowUnderTest(runner, &out).BuildWhoTestsWhat(context.Background(), domain.WhoTestsWhatArgs{
		SourceRoot: root,
		Output:     m.Path(filepath.Join(string(root), "wtw.yaml")),
	})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(string(root), "wtw.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}
