package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutest/internal/domain"
	domainmocks "gooze.dev/pkg/mutest/internal/domain/mocks"
	m "gooze.dev/pkg/mutest/internal/model"
)

func newTestRunCmd(t *testing.T) (*cobra.Command, *domainmocks.MockWorkflow) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newRunCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return cmd, mockWorkflow
}

func TestRunCmd_Defaults(t *testing.T) {
	cmd, mockWorkflow := newTestRunCmd(t)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.SourceRoot == m.Path("./...") &&
			assert.ObjectsAreEqual([]string{"go", "test", "./..."}, args.TestCommand) &&
			args.Locations == nil &&
			args.Break == domain.BreakPolicy{OnSurvival: true} &&
			!args.IgnoreCoverage &&
			args.CoverageFile == m.Path("coverage.out") &&
			args.WhoTestsWhatFile == "" &&
			args.MutationTimeout == 2*time.Minute &&
			args.CleanCache &&
			args.Reports == m.Path(".mutest-reports")
	})).Return(m.ResultsSummary{}, nil)

	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_SamplingFlags(t *testing.T) {
	cmd, mockWorkflow := newTestRunCmd(t)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.SourceRoot == m.Path("./pkg/...") &&
			args.Locations != nil && *args.Locations == 5 &&
			args.Seed == 42
	})).Return(m.ResultsSummary{}, nil)

	cmd.SetArgs([]string{"run", "-n", "5", "--seed", "42", "./pkg/..."})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_ZeroLocationsIsKept(t *testing.T) {
	cmd, mockWorkflow := newTestRunCmd(t)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Locations != nil && *args.Locations == 0
	})).Return(m.ResultsSummary{}, nil)

	cmd.SetArgs([]string{"run", "--nlocations", "0"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_BreakFlags(t *testing.T) {
	cmd, mockWorkflow := newTestRunCmd(t)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Break == domain.BreakPolicy{OnDetected: true, OnError: true, OnUnknown: true}
	})).Return(m.ResultsSummary{}, nil)

	cmd.SetArgs([]string{
		"run",
		"--break-on-survival=false",
		"--break-on-detected",
		"--break-on-error",
		"--break-on-unknown",
	})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_CommandAndCoverageFlags(t *testing.T) {
	cmd, mockWorkflow := newTestRunCmd(t)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return assert.ObjectsAreEqual([]string{"go", "test", "-race", "./internal/..."}, args.TestCommand) &&
			args.IgnoreCoverage &&
			args.CoverageFile == m.Path("cover.out") &&
			args.WhoTestsWhatFile == m.Path("wtw.yaml") &&
			args.MutationTimeout == 30*time.Second &&
			!args.CleanCache
	})).Return(m.ResultsSummary{}, nil)

	cmd.SetArgs([]string{
		"--ignore-coverage",
		"--coverage-file", "cover.out",
		"--wtw", "wtw.yaml",
		"run",
		"--test-cmd", "go test -race ./internal/...",
		"--mutation-timeout", "30s",
		"--clean-cache=false",
	})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_WithExcludePaths(t *testing.T) {
	cmd, mockWorkflow := newTestRunCmd(t)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return len(args.Exclude) == 2 &&
			args.Exclude[0] == m.Path("internal/gen.go") &&
			args.Exclude[1] == m.Path("main.go")
	})).Return(m.ResultsSummary{}, nil)

	cmd.SetArgs([]string{"run", "-x", "internal/gen.go", "-x", "main.go", "./..."})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_PropagatesWorkflowError(t *testing.T) {
	cmd, mockWorkflow := newTestRunCmd(t)

	baselineErr := &domain.BaselineTestError{ExitCode: 1, Output: "FAIL"}
	mockWorkflow.On("Run", mock.Anything, mock.Anything).Return(m.ResultsSummary{}, baselineErr)

	cmd.SetArgs([]string{"run"})
	err := cmd.Execute()

	var target *domain.BaselineTestError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "FAIL", target.Output)
}

func TestRunCmd_RejectsMultiplePaths(t *testing.T) {
	cmd, _ := newTestRunCmd(t)

	cmd.SetArgs([]string{"run", "./cmd", "./pkg"})
	require.Error(t, cmd.Execute())
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run [path]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, runLongDescription, cmd.Long)

	for _, name := range []string{
		testCmdFlagName, nlocationsFlagName, seedFlagName,
		breakSurvivalFlagName, breakDetectedFlagName, breakErrorFlagName, breakUnknownFlagName,
		mutationTimeoutFlagName, cleanCacheFlagName,
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestParseTestCmd(t *testing.T) {
	got, err := parseTestCmd("  go test   -count=1 ./... ")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "test", "-count=1", "./..."}, got)

	_, err = parseTestCmd("   ")
	require.Error(t, err)
}
