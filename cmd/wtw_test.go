package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutest/internal/domain"
	domainmocks "gooze.dev/pkg/mutest/internal/domain/mocks"
	m "gooze.dev/pkg/mutest/internal/model"
)

func TestWhoTestsWhatCmd_Defaults(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newWhoTestsWhatCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("BuildWhoTestsWhat", mock.Anything, mock.MatchedBy(func(args domain.WhoTestsWhatArgs) bool {
		return args.Output == m.Path(domain.DefaultWhoTestsWhatFile) &&
			len(args.Packages) == 0 &&
			args.Timeout == 5*time.Minute
	})).Return(nil)

	cmd.SetArgs([]string{"wtw"})
	require.NoError(t, cmd.Execute())
}

func TestWhoTestsWhatCmd_OutputAndPackages(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newWhoTestsWhatCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("BuildWhoTestsWhat", mock.Anything, mock.MatchedBy(func(args domain.WhoTestsWhatArgs) bool {
		return args.Output == m.Path("map.yaml") &&
			len(args.Packages) == 2 &&
			args.Packages[0] == "./internal/..." &&
			args.Timeout == time.Minute
	})).Return(nil)

	cmd.SetArgs([]string{"--wtw", "map.yaml", "wtw", "--test-timeout", "1m", "./internal/...", "./cmd"})
	require.NoError(t, cmd.Execute())
}
