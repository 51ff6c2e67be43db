// Package controller provides output adapters for displaying mutation trial
// progress and results.
package controller

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/mutest/internal/model"
)

// EstimationRow is one line of the list output.
type EstimationRow struct {
	Path      m.Path
	Locations int
	Eligible  int
}

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeRun
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithRunMode sets the UI to trial execution mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

func newStartConfig(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeEstimate}
	for _, option := range options {
		option(&config)
	}

	return config
}

// UI defines how mutest talks to the user. Implementations can use different
// output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context)
	DisplayBaseline(ctx context.Context, duration time.Duration)
	DisplaySampleInfo(ctx context.Context, identified int, sampled int, seed uint64)
	TrialStarted(ctx context.Context, pair m.SamplePair, op m.Operator)
	TrialCompleted(ctx context.Context, record m.TrialRecord)
	DisplaySummary(ctx context.Context, summary m.ResultsSummary, score float64, reportPath m.Path)
	DisplayEstimation(ctx context.Context, rows []EstimationRow, eligible int) error
	DisplayReport(ctx context.Context, report m.Report) error
	DisplayWhoTestsWhat(ctx context.Context, tests int, files int, path m.Path)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI picks the TUI for interactive terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
