package controller

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/mutest/internal/model"
)

func updateRun(rm runModel, msgs ...tea.Msg) runModel {
	for _, msg := range msgs {
		next, _ := rm.Update(msg)
		rm = next.(runModel)
	}

	return rm
}

func TestRunModel_Update(t *testing.T) {
	other := m.LocIndex{Kind: m.NodeComparison, Original: ">", Line: 8, Column: 11}

	rm := updateRun(newRunModel(),
		baselineMsg{duration: time.Second},
		sampleMsg{identified: 10, sampled: 2, seed: 5},
		trialStartedMsg{pair: m.SamplePair{Path: "calc.go", Loc: testLoc}, op: "-"},
		trialCompletedMsg{record: m.TrialRecord{Path: "calc.go", Loc: testLoc, Operator: "-", Status: m.Detected}},
		trialStartedMsg{pair: m.SamplePair{Path: "calc.go", Loc: testLoc}, op: "*"},
		trialCompletedMsg{record: m.TrialRecord{Path: "calc.go", Loc: testLoc, Operator: "*", Status: m.Survived}},
		trialStartedMsg{pair: m.SamplePair{Path: "calc.go", Loc: other}, op: "<"},
	)

	assert.Equal(t, time.Second, rm.baseline)
	assert.Equal(t, 2, rm.trials)
	assert.Len(t, rm.entered, 2)
	assert.Equal(t, 1, rm.counts[m.Detected])
	assert.Equal(t, 1, rm.counts[m.Survived])
	assert.InDelta(t, 0.5, rm.percent(), 1e-9)
	assert.Contains(t, rm.current, "calc.go:8:11 > -> <")

	view := rm.View()
	assert.Contains(t, view, "Clean trial passed in 1s")
	assert.Contains(t, view, "Mutating 2 of 10 location(s), seed 5")
	assert.Contains(t, view, "2/2 locations, 2 trial(s)")
}

func TestRunModel_RecentTrials(t *testing.T) {
	rm := newRunModel()
	for i := range recentTrials + 3 {
		rm = updateRun(rm, trialCompletedMsg{record: m.TrialRecord{
			Path:     m.Path(fmt.Sprintf("file%d.go", i)),
			Loc:      testLoc,
			Operator: "-",
			Status:   m.Detected,
		}})
	}

	assert.Len(t, rm.recent, recentTrials)
	assert.Contains(t, rm.recent[recentTrials-1], "file7.go")
	assert.Zero(t, rm.percent())
}

func reportWithTrials(n int) m.Report {
	report := m.Report{RunID: "run-7", Score: 0.4}
	for i := range n {
		report.Trials = append(report.Trials, m.ReportTrial{
			Path:     m.Path(fmt.Sprintf("file%d.go", i)),
			Line:     i + 1,
			Column:   1,
			Original: "+",
			Operator: "-",
			Status:   m.Survived,
		})
	}

	return report
}

func updateReport(rm reportModel, msgs ...tea.Msg) reportModel {
	for _, msg := range msgs {
		next, _ := rm.Update(msg)
		rm = next.(reportModel)
	}

	return rm
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReportModel_Scrolling(t *testing.T) {
	// five header lines plus three reserved leave two trial lines per page
	rm := updateReport(newReportModel(reportWithTrials(5)), tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 2, rm.itemsPerPage())
	assert.Equal(t, 3, rm.maxOffset())

	rm = updateReport(rm, key("j"))
	assert.Equal(t, 1, rm.offset)

	rm = updateReport(rm, key("d"), key("d"))
	assert.Equal(t, 3, rm.offset)

	rm = updateReport(rm, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, rm.offset)

	rm = updateReport(rm, key("k"))
	assert.Equal(t, 2, rm.offset)

	rm = updateReport(rm, key("g"))
	assert.Equal(t, 0, rm.offset)

	rm = updateReport(rm, key("G"))
	assert.Equal(t, 3, rm.offset)

	view := rm.View()
	assert.Contains(t, view, "file3.go")
	assert.Contains(t, view, "file4.go")
	assert.NotContains(t, view, "file0.go")
	assert.Contains(t, view, "Lines 4-5 of 5")
}

func TestReportModel_Quit(t *testing.T) {
	_, cmd := newReportModel(reportWithTrials(1)).Update(key("q"))
	if assert.NotNil(t, cmd) {
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestReportModel_Empty(t *testing.T) {
	rm := newReportModel(m.Report{RunID: "run-0"})

	assert.Contains(t, rm.View(), "No trials recorded")
	assert.Equal(t, 0, rm.maxOffset())
}

func TestScoreStyle(t *testing.T) {
	assert.Equal(t, detectedStyle.Render("x"), scoreStyle(0.9).Render("x"))
	assert.Equal(t, warningStyle.Render("x"), scoreStyle(0.5).Render("x"))
	assert.Equal(t, survivedStyle.Render("x"), scoreStyle(0.1).Render("x"))
}

func TestTUI_StaticOutput(t *testing.T) {
	var out bytes.Buffer

	ui := NewTUI(&out)
	ctx := context.Background()

	require.NoError(t, ui.Start(ctx, WithEstimateMode()))

	// no live view in estimate mode, so progress messages are dropped
	ui.DisplayBaseline(ctx, time.Second)
	ui.TrialCompleted(ctx, m.TrialRecord{Status: m.Detected})

	require.NoError(t, ui.DisplayEstimation(ctx, []EstimationRow{{Path: "calc.go", Locations: 2, Eligible: 2}}, 2))
	require.NoError(t, ui.DisplayReport(ctx, reportWithTrials(2)))
	ui.DisplaySummary(ctx, m.NewResultsSummary(nil, 0, 0, 0), 1, "report.yaml")
	ui.DisplayWhoTestsWhat(ctx, 1, 1, "wtw.yaml")
	ui.Close(ctx)

	got := out.String()
	assert.Contains(t, got, "mutest - mutation locations")
	assert.Contains(t, got, "mutest - report run-7")
	assert.Contains(t, got, "file1.go:2:1 + -> -")
	assert.Contains(t, got, "Report: report.yaml")
	assert.Contains(t, got, "Mapped 1 test(s) over 1 file(s) into wtw.yaml")
}
