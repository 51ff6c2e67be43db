package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/mutest/internal/model"
)

var (
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	detectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// StatusLabel renders a status in its console colour: red for survivors,
// green for detected mutants, yellow otherwise.
func StatusLabel(status m.Status) string {
	switch status {
	case m.Survived:
		return survivedStyle.Render(status.String())
	case m.Detected:
		return detectedStyle.Render(status.String())
	case m.Error, m.Unknown:
		return warningStyle.Render(status.String())
	}

	return status.String()
}

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayBaseline reports the clean trial duration.
func (s *SimpleUI) DisplayBaseline(ctx context.Context, duration time.Duration) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Clean trial passed in %s\n", duration.Round(time.Millisecond))
}

// DisplaySampleInfo reports how many locations will be mutated.
func (s *SimpleUI) DisplaySampleInfo(ctx context.Context, identified int, sampled int, seed uint64) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Mutating %d of %d identified location(s) (seed %d)\n", sampled, identified, seed)
}

// TrialStarted is a no-op; SimpleUI reports trials once they finish.
func (s *SimpleUI) TrialStarted(_ context.Context, _ m.SamplePair, _ m.Operator) {}

// TrialCompleted prints one line per trial and the diff of survivors.
func (s *SimpleUI) TrialCompleted(ctx context.Context, record m.TrialRecord) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s:%d:%d %s -> %s: %s\n",
		record.Path, record.Loc.Line, record.Loc.Column,
		record.Loc.Original, record.Operator, StatusLabel(record.Status))

	if record.Status == m.Survived && record.Diff != "" {
		s.printf("%s\n", faintStyle.Render(record.Diff))
	}
}

// DisplaySummary prints the status table and the score.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.ResultsSummary, score float64, reportPath m.Path) {
	if ctx.Err() != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(summary))
	s.printf("Mutation score: %.2f%%\n", score*100)
	s.printf("Total runtime: %s\n", summary.TotalRuntime().Round(time.Millisecond))

	if reportPath != "" {
		s.printf("Report written to %s\n", reportPath)
	}
}

// DisplayEstimation prints per-file location counts.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, rows []EstimationRow, eligible int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderEstimationTable(rows, eligible))

	return nil
}

// DisplayReport prints a stored report.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Run %s (%s), seed %d\n", report.RunID, report.CreatedAt.Format(time.RFC3339), report.Seed)
	s.printf("%s", renderReportTable(report))
	s.printf("Locations mutated: %d of %d\n", report.LocsMutated, report.LocsIdentified)
	s.printf("Mutation score: %.2f%%\n", report.Score*100)

	return nil
}

// DisplayWhoTestsWhat reports a written who-tests-what mapping.
func (s *SimpleUI) DisplayWhoTestsWhat(ctx context.Context, tests int, files int, path m.Path) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Mapped %d test(s) over %d file(s) into %s\n", tests, files, path)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderEstimationTable(rows []EstimationRow, eligible int) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Path", "Locations", "Eligible"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	total := 0

	for _, row := range rows {
		table.Append([]string{string(row.Path), strconv.Itoa(row.Locations), strconv.Itoa(row.Eligible)})
		total += row.Locations
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(rows)),
		strconv.Itoa(total),
		strconv.Itoa(eligible),
	})

	table.Render()

	return buf.String()
}

func renderSummaryTable(summary m.ResultsSummary) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Status", "Trials"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	counts := summary.CountByStatus()
	for _, status := range m.Statuses {
		table.Append([]string{status.String(), strconv.Itoa(counts[status])})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Locations %d/%d", summary.LocsMutated(), summary.LocsIdentified()),
		strconv.Itoa(summary.Len()),
	})

	table.Render()

	return buf.String()
}

func renderReportTable(report m.Report) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Location", "Original", "Operator", "Status"})

	for _, trial := range report.Trials {
		table.Append([]string{
			fmt.Sprintf("%s:%d:%d", trial.Path, trial.Line, trial.Column),
			trial.Original,
			string(trial.Operator),
			trial.Status.String(),
		})
	}

	table.Render()

	return buf.String()
}
