package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "gooze.dev/pkg/mutest/internal/model"
)

const recentTrials = 5

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("13")).
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the live progress view in run mode. Other modes print
// static output and need no program.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := newStartConfig(options)
	if config.mode != ModeRun {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	t.program = tea.NewProgram(newRunModel(), tea.WithOutput(t.output), tea.WithInput(nil), tea.WithContext(ctx))
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("Progress view stopped", "error", err)
		}
	}(t.program, t.done)

	return nil
}

// Close stops the live view and waits for it to restore the terminal.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait is a no-op; the interactive report view blocks in DisplayReport.
func (t *TUI) Wait(_ context.Context) {}

// DisplayBaseline reports the clean trial duration.
func (t *TUI) DisplayBaseline(_ context.Context, duration time.Duration) {
	t.send(baselineMsg{duration: duration})
}

// DisplaySampleInfo reports how many locations will be mutated.
func (t *TUI) DisplaySampleInfo(_ context.Context, identified int, sampled int, seed uint64) {
	t.send(sampleMsg{identified: identified, sampled: sampled, seed: seed})
}

// TrialStarted moves the progress view to a new trial.
func (t *TUI) TrialStarted(_ context.Context, pair m.SamplePair, op m.Operator) {
	t.send(trialStartedMsg{pair: pair, op: op})
}

// TrialCompleted records a finished trial.
func (t *TUI) TrialCompleted(_ context.Context, record m.TrialRecord) {
	t.send(trialCompletedMsg{record: record})
}

// DisplaySummary ends the live view and prints the final tables.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.ResultsSummary, score float64, reportPath m.Path) {
	t.Close(ctx)

	var b strings.Builder

	b.WriteString(titleStyle.Render("mutest - trial summary"))
	b.WriteString("\n\n")
	b.WriteString(renderSummaryTable(summary))
	fmt.Fprintf(&b, "\n  Mutation score: %s\n", scoreStyle(score).Render(fmt.Sprintf("%.2f%%", score*100)))
	fmt.Fprintf(&b, "  Total runtime: %s\n", summary.TotalRuntime().Round(time.Millisecond))

	if reportPath != "" {
		fmt.Fprintf(&b, "  Report: %s\n", reportPath)
	}

	_, _ = fmt.Fprint(t.output, b.String())
}

// DisplayEstimation prints per-file location counts.
func (t *TUI) DisplayEstimation(ctx context.Context, rows []EstimationRow, eligible int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "%s\n\n%s", titleStyle.Render("mutest - mutation locations"), renderEstimationTable(rows, eligible))

	return err
}

// DisplayReport shows a stored report, paginated when it does not fit.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newReportModel(report)

	if !IsTTY(t.output) {
		_, err := fmt.Fprint(t.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplayWhoTestsWhat reports a written who-tests-what mapping.
func (t *TUI) DisplayWhoTestsWhat(_ context.Context, tests int, files int, path m.Path) {
	_, _ = fmt.Fprintf(t.output, "%s\n  Mapped %d test(s) over %d file(s) into %s\n",
		titleStyle.Render("mutest - who tests what"), tests, files, path)
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.8:
		return detectedStyle
	case score >= 0.5:
		return warningStyle
	default:
		return survivedStyle
	}
}

type (
	baselineMsg struct {
		duration time.Duration
	}
	sampleMsg struct {
		identified int
		sampled    int
		seed       uint64
	}
	trialStartedMsg struct {
		pair m.SamplePair
		op   m.Operator
	}
	trialCompletedMsg struct {
		record m.TrialRecord
	}
)

type locationKey struct {
	path m.Path
	loc  m.LocIndex
}

// runModel is the live progress view of a run.
type runModel struct {
	spinner  spinner.Model
	progress progress.Model
	baseline time.Duration
	sample   sampleMsg
	entered  map[locationKey]struct{}
	current  string
	counts   map[m.Status]int
	trials   int
	recent   []string
}

func newRunModel() runModel {
	return runModel{
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		entered:  make(map[locationKey]struct{}),
		counts:   make(map[m.Status]int),
	}
}

func (rm runModel) Init() tea.Cmd {
	return rm.spinner.Tick
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		rm.spinner, cmd = rm.spinner.Update(msg)

		return rm, cmd
	case tea.WindowSizeMsg:
		rm.progress.Width = min(max(msg.Width-4, 10), 80)
	case baselineMsg:
		rm.baseline = msg.duration
	case sampleMsg:
		rm.sample = msg
	case trialStartedMsg:
		rm.entered[locationKey{path: msg.pair.Path, loc: msg.pair.Loc}] = struct{}{}
		rm.current = fmt.Sprintf("%s:%d:%d %s -> %s", msg.pair.Path, msg.pair.Loc.Line, msg.pair.Loc.Column, msg.pair.Loc.Original, msg.op)
	case trialCompletedMsg:
		rm.trials++
		rm.counts[msg.record.Status]++
		rm.recent = append(rm.recent, fmt.Sprintf("%s:%d %s -> %s %s",
			msg.record.Path, msg.record.Loc.Line, msg.record.Loc.Original, msg.record.Operator, StatusLabel(msg.record.Status)))

		if len(rm.recent) > recentTrials {
			rm.recent = rm.recent[len(rm.recent)-recentTrials:]
		}
	}

	return rm, nil
}

func (rm runModel) percent() float64 {
	if rm.sample.sampled == 0 {
		return 0
	}

	finished := len(rm.entered) - 1
	if finished < 0 {
		finished = 0
	}

	return float64(finished) / float64(rm.sample.sampled)
}

func (rm runModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mutest - mutation trials"))
	b.WriteString("\n\n")

	if rm.baseline > 0 {
		fmt.Fprintf(&b, "  Clean trial passed in %s\n", rm.baseline.Round(time.Millisecond))
	}

	if rm.sample.sampled > 0 {
		fmt.Fprintf(&b, "  Mutating %d of %d location(s), seed %d\n", rm.sample.sampled, rm.sample.identified, rm.sample.seed)
	}

	fmt.Fprintf(&b, "\n  %s %s\n", rm.spinner.View(), rm.current)
	fmt.Fprintf(&b, "  %s  %d/%d locations, %d trial(s)\n\n",
		rm.progress.ViewAs(rm.percent()), len(rm.entered), rm.sample.sampled, rm.trials)

	for _, status := range m.Statuses {
		fmt.Fprintf(&b, "  %s %d", StatusLabel(status), rm.counts[status])
	}

	b.WriteString("\n\n")

	for _, line := range rm.recent {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	return b.String()
}

// reportModel is a scrollable view of a stored report.
type reportModel struct {
	header []string
	lines  []string
	height int
	offset int
}

func newReportModel(report m.Report) reportModel {
	header := []string{
		titleStyle.Render("mutest - report " + report.RunID),
		"",
		fmt.Sprintf("  Created %s, seed %d, runtime %s", report.CreatedAt.Format(time.RFC3339), report.Seed, report.TotalRuntime.Round(time.Millisecond)),
		fmt.Sprintf("  Locations mutated: %d of %d | Score: %s",
			report.LocsMutated, report.LocsIdentified, scoreStyle(report.Score).Render(fmt.Sprintf("%.2f%%", report.Score*100))),
		"",
	}

	lines := make([]string, 0, len(report.Trials))
	for _, trial := range report.Trials {
		lines = append(lines, fmt.Sprintf("  %s:%d:%d %s -> %s %s",
			trial.Path, trial.Line, trial.Column, trial.Original, trial.Operator, StatusLabel(trial.Status)))
	}

	return reportModel{header: header, lines: lines}
}

func (rm reportModel) Init() tea.Cmd {
	return nil
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.height = msg.Height
		rm.offset = min(rm.offset, rm.maxOffset())
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return rm, tea.Quit
		case "down", "j":
			rm.offset = min(rm.offset+1, rm.maxOffset())
		case "up", "k":
			rm.offset = max(rm.offset-1, 0)
		case "d", "pgdown":
			rm.offset = min(rm.offset+rm.itemsPerPage(), rm.maxOffset())
		case "u", "pgup":
			rm.offset = max(rm.offset-rm.itemsPerPage(), 0)
		case "g", "home":
			rm.offset = 0
		case "G", "end":
			rm.offset = rm.maxOffset()
		}
	}

	return rm, nil
}

// itemsPerPage is the number of trial lines that fit below the header and
// above the two footer lines.
func (rm reportModel) itemsPerPage() int {
	if rm.height == 0 {
		return len(rm.lines)
	}

	return max(rm.height-len(rm.header)-3, 1)
}

func (rm reportModel) maxOffset() int {
	return max(len(rm.lines)-rm.itemsPerPage(), 0)
}

func (rm reportModel) View() string {
	var b strings.Builder

	for _, line := range rm.header {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(rm.lines) == 0 {
		b.WriteString("  No trials recorded\n")
		return b.String()
	}

	end := min(rm.offset+rm.itemsPerPage(), len(rm.lines))
	for _, line := range rm.lines[rm.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if rm.height > 0 {
		fmt.Fprintf(&b, "\n  Lines %d-%d of %d | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n",
			rm.offset+1, end, len(rm.lines))
	}

	return b.String()
}
