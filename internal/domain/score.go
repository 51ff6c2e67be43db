package domain

import (
	"time"

	m "gooze.dev/pkg/mutest/internal/model"
)

// MutationScore is detected / (detected + survived). Errors and unknown
// outcomes are left out of both sides; a run without either scores 1.
func MutationScore(summary m.ResultsSummary) float64 {
	counts := summary.CountByStatus()
	detected := counts[m.Detected]
	total := detected + counts[m.Survived]

	if total == 0 {
		return 1.0
	}

	return float64(detected) / float64(total)
}

// ReportMeta carries the run settings stored next to the results.
type ReportMeta struct {
	RunID       string
	CreatedAt   time.Time
	Seed        uint64
	SourceRoot  m.Path
	TestCommand []string
}

// BuildReport converts a summary into its persisted form. Diffs are kept only
// for survivors.
func BuildReport(summary m.ResultsSummary, meta ReportMeta) m.Report {
	counts := make(map[string]int, len(m.Statuses))
	for status, n := range summary.CountByStatus() {
		counts[status.String()] = n
	}

	records := summary.Results()
	trials := make([]m.ReportTrial, 0, len(records))

	for _, record := range records {
		trial := m.ReportTrial{
			Path:     record.Path,
			Kind:     record.Loc.Kind,
			Line:     record.Loc.Line,
			Column:   record.Loc.Column,
			Original: record.Loc.Original,
			Operator: record.Operator,
			Status:   record.Status,
			Duration: record.Duration,
		}

		if record.Status == m.Survived {
			trial.Diff = record.Diff
		}

		trials = append(trials, trial)
	}

	return m.Report{
		RunID:          meta.RunID,
		CreatedAt:      meta.CreatedAt,
		Seed:           meta.Seed,
		SourceRoot:     meta.SourceRoot,
		TestCommand:    append([]string(nil), meta.TestCommand...),
		LocsMutated:    summary.LocsMutated(),
		LocsIdentified: summary.LocsIdentified(),
		TotalRuntime:   summary.TotalRuntime(),
		Score:          MutationScore(summary),
		Counts:         counts,
		Trials:         trials,
	}
}
