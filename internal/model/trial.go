package model

import "time"

// TrialResult is what the trial-execution collaborator reports for one
// (location, operator) pair.
type TrialResult struct {
	Status   Status
	Output   string
	Diff     string
	Duration time.Duration
}

// TrialRecord is one appended entry of a run.
type TrialRecord struct {
	Path     Path
	Loc      LocIndex
	Operator Operator
	Status   Status
	Output   string
	Diff     string
	Started  time.Time
	Duration time.Duration
}

// ResultsSummary is the immutable aggregate of a run.
type ResultsSummary struct {
	results        []TrialRecord
	locsMutated    int
	locsIdentified int
	totalRuntime   time.Duration
}

// NewResultsSummary copies records so later changes by the caller do not leak
// into the summary.
func NewResultsSummary(records []TrialRecord, locsMutated, locsIdentified int, totalRuntime time.Duration) ResultsSummary {
	results := make([]TrialRecord, len(records))
	copy(results, records)

	return ResultsSummary{
		results:        results,
		locsMutated:    locsMutated,
		locsIdentified: locsIdentified,
		totalRuntime:   totalRuntime,
	}
}

// Results returns a copy of the trial records in execution order.
func (s ResultsSummary) Results() []TrialRecord {
	results := make([]TrialRecord, len(s.results))
	copy(results, s.results)

	return results
}

// Len returns the number of trial records.
func (s ResultsSummary) Len() int { return len(s.results) }

// LocsMutated is the number of sampled locations entered by the run.
func (s ResultsSummary) LocsMutated() int { return s.locsMutated }

// LocsIdentified is the size of the sample space used for sampling.
func (s ResultsSummary) LocsIdentified() int { return s.locsIdentified }

// TotalRuntime is the wall-clock time from scanning to the last trial.
func (s ResultsSummary) TotalRuntime() time.Duration { return s.totalRuntime }

// CountByStatus tallies records by status.
func (s ResultsSummary) CountByStatus() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, record := range s.results {
		counts[record.Status]++
	}

	return counts
}
