package model

import "time"

// Report is the persisted form of a run.
type Report struct {
	RunID          string         `yaml:"run_id"`
	CreatedAt      time.Time      `yaml:"created_at"`
	Seed           uint64         `yaml:"seed"`
	SourceRoot     Path           `yaml:"source_root"`
	TestCommand    []string       `yaml:"test_command"`
	LocsMutated    int            `yaml:"locs_mutated"`
	LocsIdentified int            `yaml:"locs_identified"`
	TotalRuntime   time.Duration  `yaml:"total_runtime"`
	Score          float64        `yaml:"score"`
	Counts         map[string]int `yaml:"counts"`
	Trials         []ReportTrial  `yaml:"trials"`
}

// ReportTrial is the persisted form of a trial record.
type ReportTrial struct {
	Path     Path          `yaml:"path"`
	Kind     NodeKind      `yaml:"kind"`
	Line     int           `yaml:"line"`
	Column   int           `yaml:"column"`
	Original string        `yaml:"original"`
	Operator Operator      `yaml:"operator"`
	Status   Status        `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
	Diff     string        `yaml:"diff,omitempty"`
}
