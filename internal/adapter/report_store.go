package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/mutest/internal/model"
)

// ReportFileName is the report written into the reports directory.
const ReportFileName = "report.yaml"

// ReportStore persists run reports.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error)
	LoadReport(ctx context.Context, dir m.Path) (m.Report, error)
}

// LocalReportStore keeps the latest report as YAML inside a directory.
type LocalReportStore struct{}

// NewReportStore constructs a LocalReportStore.
func NewReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveReport writes report to dir/report.yaml and returns the file path.
func (s *LocalReportStore) SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	content, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	path := filepath.Join(string(dir), ReportFileName)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return m.Path(path), nil
}

// LoadReport reads dir/report.yaml.
func (s *LocalReportStore) LoadReport(ctx context.Context, dir m.Path) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	path := filepath.Join(string(dir), ReportFileName)

	// #nosec G304 - report path derives from the configured output dir
	content, err := os.ReadFile(path)
	if err != nil {
		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := yaml.Unmarshal(content, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	return report, nil
}
