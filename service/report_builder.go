package service

import (
	"fmt"
	"sort"

	"github.com/apispec-tools/specgate/domain"
)

// ReportBuilder assembles the presentation-independent report from a
// run's results. It performs no I/O; rendering is the formatter's job.
type ReportBuilder struct{}

// NewReportBuilder creates a new report builder
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// Build assembles the report for a single-state run. Files with zero
// findings get no section; newly added files are listed separately and
// never carry findings sections (they are excluded from processing
// upstream).
func (b *ReportBuilder) Build(files domain.FileReport, newFiles []string, summary domain.RunSummary, target string) *domain.Report {
	report := &domain.Report{
		Title:    buildTitle(summary),
		Summary:  buildSummaryText(summary, target),
		NewFiles: sortedCopy(newFiles),
	}

	for _, path := range files.SortedPaths() {
		findings := files[path]
		if len(findings) == 0 {
			continue
		}
		report.Sections = append(report.Sections, domain.FileSection{
			Path:     path,
			Findings: findings,
		})
	}

	return report
}

// BuildDual assembles the report for a before/after run. Dual runs have
// no pass/fail decision, so the title is neutral; each file gets up to
// two sections, the "before" state first.
func (b *ReportBuilder) BuildDual(files domain.DualFileReport, newFiles []string, target string) *domain.Report {
	report := &domain.Report{
		Title:    "Validation comparison against " + target,
		Summary:  fmt.Sprintf("Compared %d file(s) between %s and the current state.", len(files), target),
		NewFiles: sortedCopy(newFiles),
	}

	for _, path := range files.SortedPaths() {
		entry := files[path]
		if len(entry.Before) > 0 {
			report.Sections = append(report.Sections, domain.FileSection{
				Path:     path + " (before)",
				Findings: entry.Before,
			})
		}
		if len(entry.After) > 0 {
			report.Sections = append(report.Sections, domain.FileSection{
				Path:     path + " (after)",
				Findings: entry.After,
			})
		}
	}

	return report
}

func buildTitle(summary domain.RunSummary) string {
	if summary.IsClean {
		return "Validation passed: 0 new errors"
	}
	return fmt.Sprintf("Validation failed: %d new error(s)", summary.ErrorCount)
}

func buildSummaryText(summary domain.RunSummary, target string) string {
	return fmt.Sprintf("There are %d new error(s) and %d new warning(s) compared to %s.",
		summary.ErrorCount, summary.WarningCount, target)
}

func sortedCopy(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}
