package app

import (
	"context"
	"io"
	"os"

	"github.com/apispec-tools/specgate/domain"
)

// RunConfig holds the options shared by every validation flow.
type RunConfig struct {
	// TargetBranch is the reference the run compares against. Used in
	// report wording and, for dual runs, as the checkout target.
	TargetBranch string

	// Output options
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
	MinSeverity  domain.Severity
	ShowDetails  bool

	// File selection
	IncludePatterns []string
	ExcludePatterns []string

	// Files overrides change detection: when non-empty, exactly these
	// files are processed and no git queries are made.
	Files []string
}

// DefaultRunConfig returns default run options
func DefaultRunConfig() RunConfig {
	return RunConfig{
		TargetBranch: "main",
		OutputFormat: domain.OutputFormatText,
		OutputWriter: os.Stdout,
		MinSeverity:  domain.SeverityInfo,
		ShowDetails:  true,
	}
}

// selectFiles resolves the files a run should process: the explicit
// override when given, otherwise the changed files minus the newly
// added ones. It also returns the new-file list for the report.
func selectFiles(ctx context.Context, cfg RunConfig, changes domain.ChangeLister, helper *FileHelper) (files, newFiles []string, err error) {
	if len(cfg.Files) > 0 {
		return cfg.Files, nil, nil
	}

	changed, err := changes.ChangedFiles(ctx)
	if err != nil {
		return nil, nil, err
	}
	added, err := changes.NewFiles(ctx)
	if err != nil {
		return nil, nil, err
	}

	files = helper.SelectSpecFiles(changed, added, cfg.IncludePatterns, cfg.ExcludePatterns)
	newFiles = helper.SelectSpecFiles(added, nil, cfg.IncludePatterns, cfg.ExcludePatterns)
	return files, newFiles, nil
}

// applyOutputOptions trims a report in place per the output options:
// findings below the minimum severity are dropped, and locations are
// stripped when details are off. Sections left without findings are
// removed.
func applyOutputOptions(report *domain.Report, cfg RunConfig) {
	sections := report.Sections[:0]
	for _, section := range report.Sections {
		section.Findings = domain.FilterMinSeverity(section.Findings, cfg.MinSeverity)
		if len(section.Findings) == 0 {
			continue
		}
		if !cfg.ShowDetails {
			for i := range section.Findings {
				section.Findings[i].Locations = nil
			}
		}
		sections = append(sections, section)
	}
	report.Sections = sections
}
