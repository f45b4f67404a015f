package domain

import "sort"

// FileReport maps a file path to its sorted findings. One FileReport is
// owned by exactly one run; it is read-only once the run's join point
// has passed.
type FileReport map[string][]Finding

// SortedPaths returns the report's file paths in lexicographic order.
func (r FileReport) SortedPaths() []string {
	paths := make([]string, 0, len(r))
	for p := range r {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// BeforeAfter holds the findings of one file from the two passes of a
// dual run.
type BeforeAfter struct {
	Before []Finding `json:"before"`
	After  []Finding `json:"after"`
}

// DualFileReport maps a file path to its before/after findings. It has
// no RunSummary: callers diff the two sequences themselves.
type DualFileReport map[string]BeforeAfter

// SortedPaths returns the report's file paths in lexicographic order.
func (r DualFileReport) SortedPaths() []string {
	paths := make([]string, 0, len(r))
	for p := range r {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// RunSummary aggregates a run's findings for CI gating. It is derived
// state: always recomputed via Summarize, never mutated in place.
type RunSummary struct {
	ErrorCount   int  `json:"error_count"`
	WarningCount int  `json:"warning_count"`
	IsClean      bool `json:"is_clean"`
}

// Summarize computes the RunSummary for a FileReport. A run with zero
// processed files is clean with both counts zero; warnings alone do not
// make a run dirty.
func Summarize(files FileReport) RunSummary {
	var summary RunSummary
	for _, findings := range files {
		for _, f := range findings {
			switch f.Severity {
			case SeverityError:
				summary.ErrorCount++
			case SeverityWarning:
				summary.WarningCount++
			}
		}
	}
	summary.IsClean = summary.ErrorCount == 0
	return summary
}

// FileSection is the per-file portion of a report body.
type FileSection struct {
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
}

// Report is the presentation-independent result of a run. Rendering it
// to a console, log file or PR comment is the caller's responsibility.
type Report struct {
	Title    string        `json:"title"`
	Summary  string        `json:"summary"`
	NewFiles []string      `json:"new_files,omitempty"`
	Sections []FileSection `json:"sections,omitempty"`

	// Errors lists per-file run failures that were isolated rather than
	// aborting the run.
	Errors []string `json:"errors,omitempty"`
}
