package domain

import (
	"sort"
	"strings"
)

// Severity represents the severity of a finding.
//
// The set is closed: tool output carrying any other value is normalized
// to SeverityResult by ParseSeverity.
type Severity string

const (
	SeverityInfo    Severity = "Info"
	SeverityResult  Severity = "Result"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// severityRanks orders severities for report sorting.
// Result is the neutral default: it sorts after Info and before Warning.
var severityRanks = map[Severity]int{
	SeverityInfo:    0,
	SeverityResult:  1,
	SeverityWarning: 2,
	SeverityError:   3,
}

// Rank returns the numeric sort rank of a severity. Unknown values rank
// as SeverityResult.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return severityRanks[SeverityResult]
}

// ParseSeverity normalizes a raw severity value from tool output.
// Tools disagree on field naming (type vs level) and casing, so the
// mapping is case-insensitive. Unrecognized or empty values map to
// SeverityResult.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error", "errors":
		return SeverityError
	case "warning", "warnings", "warn":
		return SeverityWarning
	case "info", "information":
		return SeverityInfo
	default:
		return SeverityResult
	}
}

// Location points at a position in a specification document.
// Tag distinguishes parallel locations of the same finding (e.g. the
// authored source vs. the compiled JSON).
type Location struct {
	Tag  string `json:"tag"`
	Path string `json:"path"`
	Line int    `json:"line"`
}

// Finding is one reported issue about a specification file.
// A Finding is immutable once classified.
type Finding struct {
	Severity  Severity   `json:"severity"`
	RuleID    string     `json:"rule_id"`
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

// FilterMinSeverity returns the findings at or above the given severity.
// The input slice is not modified.
func FilterMinSeverity(findings []Finding, min Severity) []Finding {
	threshold := min.Rank()
	kept := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Severity.Rank() >= threshold {
			kept = append(kept, f)
		}
	}
	return kept
}

// SortFindings orders findings in place for report output: severity rank
// ascending, then rule ID ascending on rank ties. The sort is stable, so
// findings equal on both keys keep their original relative order.
//
// Note the direction: the least severe findings come first and errors
// come last. This matches the long-standing report layout, where the
// most actionable items sit at the bottom of a top-to-bottom read.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri, rj := findings[i].Severity.Rank(), findings[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return findings[i].RuleID < findings[j].RuleID
	})
}
