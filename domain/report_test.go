package domain

import (
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		files FileReport
		want  RunSummary
	}{
		{
			name:  "empty report is clean",
			files: FileReport{},
			want:  RunSummary{ErrorCount: 0, WarningCount: 0, IsClean: true},
		},
		{
			name: "one error two warnings",
			files: FileReport{
				"a.json": {
					{Severity: SeverityError, RuleID: "R1"},
					{Severity: SeverityWarning, RuleID: "R2"},
					{Severity: SeverityWarning, RuleID: "R3"},
				},
			},
			want: RunSummary{ErrorCount: 1, WarningCount: 2, IsClean: false},
		},
		{
			name: "warnings alone stay clean",
			files: FileReport{
				"a.json": {{Severity: SeverityWarning, RuleID: "R1"}},
				"b.json": {{Severity: SeverityInfo, RuleID: "R2"}},
			},
			want: RunSummary{ErrorCount: 0, WarningCount: 1, IsClean: true},
		},
		{
			name: "counts sum across files",
			files: FileReport{
				"a.json": {{Severity: SeverityError, RuleID: "R1"}},
				"b.json": {{Severity: SeverityError, RuleID: "R2"}},
			},
			want: RunSummary{ErrorCount: 2, WarningCount: 0, IsClean: false},
		},
		{
			name: "neutral results are not counted",
			files: FileReport{
				"a.json": {{Severity: SeverityResult, RuleID: "R1"}},
			},
			want: RunSummary{ErrorCount: 0, WarningCount: 0, IsClean: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.files); got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFileReport_SortedPaths(t *testing.T) {
	files := FileReport{
		"z/spec.json": nil,
		"a/spec.json": nil,
		"m/spec.json": nil,
	}

	got := files.SortedPaths()
	want := []string{"a/spec.json", "m/spec.json", "z/spec.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedPaths() = %v, want %v", got, want)
	}
}

func TestDualFileReport_SortedPaths(t *testing.T) {
	files := DualFileReport{
		"b.json": {},
		"a.json": {},
	}

	got := files.SortedPaths()
	want := []string{"a.json", "b.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedPaths() = %v, want %v", got, want)
	}
}
