package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/version"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ReportJSON wraps a Report with run metadata for JSON output
type ReportJSON struct {
	Version     string             `json:"version"`
	GeneratedAt string             `json:"generated_at"`
	Report      *domain.Report     `json:"report"`
	Summary     *domain.RunSummary `json:"summary,omitempty"`
}

// Write renders the report in the specified format. Summary may be nil
// for dual runs, which carry no pass/fail decision.
func (f *OutputFormatterImpl) Write(report *domain.Report, summary *domain.RunSummary, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(report, summary, writer)
	case domain.OutputFormatMarkdown:
		return f.writeMarkdown(report, summary, writer)
	case domain.OutputFormatText:
		return f.writeText(report, summary, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (f *OutputFormatterImpl) writeJSON(report *domain.Report, summary *domain.RunSummary, writer io.Writer) error {
	return WriteJSON(writer, ReportJSON{
		Version:     version.Version,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Report:      report,
		Summary:     summary,
	})
}

// writeMarkdown renders a PR-comment friendly report with one findings
// table per file.
func (f *OutputFormatterImpl) writeMarkdown(report *domain.Report, summary *domain.RunSummary, writer io.Writer) error {
	fmt.Fprintf(writer, "## %s\n\n", report.Title)
	fmt.Fprintf(writer, "%s\n\n", report.Summary)

	if summary != nil {
		fmt.Fprintf(writer, "| Severity | Count |\n")
		fmt.Fprintf(writer, "|----------|-------|\n")
		fmt.Fprintf(writer, "| Error    | %d    |\n", summary.ErrorCount)
		fmt.Fprintf(writer, "| Warning  | %d    |\n\n", summary.WarningCount)
	}

	if len(report.NewFiles) > 0 {
		fmt.Fprintf(writer, "### Newly added files\n\n")
		fmt.Fprintf(writer, "The following files have no counterpart on the target branch and were not compared:\n\n")
		for _, path := range report.NewFiles {
			fmt.Fprintf(writer, "- `%s`\n", path)
		}
		fmt.Fprintln(writer)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(writer, "### Run errors\n\n")
		fmt.Fprintf(writer, "The following files could not be validated:\n\n")
		for _, msg := range report.Errors {
			fmt.Fprintf(writer, "- %s\n", escapePipes(msg))
		}
		fmt.Fprintln(writer)
	}

	if len(report.Sections) == 0 {
		fmt.Fprintln(writer, "No findings. :white_check_mark:")
		return nil
	}

	for _, section := range report.Sections {
		fmt.Fprintf(writer, "### `%s`\n\n", section.Path)
		fmt.Fprintf(writer, "| Severity | Rule | Message | Location |\n")
		fmt.Fprintf(writer, "|----------|------|---------|----------|\n")
		for _, finding := range section.Findings {
			fmt.Fprintf(writer, "| %s | %s | %s | %s |\n",
				finding.Severity,
				escapePipes(finding.RuleID),
				escapePipes(finding.Message),
				markdownLocations(finding.Locations))
		}
		fmt.Fprintln(writer)
	}

	return nil
}

func (f *OutputFormatterImpl) writeText(report *domain.Report, summary *domain.RunSummary, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== %s ===\n\n", report.Title)
	fmt.Fprintf(writer, "%s\n", report.Summary)
	fmt.Fprintf(writer, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "Version: %s\n\n", version.Version)

	if summary != nil {
		fmt.Fprintf(writer, "Summary:\n")
		fmt.Fprintf(writer, "  Errors: %d\n", summary.ErrorCount)
		fmt.Fprintf(writer, "  Warnings: %d\n", summary.WarningCount)
		fmt.Fprintf(writer, "\n")
	}

	if len(report.NewFiles) > 0 {
		fmt.Fprintf(writer, "Newly added files (not compared):\n")
		for _, path := range report.NewFiles {
			fmt.Fprintf(writer, "  - %s\n", path)
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(writer, "Run errors:\n")
		for _, msg := range report.Errors {
			fmt.Fprintf(writer, "  - %s\n", msg)
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(report.Sections) == 0 {
		fmt.Fprintf(writer, "No findings.\n")
		return nil
	}

	for _, section := range report.Sections {
		fmt.Fprintf(writer, "%s:\n", section.Path)
		for _, finding := range section.Findings {
			fmt.Fprintf(writer, "  [%s] %s: %s\n",
				strings.ToUpper(string(finding.Severity)), finding.RuleID, finding.Message)
			for _, loc := range finding.Locations {
				fmt.Fprintf(writer, "         at %s:%d (%s)\n", loc.Path, loc.Line, loc.Tag)
			}
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

func markdownLocations(locations []domain.Location) string {
	if len(locations) == 0 {
		return ""
	}
	parts := make([]string, 0, len(locations))
	for _, loc := range locations {
		parts = append(parts, fmt.Sprintf("[%s](%s#L%d)", loc.Tag, loc.Path, loc.Line))
	}
	return strings.Join(parts, " ")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
