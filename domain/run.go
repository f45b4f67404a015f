package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatMarkdown OutputFormat = "markdown"
)

// FailurePolicy selects how a run treats per-file repair and tool
// failures.
type FailurePolicy string

const (
	// FailPolicyAbort aborts the whole run on the first per-file
	// failure. Used by the lint and breaking-change flows, where a
	// partial result would be misleading.
	FailPolicyAbort FailurePolicy = "abort"

	// FailPolicyIsolate records the failure against the file and keeps
	// processing the remaining files. Used by the model-validation flow.
	FailPolicyIsolate FailurePolicy = "isolate"
)

// ToolRunner is the capability that produces a raw output chunk for one
// file. The engine does not know or care which binary is behind it.
type ToolRunner interface {
	// Run invokes the tool for filePath and returns its raw output.
	Run(ctx context.Context, filePath string) (string, error)
}

// RunFunc adapts a plain function to the ToolRunner interface.
type RunFunc func(ctx context.Context, filePath string) (string, error)

// Run implements ToolRunner
func (f RunFunc) Run(ctx context.Context, filePath string) (string, error) {
	return f(ctx, filePath)
}

// ReferenceState materializes and releases the reference (target-branch)
// snapshot used by the "before" pass of a dual run. All "before" runs of
// one invocation must observe the same snapshot, so Checkout is called
// exactly once per invocation.
type ReferenceState interface {
	Checkout(ctx context.Context) error
	Restore(ctx context.Context) error
}

// ValidationRequest describes one single-state validation run.
type ValidationRequest struct {
	// Files are the changed specification files to process. New files
	// must already be excluded by the caller.
	Files []string

	// Policy selects abort-on-failure or per-file isolation.
	Policy FailurePolicy
}

// ValidationResponse is the result of a single-state validation run.
type ValidationResponse struct {
	Files   FileReport `json:"files"`
	Summary RunSummary `json:"summary"`

	// Errors lists per-file failures recorded under FailPolicyIsolate,
	// one human-readable entry per failed file.
	Errors []string `json:"errors,omitempty"`
}

// DualRunResponse is the result of a before/after comparison run. It
// carries no RunSummary; severity gating does not apply to dual runs.
type DualRunResponse struct {
	Files  DualFileReport `json:"files"`
	Errors []string       `json:"errors,omitempty"`
}

// ValidationService runs the per-file pipeline (tool, repair, classify,
// sort) over a set of files.
type ValidationService interface {
	Validate(ctx context.Context, req ValidationRequest) (*ValidationResponse, error)
}

// DualRunService runs the per-file pipeline twice, once against the
// working tree and once against the reference state.
type DualRunService interface {
	Run(ctx context.Context, files []string) (*DualRunResponse, error)
}

// OutputFormatter renders a report into a concrete output format.
type OutputFormatter interface {
	Write(report *Report, summary *RunSummary, format OutputFormat, writer io.Writer) error
}

// ReportBuilder assembles presentation-independent reports from run
// results.
type ReportBuilder interface {
	Build(files FileReport, newFiles []string, summary RunSummary, target string) *Report
	BuildDual(files DualFileReport, newFiles []string, target string) *Report
}

// ChangeLister enumerates the files a pull request touches relative to
// the target branch.
type ChangeLister interface {
	// ChangedFiles returns every file changed relative to the target.
	ChangedFiles(ctx context.Context) ([]string, error)

	// NewFiles returns the changed files that have no counterpart on the
	// target branch.
	NewFiles(ctx context.Context) ([]string, error)
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
