package app

import (
	"context"
	"fmt"

	"github.com/apispec-tools/specgate/domain"
)

// LintUseCase orchestrates the specification-lint flow: run the linter
// over every changed specification file and gate on the aggregated
// severities. A per-file failure aborts the run; a partial lint result
// would let a broken file slip through the gate.
type LintUseCase struct {
	service    domain.ValidationService
	builder    domain.ReportBuilder
	formatter  domain.OutputFormatter
	changes    domain.ChangeLister
	fileHelper *FileHelper
}

// NewLintUseCase creates a new lint use case
func NewLintUseCase(service domain.ValidationService, builder domain.ReportBuilder, formatter domain.OutputFormatter, changes domain.ChangeLister) *LintUseCase {
	return &LintUseCase{
		service:    service,
		builder:    builder,
		formatter:  formatter,
		changes:    changes,
		fileHelper: NewFileHelper(),
	}
}

// Execute runs the lint flow and returns the run summary for exit-code
// gating.
func (uc *LintUseCase) Execute(ctx context.Context, cfg RunConfig) (*domain.RunSummary, error) {
	return runSingleState(ctx, cfg, uc.service, uc.builder, uc.formatter, uc.changes, uc.fileHelper, domain.FailPolicyAbort)
}

// runSingleState is the shared body of the lint and breaking-change
// flows: select files, validate, build and render the report.
func runSingleState(
	ctx context.Context,
	cfg RunConfig,
	svc domain.ValidationService,
	builder domain.ReportBuilder,
	formatter domain.OutputFormatter,
	changes domain.ChangeLister,
	helper *FileHelper,
	policy domain.FailurePolicy,
) (*domain.RunSummary, error) {
	files, newFiles, err := selectFiles(ctx, cfg, changes, helper)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Validate(ctx, domain.ValidationRequest{
		Files:  files,
		Policy: policy,
	})
	if err != nil {
		return nil, err
	}

	report := builder.Build(resp.Files, newFiles, resp.Summary, cfg.TargetBranch)
	report.Errors = resp.Errors
	applyOutputOptions(report, cfg)

	if err := formatter.Write(report, &resp.Summary, cfg.OutputFormat, cfg.OutputWriter); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return &resp.Summary, nil
}
