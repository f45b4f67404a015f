package app

import (
	"context"

	"github.com/apispec-tools/specgate/domain"
)

// BreakingUseCase orchestrates the breaking-change flow: run the
// API-diff tool over every changed specification file against its
// target-branch counterpart. Newly added files are skipped outright;
// there is nothing to diff them against.
//
// Like the lint flow, per-file failures abort the run: a missing diff
// result could hide a breaking change.
type BreakingUseCase struct {
	service    domain.ValidationService
	builder    domain.ReportBuilder
	formatter  domain.OutputFormatter
	changes    domain.ChangeLister
	fileHelper *FileHelper
}

// NewBreakingUseCase creates a new breaking-change use case
func NewBreakingUseCase(service domain.ValidationService, builder domain.ReportBuilder, formatter domain.OutputFormatter, changes domain.ChangeLister) *BreakingUseCase {
	return &BreakingUseCase{
		service:    service,
		builder:    builder,
		formatter:  formatter,
		changes:    changes,
		fileHelper: NewFileHelper(),
	}
}

// Execute runs the breaking-change flow and returns the run summary for
// exit-code gating.
func (uc *BreakingUseCase) Execute(ctx context.Context, cfg RunConfig) (*domain.RunSummary, error) {
	return runSingleState(ctx, cfg, uc.service, uc.builder, uc.formatter, uc.changes, uc.fileHelper, domain.FailPolicyAbort)
}
