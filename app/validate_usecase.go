package app

import (
	"context"
	"fmt"

	"github.com/apispec-tools/specgate/domain"
)

// ValidateUseCase orchestrates the model-validation flow. Unlike lint
// and breaking, a per-file failure here is isolated: example validation
// is advisory, so one crashing file should not mask the results of the
// rest.
//
// With a dual-run service attached, Execute compares each file's
// findings against the target branch instead of validating the current
// state alone.
type ValidateUseCase struct {
	service    domain.ValidationService
	dual       domain.DualRunService
	builder    domain.ReportBuilder
	formatter  domain.OutputFormatter
	changes    domain.ChangeLister
	fileHelper *FileHelper
}

// NewValidateUseCase creates a new model-validation use case
func NewValidateUseCase(service domain.ValidationService, builder domain.ReportBuilder, formatter domain.OutputFormatter, changes domain.ChangeLister) *ValidateUseCase {
	return &ValidateUseCase{
		service:    service,
		builder:    builder,
		formatter:  formatter,
		changes:    changes,
		fileHelper: NewFileHelper(),
	}
}

// WithDualRun enables before/after comparison for this use case.
func (uc *ValidateUseCase) WithDualRun(dual domain.DualRunService) *ValidateUseCase {
	uc.dual = dual
	return uc
}

// Execute runs the model-validation flow and returns the run summary
// for exit-code gating. Dual runs carry no summary; they return nil.
func (uc *ValidateUseCase) Execute(ctx context.Context, cfg RunConfig) (*domain.RunSummary, error) {
	if uc.dual != nil {
		return nil, uc.executeDual(ctx, cfg)
	}
	return runSingleState(ctx, cfg, uc.service, uc.builder, uc.formatter, uc.changes, uc.fileHelper, domain.FailPolicyIsolate)
}

func (uc *ValidateUseCase) executeDual(ctx context.Context, cfg RunConfig) error {
	files, newFiles, err := selectFiles(ctx, cfg, uc.changes, uc.fileHelper)
	if err != nil {
		return err
	}

	resp, err := uc.dual.Run(ctx, files)
	if err != nil {
		return err
	}

	report := uc.builder.BuildDual(resp.Files, newFiles, cfg.TargetBranch)
	report.Errors = resp.Errors
	applyOutputOptions(report, cfg)

	if err := uc.formatter.Write(report, nil, cfg.OutputFormat, cfg.OutputWriter); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
