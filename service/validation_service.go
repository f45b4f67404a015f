package service

import (
	"context"
	"errors"
	"sync"

	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/classify"
	"github.com/apispec-tools/specgate/internal/repair"
)

// ValidationServiceImpl runs the per-file pipeline: invoke the tool,
// repair its output stream, classify the records and sort the findings.
type ValidationServiceImpl struct {
	runner   domain.ToolRunner
	adapt    classify.Adapter
	executor *FileExecutor
}

// NewValidationService creates a validation service for one tool and
// its record adapter.
func NewValidationService(runner domain.ToolRunner, adapt classify.Adapter, executor *FileExecutor) *ValidationServiceImpl {
	if executor == nil {
		executor = NewFileExecutor()
	}
	return &ValidationServiceImpl{
		runner:   runner,
		adapt:    adapt,
		executor: executor,
	}
}

// Validate processes req.Files in parallel and aggregates the results
// at the join point.
//
// Under FailPolicyAbort any per-file failure aborts the run: partial
// results from a batch flow would be misleading. Under
// FailPolicyIsolate failures are recorded per file in Response.Errors
// and the remaining files are unaffected.
func (s *ValidationServiceImpl) Validate(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResponse, error) {
	files := make(domain.FileReport, len(req.Files))
	var mu sync.Mutex

	err := s.executor.ForEach(ctx, "Validating specifications", req.Files, func(ctx context.Context, file string) error {
		findings, err := s.processFile(ctx, file)
		if err != nil {
			return err
		}

		mu.Lock()
		files[file] = findings
		mu.Unlock()
		return nil
	})

	resp := &domain.ValidationResponse{Files: files}

	if err != nil {
		if req.Policy == domain.FailPolicyAbort {
			return nil, err
		}

		var agg *AggregatedError
		if errors.As(err, &agg) {
			for _, fe := range agg.Errors {
				resp.Errors = append(resp.Errors, fe.Error())
			}
		} else {
			resp.Errors = append(resp.Errors, err.Error())
		}
	}

	resp.Summary = domain.Summarize(resp.Files)
	return resp, nil
}

// ProcessFile runs the pipeline for a single file and returns its
// sorted findings. Exposed for the dual-run service, which drives the
// two passes itself.
func (s *ValidationServiceImpl) ProcessFile(ctx context.Context, file string) ([]domain.Finding, error) {
	return s.processFile(ctx, file)
}

func (s *ValidationServiceImpl) processFile(ctx context.Context, file string) ([]domain.Finding, error) {
	chunk, err := s.runner.Run(ctx, file)
	if err != nil {
		return nil, err
	}

	records, err := repair.FileRecords(file, chunk)
	if err != nil {
		return nil, err
	}

	findings := classify.Findings(records, s.adapt)
	domain.SortFindings(findings)
	return findings, nil
}
