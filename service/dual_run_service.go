package service

import (
	"context"
	"errors"
	"sync"

	"github.com/apispec-tools/specgate/domain"
)

// DualRunServiceImpl runs the same per-file pipeline twice: once against
// the current working tree ("after") and once against the reference
// state ("before"), merging into a DualFileReport keyed by file.
//
// The reference checkout is the single serialization point of a dual
// run: it happens exactly once per invocation, after the "after" pass
// has fully joined, so every "before" run observes the same snapshot.
type DualRunServiceImpl struct {
	pipeline *ValidationServiceImpl
	ref      domain.ReferenceState
	executor *FileExecutor
}

// NewDualRunService creates a dual run service
func NewDualRunService(pipeline *ValidationServiceImpl, ref domain.ReferenceState, executor *FileExecutor) *DualRunServiceImpl {
	if executor == nil {
		executor = NewFileExecutor()
	}
	return &DualRunServiceImpl{
		pipeline: pipeline,
		ref:      ref,
		executor: executor,
	}
}

// Run produces the before/after report for files. A failed reference
// checkout aborts the whole run with ErrReferenceStateUnavailable:
// reporting an empty "before" instead would be indistinguishable from
// "no prior issues". Per-file tool failures are isolated and recorded.
func (s *DualRunServiceImpl) Run(ctx context.Context, files []string) (*domain.DualRunResponse, error) {
	resp := &domain.DualRunResponse{
		Files: make(domain.DualFileReport, len(files)),
	}
	var mu sync.Mutex

	record := func(err error) {
		var agg *AggregatedError
		if errors.As(err, &agg) {
			for _, fe := range agg.Errors {
				resp.Errors = append(resp.Errors, fe.Error())
			}
		} else if err != nil {
			resp.Errors = append(resp.Errors, err.Error())
		}
	}

	// After pass: current working tree.
	afterErr := s.executor.ForEach(ctx, "Validating (current state)", files, func(ctx context.Context, file string) error {
		findings, err := s.pipeline.ProcessFile(ctx, file)
		if err != nil {
			return err
		}
		mu.Lock()
		entry := resp.Files[file]
		entry.After = findings
		resp.Files[file] = entry
		mu.Unlock()
		return nil
	})
	record(afterErr)

	// Before pass: one shared reference snapshot for every file.
	if err := s.ref.Checkout(ctx); err != nil {
		return nil, err
	}
	beforeErr := s.executor.ForEach(ctx, "Validating (reference state)", files, func(ctx context.Context, file string) error {
		findings, err := s.pipeline.ProcessFile(ctx, file)
		if err != nil {
			return err
		}
		mu.Lock()
		entry := resp.Files[file]
		entry.Before = findings
		resp.Files[file] = entry
		mu.Unlock()
		return nil
	})
	record(beforeErr)

	if err := s.ref.Restore(ctx); err != nil {
		return nil, err
	}

	return resp, nil
}
