package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/config"
	"golang.org/x/sync/errgroup"
)

// Default values for the file executor
const (
	DefaultMaxConcurrency = 4
	DefaultTimeout        = 5 * time.Minute
)

// FileError records the failure of one file's pipeline.
type FileError struct {
	File string
	Err  error
}

// Error implements the error interface
func (e FileError) Error() string {
	return fmt.Sprintf("[%s] %v", e.File, e.Err)
}

// Unwrap returns the underlying error
func (e FileError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all per-file failures of one pass.
type AggregatedError struct {
	Errors []FileError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d files failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// FileExecutor runs a per-file function over a set of files with bounded
// concurrency and a pass-wide timeout. File pipelines are independent:
// one file's failure never cancels the others. Failures are collected
// and handed back together after the join point.
type FileExecutor struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
}

// NewFileExecutor creates a file executor with defaults
// (runtime.NumCPU() concurrency, 5 minute timeout).
func NewFileExecutor() *FileExecutor {
	return &FileExecutor{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
	}
}

// NewFileExecutorFromConfig creates a file executor from configuration
func NewFileExecutorFromConfig(cfg *config.PerformanceConfig) *FileExecutor {
	maxConcurrency := cfg.MaxGoroutines
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &FileExecutor{
		maxConcurrency: maxConcurrency,
		timeout:        timeout,
	}
}

// NewFileExecutorWithProgress creates a file executor with progress tracking
func NewFileExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager) *FileExecutor {
	executor := NewFileExecutorFromConfig(cfg)
	executor.progress = pm
	return executor
}

// ForEach runs fn for every file. It returns an *AggregatedError listing
// the files whose fn failed; fn results are the caller's to collect
// (under its own lock or per-index slots).
func (e *FileExecutor) ForEach(ctx context.Context, description string, files []string, fn func(ctx context.Context, file string) error) error {
	if len(files) == 0 {
		return nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(description, len(files))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(e.maxConcurrency)

	var errMu sync.Mutex
	var fileErrors []FileError

	for _, file := range files {
		file := file
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			err := fn(gCtx, file)
			task.Increment(1)

			if err != nil {
				errMu.Lock()
				fileErrors = append(fileErrors, FileError{File: file, Err: err})
				errMu.Unlock()
			}

			// Always return nil: failures are isolated per file and
			// collected above, so the remaining files keep running.
			return nil
		})
	}

	// Join point: aggregation must not start before every file is done.
	_ = g.Wait()

	if len(fileErrors) > 0 {
		return &AggregatedError{Errors: fileErrors}
	}
	return nil
}
