package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apispec-tools/specgate/internal/config"
)

func TestFileExecutorForEach(t *testing.T) {
	t.Run("runs fn for every file", func(t *testing.T) {
		executor := NewFileExecutor()

		var mu sync.Mutex
		seen := make(map[string]bool)

		err := executor.ForEach(context.Background(), "test", []string{"a.json", "b.json", "c.json"}, func(ctx context.Context, file string) error {
			mu.Lock()
			seen[file] = true
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}
		if len(seen) != 3 {
			t.Errorf("expected 3 files processed, got %d", len(seen))
		}
	})

	t.Run("empty file list is a no-op", func(t *testing.T) {
		executor := NewFileExecutor()
		called := false

		err := executor.ForEach(context.Background(), "test", nil, func(ctx context.Context, file string) error {
			called = true
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}
		if called {
			t.Error("fn should not be called for an empty file list")
		}
	})

	t.Run("one failure does not stop the others", func(t *testing.T) {
		executor := NewFileExecutor()

		var processed int32
		err := executor.ForEach(context.Background(), "test", []string{"a.json", "bad.json", "c.json"}, func(ctx context.Context, file string) error {
			if file == "bad.json" {
				return errors.New("boom")
			}
			atomic.AddInt32(&processed, 1)
			return nil
		})

		if err == nil {
			t.Fatal("expected an aggregated error")
		}
		var agg *AggregatedError
		if !errors.As(err, &agg) {
			t.Fatalf("expected *AggregatedError, got %T", err)
		}
		if len(agg.Errors) != 1 {
			t.Fatalf("expected 1 file error, got %d", len(agg.Errors))
		}
		if agg.Errors[0].File != "bad.json" {
			t.Errorf("expected failing file bad.json, got %s", agg.Errors[0].File)
		}
		if atomic.LoadInt32(&processed) != 2 {
			t.Errorf("expected 2 successful files, got %d", processed)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		executor := NewFileExecutorFromConfig(&config.PerformanceConfig{
			MaxGoroutines:  2,
			TimeoutSeconds: 60,
		})

		var current, peak int32
		files := []string{"a", "b", "c", "d", "e", "f"}

		err := executor.ForEach(context.Background(), "test", files, func(ctx context.Context, file string) error {
			n := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}
		if p := atomic.LoadInt32(&peak); p > 2 {
			t.Errorf("concurrency limit exceeded: peak %d", p)
		}
	})

	t.Run("timeout cancels remaining files", func(t *testing.T) {
		executor := &FileExecutor{
			maxConcurrency: 1,
			timeout:        20 * time.Millisecond,
		}

		files := []string{"a", "b", "c"}
		err := executor.ForEach(context.Background(), "test", files, func(ctx context.Context, file string) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
				return nil
			}
		})

		if err == nil {
			t.Fatal("expected a timeout error")
		}
		var agg *AggregatedError
		if !errors.As(err, &agg) {
			t.Fatalf("expected *AggregatedError, got %T", err)
		}
		if !errors.Is(agg.Unwrap(), context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", agg.Unwrap())
		}
	})
}

func TestAggregatedErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		errs   []FileError
		expect string
	}{
		{
			name:   "single error keeps single-line format",
			errs:   []FileError{{File: "a.json", Err: errors.New("boom")}},
			expect: "[a.json] boom",
		},
		{
			name: "multiple errors are enumerated",
			errs: []FileError{
				{File: "a.json", Err: errors.New("boom")},
				{File: "b.json", Err: errors.New("bang")},
			},
			expect: "2 files failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &AggregatedError{Errors: tt.errs}
			if !strings.Contains(agg.Error(), tt.expect) {
				t.Errorf("expected message to contain %q, got %q", tt.expect, agg.Error())
			}
		})
	}
}

func TestNewFileExecutorFromConfig(t *testing.T) {
	t.Run("applies configured values", func(t *testing.T) {
		executor := NewFileExecutorFromConfig(&config.PerformanceConfig{
			MaxGoroutines:  8,
			TimeoutSeconds: 30,
		})
		if executor.maxConcurrency != 8 {
			t.Errorf("expected maxConcurrency 8, got %d", executor.maxConcurrency)
		}
		if executor.timeout != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", executor.timeout)
		}
	})

	t.Run("falls back to defaults for zero values", func(t *testing.T) {
		executor := NewFileExecutorFromConfig(&config.PerformanceConfig{})
		if executor.maxConcurrency != DefaultMaxConcurrency {
			t.Errorf("expected default concurrency, got %d", executor.maxConcurrency)
		}
		if executor.timeout != DefaultTimeout {
			t.Errorf("expected default timeout, got %v", executor.timeout)
		}
	})
}
