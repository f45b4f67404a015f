package toolrunner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/config"
)

func TestRunner_SubstitutesFilePlaceholder(t *testing.T) {
	r := New(config.ToolConfig{Command: "echo", Args: []string{"linting", "{file}"}})

	out, err := r.Run(context.Background(), "specs/a.json")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out, "specs/a.json") {
		t.Errorf("output %q should contain the substituted file path", out)
	}
}

func TestRunner_RunWithExtraPlaceholders(t *testing.T) {
	r := New(config.ToolConfig{Command: "echo", Args: []string{"{before}", "{file}"}})

	out, err := r.RunWith(context.Background(), "new.json", map[string]string{
		"{file}":   "new.json",
		"{before}": "old.json",
	})
	if err != nil {
		t.Fatalf("RunWith() error: %v", err)
	}
	if !strings.Contains(out, "old.json") || !strings.Contains(out, "new.json") {
		t.Errorf("output %q should contain both substitutions", out)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	r := New(config.ToolConfig{Command: "specgate-no-such-binary"})

	_, err := r.Run(context.Background(), "specs/a.json")
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
	if !errors.Is(err, domain.ErrToolInvocationFailed) {
		t.Errorf("expected ErrToolInvocationFailed, got %v", err)
	}
}

func TestRunner_ContextCancellation(t *testing.T) {
	r := New(config.ToolConfig{Command: "sleep", Args: []string{"5"}})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, "specs/a.json")
	if err == nil {
		t.Fatal("expected an error for a timed-out tool")
	}
	if !errors.Is(err, domain.ErrToolInvocationFailed) {
		t.Errorf("expected ErrToolInvocationFailed, got %v", err)
	}
}

func TestRunner_NonZeroExitWithOutputSucceeds(t *testing.T) {
	// sh exits 3 but leaves findings on stdout; the run must succeed.
	r := New(config.ToolConfig{
		Command: "sh",
		Args:    []string{"-c", `echo '{"type":"error"}'; exit 3`},
	})

	out, err := r.Run(context.Background(), "specs/a.json")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out, `"type"`) {
		t.Errorf("expected tool output, got %q", out)
	}
}
