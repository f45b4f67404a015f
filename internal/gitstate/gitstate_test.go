package gitstate

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/apispec-tools/specgate/domain"
)

// newRepo builds a throwaway repository with a main branch containing
// base.json and a feature branch that edits base.json and adds new.json.
func newRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	run("init", "-b", "main")
	write("base.json", `{"v":1}`)
	run("add", ".")
	run("commit", "-m", "base")

	run("checkout", "-b", "feature")
	write("base.json", `{"v":2}`)
	write("new.json", `{}`)
	run("add", ".")
	run("commit", "-m", "feature")

	return dir
}

func TestChangedAndNewFiles(t *testing.T) {
	dir := newRepo(t)
	g := New(dir, "main")
	ctx := context.Background()

	changed, err := g.ChangedFiles(ctx)
	if err != nil {
		t.Fatalf("ChangedFiles() error: %v", err)
	}
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed files, got %v", changed)
	}

	added, err := g.NewFiles(ctx)
	if err != nil {
		t.Fatalf("NewFiles() error: %v", err)
	}
	if len(added) != 1 || added[0] != "new.json" {
		t.Errorf("NewFiles() = %v, want [new.json]", added)
	}
}

func TestCheckoutAndRestore(t *testing.T) {
	dir := newRepo(t)
	g := New(dir, "main")
	ctx := context.Background()

	if err := g.Checkout(ctx); err != nil {
		t.Fatalf("Checkout() error: %v", err)
	}

	// The reference state must not contain the feature-only file.
	if _, err := os.Stat(filepath.Join(dir, "new.json")); !os.IsNotExist(err) {
		t.Error("new.json should not exist on the reference branch")
	}

	if err := g.Restore(ctx); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "new.json")); err != nil {
		t.Errorf("new.json should exist after restore: %v", err)
	}

	// Restore with no active checkout is a no-op.
	if err := g.Restore(ctx); err != nil {
		t.Errorf("idle Restore() error: %v", err)
	}
}

func TestCheckout_UnknownBranch(t *testing.T) {
	dir := newRepo(t)
	g := New(dir, "no-such-branch")

	err := g.Checkout(context.Background())
	if err == nil {
		t.Fatal("expected an error for an unknown reference branch")
	}
	if !errors.Is(err, domain.ErrReferenceStateUnavailable) {
		t.Errorf("expected ErrReferenceStateUnavailable, got %v", err)
	}
}

func TestFileAtTarget(t *testing.T) {
	dir := newRepo(t)
	g := New(dir, "main")
	ctx := context.Background()

	dest, err := g.FileAtTarget(ctx, "base.json", t.TempDir())
	if err != nil {
		t.Fatalf("FileAtTarget() error: %v", err)
	}
	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read %s: %v", dest, err)
	}
	if string(content) != `{"v":1}` {
		t.Errorf("content = %q, want the target-branch version", content)
	}

	if !g.ExistsAtTarget(ctx, "base.json") {
		t.Error("base.json should exist at target")
	}
	if g.ExistsAtTarget(ctx, "new.json") {
		t.Error("new.json should not exist at target")
	}
}
