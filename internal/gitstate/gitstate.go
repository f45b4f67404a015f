// Package gitstate is the source-control edge of the engine: it lists
// files a pull request changed, detects newly added files, and
// materializes the target-branch reference state for "before" runs.
// The engine core treats branch names and file paths as opaque strings.
package gitstate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/apispec-tools/specgate/domain"
)

// GitState runs git against one repository working tree.
type GitState struct {
	repoDir string
	target  string

	// checkedOutFrom remembers the ref to restore after a reference
	// checkout; empty when no checkout is active.
	checkedOutFrom string
}

// New creates a GitState for the repository at repoDir with the given
// target (reference) branch.
func New(repoDir, targetBranch string) *GitState {
	return &GitState{repoDir: repoDir, target: targetBranch}
}

// ChangedFiles returns the paths changed between the target branch and
// HEAD, relative to the repository root.
func (g *GitState) ChangedFiles(ctx context.Context) ([]string, error) {
	out, err := g.git(ctx, "diff", "--name-only", g.target+"...HEAD")
	if err != nil {
		return nil, fmt.Errorf("listing changed files against %s: %w", g.target, err)
	}
	return splitLines(out), nil
}

// NewFiles returns the changed paths that do not exist on the target
// branch. These have no meaningful "before" state and are excluded from
// diffing entirely.
func (g *GitState) NewFiles(ctx context.Context) ([]string, error) {
	out, err := g.git(ctx, "diff", "--name-only", "--diff-filter=A", g.target+"...HEAD")
	if err != nil {
		return nil, fmt.Errorf("listing new files against %s: %w", g.target, err)
	}
	return splitLines(out), nil
}

// Checkout implements domain.ReferenceState: it switches the working
// tree to the target branch, remembering the current ref for Restore.
// Failure is wrapped as ErrReferenceStateUnavailable and is always
// fatal to a dual run.
func (g *GitState) Checkout(ctx context.Context) error {
	current, err := g.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return domain.NewReferenceStateError(g.target, err)
	}
	current = strings.TrimSpace(current)
	if current == "HEAD" {
		// Detached head: pin the exact commit instead.
		current, err = g.git(ctx, "rev-parse", "HEAD")
		if err != nil {
			return domain.NewReferenceStateError(g.target, err)
		}
		current = strings.TrimSpace(current)
	}

	if _, err := g.git(ctx, "checkout", g.target); err != nil {
		return domain.NewReferenceStateError(g.target, err)
	}
	g.checkedOutFrom = current
	return nil
}

// Restore implements domain.ReferenceState: it returns the working tree
// to the ref recorded by Checkout. Restoring without an active checkout
// is a no-op.
func (g *GitState) Restore(ctx context.Context) error {
	if g.checkedOutFrom == "" {
		return nil
	}
	if _, err := g.git(ctx, "checkout", g.checkedOutFrom); err != nil {
		return domain.NewReferenceStateError(g.checkedOutFrom, err)
	}
	g.checkedOutFrom = ""
	return nil
}

// FileAtTarget writes the target-branch content of path into dir and
// returns the written file's path. Used by the breaking-change flow,
// which feeds the old and new file to the diff tool side by side.
func (g *GitState) FileAtTarget(ctx context.Context, path, dir string) (string, error) {
	out, err := g.git(ctx, "show", g.target+":"+path)
	if err != nil {
		return "", domain.NewReferenceStateError(g.target+":"+path, err)
	}

	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.WriteFile(dest, []byte(out), 0644); err != nil {
		return "", domain.NewReferenceStateError(g.target+":"+path, err)
	}
	return dest, nil
}

// ExistsAtTarget reports whether path exists on the target branch.
func (g *GitState) ExistsAtTarget(ctx context.Context, path string) bool {
	_, err := g.git(ctx, "cat-file", "-e", g.target+":"+path)
	return err == nil
}

func (g *GitState) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repoDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %v: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
