// Package toolrunner wraps the external validation tools behind the
// domain.ToolRunner capability. The engine above it never learns which
// binary produced a chunk.
package toolrunner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/config"
	"github.com/apispec-tools/specgate/internal/constants"
)

// Runner invokes one configured external tool per file.
//
// The configured args may carry placeholders ({file}, {before}) that are
// substituted per invocation. Validation tools conventionally exit
// non-zero when they found issues, so a non-zero exit with output on
// stdout is a successful run; only a start failure or a non-zero exit
// with nothing to parse counts as ToolInvocationFailed.
type Runner struct {
	command string
	args    []string
}

// New creates a Runner from a tool configuration.
func New(tool config.ToolConfig) *Runner {
	return &Runner{command: tool.Command, args: tool.Args}
}

// Run implements domain.ToolRunner, substituting {file}.
func (r *Runner) Run(ctx context.Context, filePath string) (string, error) {
	return r.RunWith(ctx, filePath, map[string]string{constants.PlaceholderFile: filePath})
}

// RunWith invokes the tool with the given placeholder substitutions.
// file names the file the invocation is attributed to in errors.
func (r *Runner) RunWith(ctx context.Context, file string, vars map[string]string) (string, error) {
	args := make([]string, len(r.args))
	for i, arg := range r.args {
		args[i] = substitute(arg, vars)
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", domain.NewToolInvocationError(file, ctxErr)
	}
	if err != nil && stdout.Len() == 0 {
		return "", domain.NewToolInvocationError(file, err)
	}
	return stdout.String(), nil
}

func substitute(arg string, vars map[string]string) string {
	for placeholder, value := range vars {
		arg = strings.ReplaceAll(arg, placeholder, value)
	}
	return arg
}
