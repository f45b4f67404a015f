package main

import (
	"context"
	"os"

	"github.com/apispec-tools/specgate/app"
	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/classify"
	"github.com/apispec-tools/specgate/internal/constants"
	"github.com/apispec-tools/specgate/internal/gitstate"
	"github.com/apispec-tools/specgate/internal/toolrunner"
	"github.com/apispec-tools/specgate/service"
	"github.com/spf13/cobra"
)

func breakingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breaking [file...]",
		Short: "Detect breaking API changes in changed specification files",
		Long: `Run the API-diff tool over every spec file the pull request changes,
comparing each file with its counterpart on the target branch. Newly
added files are skipped; they have nothing to be compared against.

Exit codes:
  0 - No breaking changes at error severity
  1 - Breaking changes at error severity present
  2 - Run error (tool missing, reference state unavailable, git error)

Examples:
  # Check the files changed relative to the configured target branch
  specgate breaking

  # Markdown output for a PR comment
  specgate breaking --format markdown

  # Compare against a release branch
  specgate breaking --target release/v2`,
		RunE:          runBreaking,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addRunFlags(cmd)
	return cmd
}

func runBreaking(cmd *cobra.Command, args []string) error {
	cfg, runCfg, err := loadRunSetup(cmd, args)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	pm := newProgressManager(cmd, runCfg.OutputFormat)
	defer pm.Close()

	git := newGitState(runCfg)

	tmpDir, err := os.MkdirTemp("", "specgate-before-")
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	defer os.RemoveAll(tmpDir)

	executor := service.NewFileExecutorWithProgress(&cfg.Performance, pm)
	runner := diffRunner(toolrunner.New(cfg.Tools.Diff), git, tmpDir)
	svc := service.NewValidationService(runner, classify.DiffFinding, executor)

	uc := app.NewBreakingUseCase(svc, service.NewReportBuilder(), service.NewOutputFormatter(), git)
	summary, err := uc.Execute(context.Background(), runCfg)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if !summary.IsClean {
		return &ExitError{Code: 1}
	}
	return nil
}

// diffRunner wraps the diff tool so each invocation sees both the
// current file and its target-branch counterpart. Counterparts are
// materialized into per-file directories under tmpDir; files may share
// a base name across directories.
func diffRunner(diff *toolrunner.Runner, git *gitstate.GitState, tmpDir string) domain.ToolRunner {
	return domain.RunFunc(func(ctx context.Context, file string) (string, error) {
		dir, err := os.MkdirTemp(tmpDir, "f")
		if err != nil {
			return "", domain.NewToolInvocationError(file, err)
		}

		before, err := git.FileAtTarget(ctx, file, dir)
		if err != nil {
			return "", err
		}

		return diff.RunWith(ctx, file, map[string]string{
			constants.PlaceholderFile:   file,
			constants.PlaceholderBefore: before,
		})
	})
}
