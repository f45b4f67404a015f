package main

import (
	"context"

	"github.com/apispec-tools/specgate/app"
	"github.com/apispec-tools/specgate/internal/classify"
	"github.com/apispec-tools/specgate/internal/toolrunner"
	"github.com/apispec-tools/specgate/service"
	"github.com/spf13/cobra"
)

func lintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [file...]",
		Short: "Lint changed specification files",
		Long: `Run the specification linter over every spec file the pull request
changes and gate on the aggregated severities.

Without arguments the changed files are detected from git; pass explicit
file paths to skip change detection.

Exit codes:
  0 - No error-severity findings
  1 - Error-severity findings present
  2 - Run error (tool missing, malformed output, git error)

Examples:
  # Lint the files changed relative to the configured target branch
  specgate lint

  # Lint specific files
  specgate lint specification/storage/account.json

  # Markdown output for a PR comment
  specgate lint --format markdown

  # Compare against a different branch
  specgate lint --target release/v2`,
		RunE:          runLint,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addRunFlags(cmd)
	return cmd
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, runCfg, err := loadRunSetup(cmd, args)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	pm := newProgressManager(cmd, runCfg.OutputFormat)
	defer pm.Close()

	git := newGitState(runCfg)
	executor := service.NewFileExecutorWithProgress(&cfg.Performance, pm)
	runner := toolrunner.New(cfg.Tools.Linter)
	svc := service.NewValidationService(runner, classify.LintFinding, executor)

	uc := app.NewLintUseCase(svc, service.NewReportBuilder(), service.NewOutputFormatter(), git)
	summary, err := uc.Execute(context.Background(), runCfg)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if !summary.IsClean {
		return &ExitError{Code: 1}
	}
	return nil
}
