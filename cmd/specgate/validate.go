package main

import (
	"context"

	"github.com/apispec-tools/specgate/app"
	"github.com/apispec-tools/specgate/internal/classify"
	"github.com/apispec-tools/specgate/internal/toolrunner"
	"github.com/apispec-tools/specgate/service"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate examples in changed specification files",
		Long: `Run the model validator over every spec file the pull request changes.
A file whose validation crashes is reported and skipped; the remaining
files are still validated.

With --against, each file is validated twice: once in its current state
and once as it exists on the target branch, so pre-existing issues can
be told apart from new ones. The comparison run carries no pass/fail
decision.

Exit codes:
  0 - No error-severity findings (always 0 with --against)
  1 - Error-severity findings present
  2 - Run error (tool missing, reference state unavailable, git error)

Examples:
  # Validate the files changed relative to the configured target branch
  specgate validate

  # Compare current findings against the target branch state
  specgate validate --against

  # Validate a specific file as JSON
  specgate validate --format json specification/storage/account.json`,
		RunE:          runValidate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("against", false, "Also validate the target-branch state of each file")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, runCfg, err := loadRunSetup(cmd, args)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	pm := newProgressManager(cmd, runCfg.OutputFormat)
	defer pm.Close()

	git := newGitState(runCfg)
	executor := service.NewFileExecutorWithProgress(&cfg.Performance, pm)
	runner := toolrunner.New(cfg.Tools.Validator)
	svc := service.NewValidationService(runner, classify.ModelFinding, executor)

	uc := app.NewValidateUseCase(svc, service.NewReportBuilder(), service.NewOutputFormatter(), git)
	if against, _ := cmd.Flags().GetBool("against"); against {
		uc.WithDualRun(service.NewDualRunService(svc, git, executor))
	}

	summary, err := uc.Execute(context.Background(), runCfg)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if summary != nil && !summary.IsClean {
		return &ExitError{Code: 1}
	}
	return nil
}
