package main

import (
	"fmt"
	"os"

	"github.com/apispec-tools/specgate/app"
	"github.com/apispec-tools/specgate/domain"
	"github.com/apispec-tools/specgate/internal/config"
	"github.com/apispec-tools/specgate/internal/gitstate"
	"github.com/apispec-tools/specgate/service"
	"github.com/spf13/cobra"
)

// ExitError carries a specific process exit code out of a command.
//
// Exit codes:
//
//	0 - run is clean (no error-severity findings)
//	1 - error-severity findings present
//	2 - the run itself failed (tool missing, malformed output, git error)
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// addRunFlags registers the flags shared by the validation commands.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().StringP("target", "t", "", "Target branch to compare against")
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, markdown")
	cmd.Flags().String("min-severity", "", "Minimum severity to render: info, warning, error")
	cmd.Flags().Bool("no-details", false, "Hide per-finding locations")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

// loadRunSetup resolves the configuration and run options from flags.
// Positional args override change detection with an explicit file list.
func loadRunSetup(cmd *cobra.Command, args []string) (*config.Config, app.RunConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, app.RunConfig{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	runCfg := app.DefaultRunConfig()
	runCfg.TargetBranch = cfg.Git.TargetBranch
	runCfg.IncludePatterns = cfg.Analysis.IncludePatterns
	runCfg.ExcludePatterns = cfg.Analysis.ExcludePatterns
	runCfg.ShowDetails = cfg.Output.ShowDetails
	runCfg.Files = args

	if cfg.Output.Format != "" {
		runCfg.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	}
	if cfg.Output.MinSeverity != "" {
		runCfg.MinSeverity = domain.ParseSeverity(cfg.Output.MinSeverity)
	}

	// CLI flags win over the config file.
	if target, _ := cmd.Flags().GetString("target"); target != "" {
		runCfg.TargetBranch = target
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		runCfg.OutputFormat = domain.OutputFormat(format)
	}
	if minSeverity, _ := cmd.Flags().GetString("min-severity"); minSeverity != "" {
		runCfg.MinSeverity = domain.ParseSeverity(minSeverity)
	}
	if noDetails, _ := cmd.Flags().GetBool("no-details"); noDetails {
		runCfg.ShowDetails = false
	}

	return cfg, runCfg, nil
}

// newProgressManager builds a progress manager, falling back to a no-op
// one for machine-readable output or non-interactive environments.
func newProgressManager(cmd *cobra.Command, format domain.OutputFormat) domain.ProgressManager {
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	enabled := !noProgress && format == domain.OutputFormatText
	return service.NewProgressManager(enabled)
}

// workDir is the repository the commands operate on.
func workDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// newGitState builds the change lister and reference state for a run.
func newGitState(runCfg app.RunConfig) *gitstate.GitState {
	return gitstate.New(workDir(), runCfg.TargetBranch)
}
