package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conformal-tools/conform/app"
	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/config"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkProjectRoot string
	checkConfigPath  string
	checkThreshold   int
	checkJSON        bool
	checkVerbose     bool
	checkRefresh     bool
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Convention gate for CI/CD pipelines",
		Long: `Score files against the learned project conventions and fail the
build when any file scores below the threshold.

Exit codes:
  0 - All files meet the quality threshold
  1 - One or more files scored below the threshold
  2 - Operational error (file not found, config error, etc.)

Examples:
  # Gate the whole project
  conform check

  # Gate only the changed files
  conform check src/api/client.ts src/api/types.ts

  # Stricter threshold than the config
  conform check --threshold 85 src/

  # JSON output for machine parsing
  conform check --json src/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().StringVarP(&checkProjectRoot, "path", "p", ".",
		"Project root to learn conventions from")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().IntVar(&checkThreshold, "threshold", 0,
		"Minimum passing score (overrides config)")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show per-file detail including passing files")
	cmd.Flags().BoolVar(&checkRefresh, "refresh", false,
		"Rebuild the pattern profile, ignoring the cache")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithTarget(checkConfigPath, checkProjectRoot)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	// Apply config values for flags not explicitly set on CLI
	if cmd.Flags().Changed("threshold") {
		cfg.Validation.Threshold = checkThreshold
	}

	format := domain.OutputFormatNarrativeSummary
	if checkJSON {
		format = domain.OutputFormatStructured
	}

	uc := app.NewValidateUseCase(cfg, false, nil)
	summary, err := uc.Execute(context.Background(), app.ValidateConfig{
		ProjectRoot:  checkProjectRoot,
		TargetFiles:  args,
		Iteration:    1,
		ForceRefresh: checkRefresh,
		OutputFormat: format,
		Verbose:      checkVerbose,
	})
	if err != nil {
		var domainErr domain.DomainError
		if errors.As(err, &domainErr) {
			return &CheckExitError{Code: 2, Message: domainErr.Error()}
		}
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	if !summary.AllPassed {
		// Report already printed by the formatter
		return &CheckExitError{Code: 1, Message: ""}
	}
	return nil
}
