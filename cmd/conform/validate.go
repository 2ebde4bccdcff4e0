package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conformal-tools/conform/app"
	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/config"
)

var (
	validateProjectRoot   string
	validateConfigPath    string
	validateFormat        string
	validateJSON          bool
	validateThreshold     int
	validateIteration     int
	validateMaxIterations int
	validateCachePath     string
	validateAutoBuild     bool
	validateForceRefresh  bool
	validateVerbose       bool
	validateOutputPath    string
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate files against the learned project conventions",
		Long: `Validate files against the conventions learned from the project.

Positional arguments are the files (or directories) to score. With no
arguments every source file under the project root is validated.

Examples:
  conform validate
  conform validate src/components/UserCard.tsx
  conform validate --path ../webapp src/
  conform validate --json src/api/
  conform validate --iteration 2 src/utils/format.ts`,
		RunE: runValidate,
	}

	cmd.Flags().StringVarP(&validateProjectRoot, "path", "p", ".",
		"Project root to learn conventions from")
	cmd.Flags().StringVarP(&validateConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&validateFormat, "format", "f", "",
		"Output format: detailed, summary, json, yaml")
	cmd.Flags().BoolVar(&validateJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().IntVar(&validateThreshold, "threshold", 0,
		"Minimum passing score (overrides config)")
	cmd.Flags().IntVar(&validateIteration, "iteration", 1,
		"Current refinement iteration (1-based)")
	cmd.Flags().IntVar(&validateMaxIterations, "max-iterations", 0,
		"Iteration budget before escalation (overrides config)")
	cmd.Flags().StringVar(&validateCachePath, "profile-cache", "",
		"Pattern profile cache location (overrides config)")
	cmd.Flags().BoolVar(&validateAutoBuild, "auto-build", true,
		"Build the pattern profile on a cache miss")
	cmd.Flags().BoolVar(&validateForceRefresh, "refresh", false,
		"Rebuild the pattern profile, ignoring the cache")
	cmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false,
		"Include passing files in the report")
	cmd.Flags().StringVarP(&validateOutputPath, "output", "o", "",
		"Write the report to a file instead of stdout")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithTarget(validateConfigPath, validateProjectRoot)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags explicitly set on the CLI override the config file
	if cmd.Flags().Changed("threshold") {
		cfg.Validation.Threshold = validateThreshold
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.Validation.MaxIterations = validateMaxIterations
	}
	if validateCachePath != "" {
		cfg.Cache.Path = validateCachePath
	}

	format, err := resolveFormat(validateFormat, validateJSON, cfg.Output.Format)
	if err != nil {
		return err
	}

	writer := os.Stdout
	if validateOutputPath != "" {
		file, err := os.Create(validateOutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	interactive := format != domain.OutputFormatStructured &&
		format != domain.OutputFormatYAML && validateOutputPath == ""

	uc := app.NewValidateUseCase(cfg, interactive, nil)
	_, err = uc.Execute(context.Background(), app.ValidateConfig{
		ProjectRoot:  validateProjectRoot,
		TargetFiles:  args,
		Iteration:    validateIteration,
		ForceRefresh: validateForceRefresh,
		AutoBuild:    domain.BoolPtr(validateAutoBuild),
		OutputFormat: format,
		OutputWriter: writer,
		Verbose:      validateVerbose,
	})
	if err != nil {
		return err
	}

	if validateOutputPath != "" {
		fmt.Printf("Report saved to: %s\n", validateOutputPath)
	}

	return nil
}

// resolveFormat maps the CLI spelling of a format to the domain value,
// falling back to the configured default
func resolveFormat(flag string, jsonShorthand bool, configured string) (domain.OutputFormat, error) {
	if jsonShorthand {
		return domain.OutputFormatStructured, nil
	}
	name := flag
	if name == "" {
		name = configured
	}
	switch name {
	case "", "detailed", string(domain.OutputFormatNarrativeDetailed):
		return domain.OutputFormatNarrativeDetailed, nil
	case "summary", string(domain.OutputFormatNarrativeSummary):
		return domain.OutputFormatNarrativeSummary, nil
	case "json", string(domain.OutputFormatStructured):
		return domain.OutputFormatStructured, nil
	case "yaml", "yml":
		return domain.OutputFormatYAML, nil
	default:
		return "", domain.NewUnsupportedFormatError(name)
	}
}
