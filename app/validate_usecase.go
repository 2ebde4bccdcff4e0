package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/config"
	"github.com/conformal-tools/conform/internal/profiler"
	"github.com/conformal-tools/conform/service"
)

// ValidateConfig holds configuration for the validate use case
type ValidateConfig struct {
	// ProjectRoot is the project being validated
	ProjectRoot string

	// TargetFiles are the files to score. Empty means every module
	// file under the project root.
	TargetFiles []string

	// Iteration is the current 1-based refinement iteration
	Iteration int

	// ForceRefresh rebuilds the pattern profile even when a fresh
	// cache exists
	ForceRefresh bool

	// AutoBuild controls whether a profile cache miss triggers a
	// rebuild. Nil means true.
	AutoBuild *bool

	// Output options
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
	Verbose      bool
}

// DefaultValidateConfig returns default configuration
func DefaultValidateConfig() ValidateConfig {
	return ValidateConfig{
		ProjectRoot:  ".",
		Iteration:    1,
		OutputFormat: domain.OutputFormatNarrativeDetailed,
		OutputWriter: os.Stdout,
	}
}

// ValidateUseCase orchestrates a full validation pass: collect, learn
// patterns, score files, and render the outcome
type ValidateUseCase struct {
	cfg          *config.Config
	collector    *service.Collector
	orchestrator *service.RefinementOrchestrator
	progress     domain.ProgressManager
	logger       *slog.Logger
}

// NewValidateUseCase wires the services for a validation pass from the
// loaded configuration
func NewValidateUseCase(cfg *config.Config, showProgress bool, logger *slog.Logger) *ValidateUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	collector := service.NewCollector(cfg.Collector, logger)
	profiles := service.NewProfileService(collector, cfg.Cache, logger)

	progress := service.NewProgressManager(showProgress)
	executor := service.NewParallelExecutorWithProgress(progress)
	validation := service.NewValidationService(executor, cfg.Imports.AliasPrefixes, logger)

	return &ValidateUseCase{
		cfg:          cfg,
		collector:    collector,
		orchestrator: service.NewRefinementOrchestrator(profiles, validation, logger),
		progress:     progress,
		logger:       logger,
	}
}

// Execute performs one refinement pass and writes the report
func (uc *ValidateUseCase) Execute(ctx context.Context, vc ValidateConfig) (*domain.RefinementSummary, error) {
	root, err := filepath.Abs(vc.ProjectRoot)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project root", err)
	}

	targets, err := uc.resolveTargets(ctx, root, vc.TargetFiles)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, domain.NewInvalidInputError("no files to validate under "+root, nil)
	}

	profileReq := domain.ProfileRequest{
		ProjectRoot:         root,
		CachePath:           uc.cfg.Cache.Path,
		ForceRefresh:        vc.ForceRefresh,
		AutoBuild:           vc.AutoBuild,
		MinFilesForPattern:  uc.cfg.Profile.MinFilesForPattern,
		ConfidenceThreshold: uc.cfg.Profile.ConfidenceThreshold,
	}

	iteration := vc.Iteration
	if iteration < 1 {
		iteration = 1
	}

	validationReq := domain.ValidationRequest{
		ProjectRoot:         root,
		TargetFiles:         targets,
		Threshold:           uc.cfg.Validation.Threshold,
		Weights:             uc.cfg.Validation.Weights,
		Iteration:           iteration,
		MaxIterations:       uc.cfg.Validation.MaxIterations,
		ConfidenceThreshold: uc.cfg.Profile.ConfidenceThreshold,
		OutputFormat:        vc.OutputFormat,
		Verbose:             vc.Verbose,
	}

	summary, profile, err := uc.orchestrator.RunPass(ctx, profileReq, validationReq)
	uc.progress.Close()
	if err != nil {
		return nil, err
	}

	writer := vc.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	formatter := service.NewOutputFormatter()
	formatter.Verbose = vc.Verbose
	if err := formatter.Write(summary, profile, vc.OutputFormat, writer); err != nil {
		return nil, err
	}

	return summary, nil
}

// resolveTargets expands the requested targets into concrete file
// paths. Explicit files are taken as given; explicit directories and
// the empty set go through the collector, filtered to module files.
func (uc *ValidateUseCase) resolveTargets(ctx context.Context, root string, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return uc.collectModuleFiles(ctx, root)
	}

	var targets []string
	for _, target := range requested {
		if !filepath.IsAbs(target) {
			target = filepath.Join(root, target)
		}
		info, err := os.Stat(target)
		if err != nil {
			return nil, domain.NewFileNotFoundError(target, err)
		}
		if info.IsDir() {
			files, err := uc.collectModuleFiles(ctx, target)
			if err != nil {
				return nil, err
			}
			targets = append(targets, files...)
			continue
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func (uc *ValidateUseCase) collectModuleFiles(ctx context.Context, root string) ([]string, error) {
	records, err := uc.collector.Collect(ctx, root)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, r := range records {
		if profiler.IsModuleFile(r.Extension) {
			files = append(files, r.Path)
		}
	}
	return files, nil
}
