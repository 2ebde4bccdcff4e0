package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/validator"
)

// ValidationServiceImpl implements domain.ValidationService. Files are
// scored concurrently through the parallel executor; results keep the
// input order regardless of completion order.
type ValidationServiceImpl struct {
	executor      domain.ParallelExecutor
	aliasPrefixes []string
	logger        *slog.Logger
}

// NewValidationService creates a validation service
func NewValidationService(executor domain.ParallelExecutor, aliasPrefixes []string, logger *slog.Logger) *ValidationServiceImpl {
	if executor == nil {
		executor = NewParallelExecutor()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationServiceImpl{
		executor:      executor,
		aliasPrefixes: aliasPrefixes,
		logger:        logger,
	}
}

// validatorConfig derives a validator configuration from a request
func (s *ValidationServiceImpl) validatorConfig(req domain.ValidationRequest) validator.Config {
	cfg := validator.DefaultConfig()
	if req.Threshold >= 0 {
		cfg.Threshold = req.Threshold
	}
	if req.Weights.Sum() > 0 {
		cfg.Weights = req.Weights
	}
	if req.ConfidenceThreshold > 0 {
		cfg.ConfidenceThreshold = req.ConfidenceThreshold
	}
	if len(s.aliasPrefixes) > 0 {
		cfg.AliasPrefixes = s.aliasPrefixes
	}
	return cfg
}

// ValidateFile scores a single file against the profile. A read
// failure yields a zero-score failing report, not an error.
func (s *ValidationServiceImpl) ValidateFile(ctx context.Context, filePath string, profile *domain.PatternProfile, req domain.ValidationRequest) *domain.FileQualityReport {
	v := validator.New(s.validatorConfig(req))
	return v.ValidateFile(filePath, relativeDir(req.ProjectRoot, filePath), profile)
}

// fileValidationTask scores one file and writes the report into its
// own result slot, so no synchronization is needed across tasks
type fileValidationTask struct {
	path      string
	validator *validator.Validator
	profile   *domain.PatternProfile
	root      string
	slot      *domain.FileQualityReport
}

func (t *fileValidationTask) Name() string { return t.path }

func (t *fileValidationTask) IsEnabled() bool { return true }

func (t *fileValidationTask) Execute(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	*t.slot = *t.validator.ValidateFile(t.path, relativeDir(t.root, t.path), t.profile)
	return nil, nil
}

// Validate runs one pass over all target files and aggregates the
// results. Per-file read failures are contained in their reports; the
// pass itself only fails on cancellation or an empty target set.
func (s *ValidationServiceImpl) Validate(ctx context.Context, profile *domain.PatternProfile, req domain.ValidationRequest) (*domain.RefinementSummary, error) {
	if len(req.TargetFiles) == 0 {
		return nil, domain.NewInvalidInputError("no target files to validate", nil)
	}

	v := validator.New(s.validatorConfig(req))

	reports := make([]domain.FileQualityReport, len(req.TargetFiles))
	tasks := make([]domain.ExecutableTask, len(req.TargetFiles))
	for i, path := range req.TargetFiles {
		tasks[i] = &fileValidationTask{
			path:      path,
			validator: v,
			profile:   profile,
			root:      req.ProjectRoot,
			slot:      &reports[i],
		}
	}

	if err := s.executor.Execute(ctx, tasks); err != nil {
		// A cancelled or timed-out batch never produced real reports;
		// surface the context error so callers treat it as operational
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domain.NewValidationError("validation pass failed", err)
	}

	summary := Summarize(reports, req)
	s.logger.Info("validation pass complete",
		"iteration", summary.Iteration,
		"passed", summary.PassedCount,
		"failed", summary.FailedCount,
		"average", summary.AverageScore)
	return summary, nil
}

// relativeDir returns the directory of path relative to root, in slash
// form, falling back to the raw directory when root does not contain it
func relativeDir(root, path string) string {
	dir := filepath.Dir(path)
	if root == "" {
		return filepath.ToSlash(dir)
	}
	if rel, err := filepath.Rel(root, dir); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(dir)
}
