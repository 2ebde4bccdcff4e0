package service

import (
	"context"
	"log/slog"
	"math"

	"github.com/conformal-tools/conform/domain"
)

// Summarize aggregates one validation pass into a RefinementSummary.
// Zero-score error reports count toward the average and the failed
// total like any other report.
func Summarize(reports []domain.FileQualityReport, req domain.ValidationRequest) *domain.RefinementSummary {
	summary := &domain.RefinementSummary{
		Iteration:     req.Iteration,
		MaxIterations: req.MaxIterations,
		Threshold:     req.Threshold,
		Files:         reports,
	}

	total := 0
	for _, report := range reports {
		total += report.OverallScore
		if report.Passed {
			summary.PassedCount++
		} else {
			summary.FailedCount++
		}
	}
	if len(reports) > 0 {
		avg := float64(total) / float64(len(reports))
		summary.AverageScore = math.Round(avg*10) / 10
	}

	summary.AllPassed = summary.FailedCount == 0 && len(reports) > 0
	summary.NeedsRefinement = !summary.AllPassed && summary.Iteration < summary.MaxIterations
	return summary
}

// RefinementOrchestrator drives repeated validation passes over a file
// set. It holds no per-file state between passes; the caller applies
// fixes between iterations and the orchestrator re-validates.
type RefinementOrchestrator struct {
	profiles   domain.ProfileService
	validation domain.ValidationService
	logger     *slog.Logger
}

// NewRefinementOrchestrator creates an orchestrator over the given services
func NewRefinementOrchestrator(profiles domain.ProfileService, validation domain.ValidationService, logger *slog.Logger) *RefinementOrchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefinementOrchestrator{
		profiles:   profiles,
		validation: validation,
		logger:     logger,
	}
}

// RunPass executes a single refinement iteration: load or build the
// profile, validate the targets, and derive the session state. The
// profile is returned alongside the summary so callers can render both.
func (o *RefinementOrchestrator) RunPass(ctx context.Context, profileReq domain.ProfileRequest, validationReq domain.ValidationRequest) (*domain.RefinementSummary, *domain.PatternProfile, error) {
	profile, err := o.profiles.LoadOrBuild(ctx, profileReq)
	if err != nil {
		return nil, nil, err
	}

	summary, err := o.validation.Validate(ctx, profile, validationReq)
	if err != nil {
		return nil, nil, err
	}

	state := summary.State()
	o.logger.Info("refinement pass finished",
		"iteration", summary.Iteration,
		"state", string(state),
		"all_passed", summary.AllPassed,
		"needs_refinement", summary.NeedsRefinement)

	if state == domain.SessionStateEscalated {
		o.logger.Warn("iteration budget exhausted, escalating to human review",
			"iteration", summary.Iteration, "max_iterations", summary.MaxIterations,
			"failed", summary.FailedCount)
	}

	return summary, profile, nil
}
