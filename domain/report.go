package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatStructured        OutputFormat = "structured"
	OutputFormatYAML              OutputFormat = "yaml"
	OutputFormatNarrativeDetailed OutputFormat = "narrative-detailed"
	OutputFormatNarrativeSummary  OutputFormat = "narrative-summary"
)

// Severity represents how serious a detected issue is
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank returns the sort rank of a severity, critical first
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// Deduction returns the score deduction applied per match of this severity
func (s Severity) Deduction() int {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 10
	case SeverityLow:
		return 5
	default:
		return 0
	}
}

// Dimension identifies one of the four quality axes
type Dimension string

const (
	DimensionConsistency     Dimension = "consistency"
	DimensionCompleteness    Dimension = "completeness"
	DimensionSecurity        Dimension = "security"
	DimensionMaintainability Dimension = "maintainability"
)

// Issue is a single detected deviation or defect. Immutable after creation.
type Issue struct {
	// Type identifies the check that produced the issue (file-naming, empty-catch, ...)
	Type string `json:"type"`

	// Severity is one of critical, high, medium, low, info
	Severity Severity `json:"severity"`

	// Message is a human-readable description
	Message string `json:"message"`

	// File is the file the issue was found in
	File string `json:"file,omitempty"`

	// Line is the 1-based line number, 0 when not line-specific
	Line int `json:"line,omitempty"`

	// CurrentValue is what was observed
	CurrentValue string `json:"current_value,omitempty"`

	// SuggestedValue is what the check recommends instead
	SuggestedValue string `json:"suggested_value,omitempty"`
}

// DimensionScores holds the per-dimension scores in [0,100]
type DimensionScores struct {
	Consistency     int `json:"consistency"`
	Completeness    int `json:"completeness"`
	Security        int `json:"security"`
	Maintainability int `json:"maintainability"`
}

// DimensionWeights holds the weights used to aggregate dimension scores
type DimensionWeights struct {
	Consistency     float64 `json:"consistency" mapstructure:"consistency" yaml:"consistency"`
	Completeness    float64 `json:"completeness" mapstructure:"completeness" yaml:"completeness"`
	Security        float64 `json:"security" mapstructure:"security" yaml:"security"`
	Maintainability float64 `json:"maintainability" mapstructure:"maintainability" yaml:"maintainability"`
}

// Sum returns the total of all weights
func (w DimensionWeights) Sum() float64 {
	return w.Consistency + w.Completeness + w.Security + w.Maintainability
}

// DefaultDimensionWeights returns the standard aggregation weights
func DefaultDimensionWeights() DimensionWeights {
	return DimensionWeights{
		Consistency:     0.35,
		Completeness:    0.25,
		Security:        0.25,
		Maintainability: 0.15,
	}
}

// FileQualityReport is the validation result for a single file
type FileQualityReport struct {
	// File is the validated file path
	File string `json:"file"`

	// DimensionScores holds the four per-dimension scores
	DimensionScores DimensionScores `json:"dimension_scores"`

	// OverallScore is the weighted aggregate in [0,100]
	OverallScore int `json:"overall_score"`

	// Issues are the detected deviations, sorted by severity
	Issues []Issue `json:"issues"`

	// Suggestions are de-duplicated remediation hints
	Suggestions []string `json:"suggestions"`

	// Passed is true when OverallScore >= threshold (inclusive)
	Passed bool `json:"passed"`

	// Error is set when the file could not be read; such a report
	// scores 0 and still counts toward aggregate statistics
	Error string `json:"error,omitempty"`
}

// RefinementSummary aggregates one validation pass over a file set.
// The orchestrator holds no cross-call state; the caller supplies the
// iteration number and decides whether to invoke another pass.
type RefinementSummary struct {
	Iteration     int                 `json:"iteration"`
	MaxIterations int                 `json:"max_iterations"`
	Threshold     int                 `json:"threshold"`
	Files         []FileQualityReport `json:"files"`
	AverageScore  float64             `json:"average_score"`
	PassedCount   int                 `json:"passed_count"`
	FailedCount   int                 `json:"failed_count"`
	AllPassed     bool                `json:"all_passed"`

	// NeedsRefinement is !AllPassed && Iteration < MaxIterations
	NeedsRefinement bool `json:"needs_refinement"`
}

// SessionState represents the caller-tracked refinement session state
type SessionState string

const (
	SessionStatePending         SessionState = "PENDING"
	SessionStateValidating      SessionState = "VALIDATING"
	SessionStatePassed          SessionState = "PASSED"
	SessionStateNeedsRefinement SessionState = "NEEDS_REFINEMENT"
	SessionStateEscalated       SessionState = "ESCALATED"
)

// State derives the terminal session state from a completed pass.
// ESCALATED means the iteration budget is exhausted and a human should
// take over; the caller is responsible for surfacing that.
func (s *RefinementSummary) State() SessionState {
	if s.AllPassed {
		return SessionStatePassed
	}
	if s.Iteration >= s.MaxIterations {
		return SessionStateEscalated
	}
	return SessionStateNeedsRefinement
}

// ValidationRequest represents a request to validate files against a profile
type ValidationRequest struct {
	// ProjectRoot is the project being validated
	ProjectRoot string

	// TargetFiles are the files to validate. When empty the caller is
	// expected to supply a changed-file list from an external source.
	TargetFiles []string

	// Threshold is the inclusive pass score in [0,100]. A negative
	// value selects the default; zero is a valid (pass-everything)
	// threshold.
	Threshold int

	// Weights are the dimension aggregation weights
	Weights DimensionWeights

	// Iteration is the current 1-based refinement iteration
	Iteration int

	// MaxIterations bounds the refinement session
	MaxIterations int

	// ConfidenceThreshold gates profile-conformance checks
	ConfidenceThreshold float64

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	Verbose      bool
}

// ValidationService scores files against a learned pattern profile
type ValidationService interface {
	// ValidateFile scores a single file. A read failure yields a
	// zero-score failing report, not an error.
	ValidateFile(ctx context.Context, filePath string, profile *PatternProfile, req ValidationRequest) *FileQualityReport

	// Validate runs one pass over all target files and aggregates the
	// results into a RefinementSummary, preserving input order.
	Validate(ctx context.Context, profile *PatternProfile, req ValidationRequest) (*RefinementSummary, error)
}

// OutputFormatter renders refinement results in the requested format
type OutputFormatter interface {
	Write(summary *RefinementSummary, profile *PatternProfile, format OutputFormat, writer io.Writer) error
}

// ProgressManager manages progress display for long-running operations
type ProgressManager interface {
	// StartTask creates a new progress task with a description and total count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress bars are shown
	IsInteractive() bool

	// Close cleans up all tasks
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}

// ExecutableTask is a unit of work the parallel executor can run
type ExecutableTask interface {
	// Name identifies the task in error reports
	Name() string

	// IsEnabled reports whether the task should run
	IsEnabled() bool

	// Execute performs the work
	Execute(ctx context.Context) (interface{}, error)
}

// ParallelExecutor runs tasks concurrently with bounded parallelism
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// BoolPtr returns a pointer to the given bool
func BoolPtr(b bool) *bool {
	return &b
}
