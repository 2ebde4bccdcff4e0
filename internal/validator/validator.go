// Package validator scores individual files against a learned pattern
// profile plus a fixed catalog of intrinsic quality and security
// heuristics. Each quality dimension is evaluated by an independent
// pure check over (content, path, profile, config); the validator only
// aggregates their results.
package validator

import (
	"math"
	"os"
	"sort"
	"strings"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/constants"
)

// Config holds the validation thresholds and weights
type Config struct {
	// Threshold is the inclusive pass score in [0,100]
	Threshold int

	// Weights are the dimension aggregation weights
	Weights domain.DimensionWeights

	// ConfidenceThreshold gates profile-conformance checks; learned
	// patterns below it are not enforced
	ConfidenceThreshold float64

	// MinLocationSamples is the minimum sample count before structural
	// placement is enforced for an extension
	MinLocationSamples int

	// AliasPrefixes are the import path prefixes classified as alias
	AliasPrefixes []string
}

// DefaultConfig returns the standard validation configuration
func DefaultConfig() Config {
	return Config{
		Threshold:           constants.DefaultThreshold,
		Weights:             domain.DefaultDimensionWeights(),
		ConfidenceThreshold: constants.DefaultConfidenceThreshold,
		MinLocationSamples:  constants.DefaultMinFilesForPattern,
		AliasPrefixes:       []string{"@/", "~/"},
	}
}

// CheckInput is the immutable input handed to every dimension check
type CheckInput struct {
	// Path is the file path as given by the caller
	Path string

	// Name is the file base name
	Name string

	// Extension is the lowercased extension including the dot
	Extension string

	// RelativeDir is the file's directory relative to the project root
	RelativeDir string

	// Content is the raw file content
	Content string

	// Lines is Content split on newlines
	Lines []string

	// Profile is the learned pattern profile, never nil
	Profile *domain.PatternProfile

	// Config is the validation configuration
	Config Config
}

// SubResult is the outcome of one sub-check within a dimension
type SubResult struct {
	// Name identifies the sub-check
	Name string

	// Score is the sub-score in [0,100]
	Score int

	// Issues are the deviations the sub-check found
	Issues []domain.Issue

	// Suggestions are remediation hints, de-duplicated later
	Suggestions []string
}

// DimensionCheck evaluates one quality dimension as a pure function of
// its input
type DimensionCheck interface {
	// Dimension names the axis the check scores
	Dimension() domain.Dimension

	// Check runs the dimension's sub-checks and returns their results
	Check(input CheckInput) []SubResult
}

// Validator runs all dimension checks over a file and aggregates the
// outcome into a FileQualityReport
type Validator struct {
	config Config
	checks []DimensionCheck
}

// New creates a validator with the standard dimension checks
func New(config Config) *Validator {
	if config.Weights.Sum() <= 0 {
		config.Weights = domain.DefaultDimensionWeights()
	}
	if len(config.AliasPrefixes) == 0 {
		config.AliasPrefixes = DefaultConfig().AliasPrefixes
	}
	return &Validator{
		config: config,
		checks: []DimensionCheck{
			&ConsistencyCheck{},
			&CompletenessCheck{},
			&SecurityCheck{},
			&MaintainabilityCheck{},
		},
	}
}

// ValidateFile reads and validates a single file. A read failure yields
// a zero-score failing report with the Error field set; it is never
// silently excluded from aggregates.
func (v *Validator) ValidateFile(filePath, relativeDir string, profile *domain.PatternProfile) *domain.FileQualityReport {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return &domain.FileQualityReport{
			File:        filePath,
			Issues:      []domain.Issue{},
			Suggestions: []string{},
			Passed:      false,
			Error:       domain.NewValidationError("failed to read file", err).Error(),
		}
	}
	return v.ValidateContent(filePath, relativeDir, string(content), profile)
}

// ValidateContent validates raw content against the profile
func (v *Validator) ValidateContent(filePath, relativeDir, content string, profile *domain.PatternProfile) *domain.FileQualityReport {
	input := CheckInput{
		Path:        filePath,
		Name:        baseName(filePath),
		Extension:   lowerExt(filePath),
		RelativeDir: relativeDir,
		Content:     content,
		Lines:       strings.Split(content, "\n"),
		Profile:     profile,
		Config:      v.config,
	}

	report := &domain.FileQualityReport{
		File:        filePath,
		Issues:      []domain.Issue{},
		Suggestions: []string{},
	}

	var suggestions []string
	for _, check := range v.checks {
		results := check.Check(input)

		score := meanScore(results)
		switch check.Dimension() {
		case domain.DimensionConsistency:
			report.DimensionScores.Consistency = score
		case domain.DimensionCompleteness:
			report.DimensionScores.Completeness = score
		case domain.DimensionSecurity:
			report.DimensionScores.Security = score
		case domain.DimensionMaintainability:
			report.DimensionScores.Maintainability = score
		}

		for _, r := range results {
			report.Issues = append(report.Issues, r.Issues...)
			suggestions = append(suggestions, r.Suggestions...)
		}
	}

	report.OverallScore = v.overallScore(report.DimensionScores)
	report.Passed = report.OverallScore >= v.config.Threshold
	report.Suggestions = dedupe(suggestions)

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Severity.Rank() < report.Issues[j].Severity.Rank()
	})

	return report
}

// overallScore computes the weighted aggregate of the dimension scores
func (v *Validator) overallScore(scores domain.DimensionScores) int {
	w := v.config.Weights
	weighted := float64(scores.Consistency)*w.Consistency +
		float64(scores.Completeness)*w.Completeness +
		float64(scores.Security)*w.Security +
		float64(scores.Maintainability)*w.Maintainability
	return int(math.Round(weighted / w.Sum()))
}

// meanScore averages the sub-scores of one dimension, rounded
func meanScore(results []SubResult) int {
	if len(results) == 0 {
		return 100
	}
	sum := 0
	for _, r := range results {
		sum += r.Score
	}
	return int(math.Round(float64(sum) / float64(len(results))))
}

// clampScore floors a running sub-score at 0
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	return score
}

// dedupe removes duplicate suggestions while preserving first-seen order
func dedupe(suggestions []string) []string {
	out := make([]string, 0, len(suggestions))
	seen := make(map[string]bool, len(suggestions))
	for _, s := range suggestions {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// lineOfOffset returns the 1-based line number containing a byte offset
func lineOfOffset(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return strings.Count(content[:offset], "\n") + 1
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, `/\`); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func lowerExt(path string) string {
	name := baseName(path)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return strings.ToLower(name[idx:])
	}
	return ""
}
