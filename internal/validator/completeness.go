package validator

import (
	"fmt"
	"regexp"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/profiler"
)

// Deductions for completeness sub-checks
const (
	docRatioDeduction       = 15
	emptyCatchDeduction     = 15
	consoleCallDeduction    = 5
	unhandledAsyncDeduction = 10

	// docRatioTolerance is how far below the project-wide ratio a file
	// may fall before it is flagged
	docRatioTolerance = 0.3
)

var (
	emptyCatchRe = regexp.MustCompile(`catch\s*(?:\([^)]*\)\s*)?\{\s*\}|except[^:\n]*:\s*\n\s*pass\b`)

	consoleCallRe = regexp.MustCompile(`\bconsole\.(?:log|info|warn|error|debug)\s*\(`)

	// asyncFuncRe marks the start of an asynchronous function
	asyncFuncRe = regexp.MustCompile(`\basync\s+(?:function\b|[A-Za-z_$][\w$]*\s*\(|\([^)]*\)\s*=>|[A-Za-z_$][\w$]*\s*=>)|\basync\s+def\b`)

	awaitRe      = regexp.MustCompile(`\bawait\b`)
	errorGuardRe = regexp.MustCompile(`\btry\b|\.catch\s*\(`)
)

// CompletenessCheck scores documentation coverage and error-handling
// hygiene against the learned profile
type CompletenessCheck struct{}

// Dimension implements DimensionCheck
func (c *CompletenessCheck) Dimension() domain.Dimension {
	return domain.DimensionCompleteness
}

// Check implements DimensionCheck
func (c *CompletenessCheck) Check(input CheckInput) []SubResult {
	return []SubResult{
		c.checkDocumentation(input),
		c.checkErrorHandling(input),
	}
}

// checkDocumentation flags files whose function-documentation ratio
// falls well below the project-wide ratio. Only evaluated when the file
// declares more than 2 functions, so tiny files are not penalized.
func (c *CompletenessCheck) checkDocumentation(input CheckInput) SubResult {
	result := SubResult{Name: "documentation", Score: 100}

	total, documented := profiler.CountFunctions(input.Content)
	if total <= 2 {
		return result
	}

	fileRatio := float64(documented) / float64(total)
	projectRatio := input.Profile.Patterns.Comments.DocRatio
	if projectRatio-fileRatio <= docRatioTolerance {
		return result
	}

	result.Score = clampScore(result.Score - docRatioDeduction)
	result.Issues = append(result.Issues, domain.Issue{
		Type:           "documentation",
		Severity:       domain.SeverityMedium,
		Message:        fmt.Sprintf("Only %d of %d functions are documented (%.0f%%) against a project rate of %.0f%%", documented, total, fileRatio*100, projectRatio*100),
		File:           input.Path,
		CurrentValue:   fmt.Sprintf("%.2f", fileRatio),
		SuggestedValue: fmt.Sprintf("%.2f", projectRatio),
	})
	result.Suggestions = append(result.Suggestions,
		"Document functions to match the project's documentation rate")
	return result
}

// checkErrorHandling flags empty exception handlers, ad-hoc console
// logging, and async code without any error guard
func (c *CompletenessCheck) checkErrorHandling(input CheckInput) SubResult {
	result := SubResult{Name: "error-handling", Score: 100}

	for _, loc := range emptyCatchRe.FindAllStringIndex(input.Content, -1) {
		result.Score -= emptyCatchDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:     "empty-catch",
			Severity: domain.SeverityHigh,
			Message:  "Empty exception handler swallows errors",
			File:     input.Path,
			Line:     lineOfOffset(input.Content, loc[0]),
		})
		result.Suggestions = append(result.Suggestions,
			"Handle or log caught errors instead of swallowing them")
	}

	if input.Profile.Patterns.ErrorHandling.PrefersStructuredLogging {
		for _, loc := range consoleCallRe.FindAllStringIndex(input.Content, -1) {
			result.Score -= consoleCallDeduction
			result.Issues = append(result.Issues, domain.Issue{
				Type:     "console-logging",
				Severity: domain.SeverityLow,
				Message:  "Ad-hoc console call where the project uses structured logging",
				File:     input.Path,
				Line:     lineOfOffset(input.Content, loc[0]),
			})
			result.Suggestions = append(result.Suggestions,
				"Use the project's structured logger instead of console calls")
		}
	}

	for _, segment := range asyncSegments(input.Content) {
		if !awaitRe.MatchString(segment.text) {
			continue
		}
		if errorGuardRe.MatchString(segment.text) {
			continue
		}
		result.Score -= unhandledAsyncDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:     "unhandled-async",
			Severity: domain.SeverityMedium,
			Message:  "Async function awaits without try/catch or .catch",
			File:     input.Path,
			Line:     lineOfOffset(input.Content, segment.start),
		})
		result.Suggestions = append(result.Suggestions,
			"Wrap awaited calls in try/catch or attach .catch")
	}

	result.Score = clampScore(result.Score)
	return result
}

// asyncSegment is the approximate body of one async function
type asyncSegment struct {
	start int
	text  string
}

// asyncSegments slices content into per-async-function regions, each
// running from its declaration to the next async declaration or EOF.
// This is a line-scan approximation, not a parse; nested functions
// blur the boundaries and that tolerance is accepted.
func asyncSegments(content string) []asyncSegment {
	starts := asyncFuncRe.FindAllStringIndex(content, -1)
	segments := make([]asyncSegment, 0, len(starts))
	for i, loc := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		segments = append(segments, asyncSegment{start: loc[0], text: content[loc[0]:end]})
	}
	return segments
}
