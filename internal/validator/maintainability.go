package validator

import (
	"fmt"
	"strings"

	"github.com/conformal-tools/conform/domain"
)

// Maintainability thresholds and deductions
const (
	fileSizeHardLimit     = 500
	fileSizeSoftLimit     = 300
	fileSizeHardDeduction = 15
	fileSizeSoftDeduction = 5

	nestingHardLimit     = 5
	nestingSoftLimit     = 4
	nestingHardDeduction = 15
	nestingSoftDeduction = 5

	longLineLimit        = 120
	longLineDeduction    = 2
	longLineDeductionCap = 10
)

// MaintainabilityCheck scores file size, nesting depth, and line length
type MaintainabilityCheck struct{}

// Dimension implements DimensionCheck
func (c *MaintainabilityCheck) Dimension() domain.Dimension {
	return domain.DimensionMaintainability
}

// Check implements DimensionCheck
func (c *MaintainabilityCheck) Check(input CheckInput) []SubResult {
	result := SubResult{Name: "structure", Score: 100}

	lineCount := len(input.Lines)
	switch {
	case lineCount > fileSizeHardLimit:
		result.Score -= fileSizeHardDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:           "file-size",
			Severity:       domain.SeverityMedium,
			Message:        fmt.Sprintf("File has %d lines", lineCount),
			File:           input.Path,
			CurrentValue:   fmt.Sprintf("%d", lineCount),
			SuggestedValue: fmt.Sprintf("<=%d", fileSizeHardLimit),
		})
		result.Suggestions = append(result.Suggestions,
			"Split the file into smaller focused modules")
	case lineCount > fileSizeSoftLimit:
		result.Score -= fileSizeSoftDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:           "file-size",
			Severity:       domain.SeverityLow,
			Message:        fmt.Sprintf("File has %d lines", lineCount),
			File:           input.Path,
			CurrentValue:   fmt.Sprintf("%d", lineCount),
			SuggestedValue: fmt.Sprintf("<=%d", fileSizeSoftLimit),
		})
		result.Suggestions = append(result.Suggestions,
			"Consider splitting the file into smaller focused modules")
	}

	depth, depthLine := peakNestingDepth(input.Lines)
	switch {
	case depth > nestingHardLimit:
		result.Score -= nestingHardDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:           "deep-nesting",
			Severity:       domain.SeverityMedium,
			Message:        fmt.Sprintf("Block nesting reaches depth %d", depth),
			File:           input.Path,
			Line:           depthLine,
			CurrentValue:   fmt.Sprintf("%d", depth),
			SuggestedValue: fmt.Sprintf("<=%d", nestingHardLimit),
		})
		result.Suggestions = append(result.Suggestions,
			"Flatten deeply nested blocks with early returns or helper functions")
	case depth > nestingSoftLimit:
		result.Score -= nestingSoftDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:           "deep-nesting",
			Severity:       domain.SeverityLow,
			Message:        fmt.Sprintf("Block nesting reaches depth %d", depth),
			File:           input.Path,
			Line:           depthLine,
			CurrentValue:   fmt.Sprintf("%d", depth),
			SuggestedValue: fmt.Sprintf("<=%d", nestingSoftLimit),
		})
		result.Suggestions = append(result.Suggestions,
			"Flatten deeply nested blocks with early returns or helper functions")
	}

	longLines := 0
	firstLong := 0
	for i, line := range input.Lines {
		if len(line) > longLineLimit {
			longLines++
			if firstLong == 0 {
				firstLong = i + 1
			}
		}
	}
	if longLines > 0 {
		deduction := longLines * longLineDeduction
		if deduction > longLineDeductionCap {
			deduction = longLineDeductionCap
		}
		result.Score -= deduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:           "long-lines",
			Severity:       domain.SeverityLow,
			Message:        fmt.Sprintf("%d lines exceed %d characters", longLines, longLineLimit),
			File:           input.Path,
			Line:           firstLong,
			CurrentValue:   fmt.Sprintf("%d", longLines),
			SuggestedValue: "0",
		})
		result.Suggestions = append(result.Suggestions,
			"Wrap long lines to keep them readable")
	}

	result.Score = clampScore(result.Score)
	return []SubResult{result}
}

// peakNestingDepth walks brace balance line by line and returns the
// deepest level reached and the line where it first occurred. Braces
// inside strings are counted too; for a texture heuristic that error
// is acceptable.
func peakNestingDepth(lines []string) (int, int) {
	depth, peak, peakLine := 0, 0, 0
	for i, line := range lines {
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth > peak {
			peak = depth
			peakLine = i + 1
		}
	}
	return peak, peakLine
}
