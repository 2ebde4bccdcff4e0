package validator

import (
	"fmt"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/profiler"
)

// Deductions for consistency sub-checks
const (
	fileNamingDeduction     = 15
	functionNamingDeduction = 5
	fileLocationDeduction   = 20
	importStyleDeduction    = 10
	importGroupingDeduction = 5
)

// ConsistencyCheck scores naming, placement, and import conformance
// against the learned profile. Checks gated below the confidence
// threshold simply do not fire; low-confidence patterns are not
// actionable.
type ConsistencyCheck struct{}

// Dimension implements DimensionCheck
func (c *ConsistencyCheck) Dimension() domain.Dimension {
	return domain.DimensionConsistency
}

// Check implements DimensionCheck
func (c *ConsistencyCheck) Check(input CheckInput) []SubResult {
	return []SubResult{
		c.checkNaming(input),
		c.checkPlacement(input),
		c.checkImports(input),
	}
}

// checkNaming compares the file name and declared function identifiers
// to the profile's dominant naming styles
func (c *ConsistencyCheck) checkNaming(input CheckInput) SubResult {
	result := SubResult{Name: "naming", Score: 100}

	if style, confidence, ok := input.Profile.DominantFileNaming(); ok && confidence >= input.Config.ConfidenceThreshold {
		observed := profiler.ClassifyFileName(input.Name)
		if observed != style {
			result.Score -= fileNamingDeduction
			result.Issues = append(result.Issues, domain.Issue{
				Type:           "file-naming",
				Severity:       domain.SeverityMedium,
				Message:        fmt.Sprintf("File name %q is %s but the project convention is %s", input.Name, observed, style),
				File:           input.Path,
				CurrentValue:   string(observed),
				SuggestedValue: string(style),
			})
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("Rename files to %s to match the project convention", style))
		}
	}

	funcs := input.Profile.Patterns.Naming.Functions
	if funcs != nil && funcs.Dominant != nil && funcs.Dominant.Confidence >= input.Config.ConfidenceThreshold {
		dominant := domain.NamingStyle(funcs.Dominant.Pattern)
		for _, name := range profiler.ExtractFunctionNames(input.Content) {
			if profiler.ClassifyIdentifier(name) == dominant {
				continue
			}
			result.Score -= functionNamingDeduction
			result.Issues = append(result.Issues, domain.Issue{
				Type:           "function-naming",
				Severity:       domain.SeverityLow,
				Message:        fmt.Sprintf("Function %q does not follow the dominant %s convention", name, dominant),
				File:           input.Path,
				CurrentValue:   name,
				SuggestedValue: string(dominant),
			})
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("Use %s for function names", dominant))
		}
	}

	result.Score = clampScore(result.Score)
	return result
}

// checkPlacement verifies the file lives where files of its extension
// usually live, exempting any recorded alternative directory
func (c *ConsistencyCheck) checkPlacement(input CheckInput) SubResult {
	result := SubResult{Name: "placement", Score: 100}

	loc := input.Profile.Patterns.Structure.FileLocations[input.Extension]
	if loc == nil || loc.Count < input.Config.MinLocationSamples {
		return result
	}
	if input.RelativeDir == loc.Primary {
		return result
	}
	for _, alt := range loc.Alternatives {
		if input.RelativeDir == alt {
			return result
		}
	}

	result.Score = clampScore(result.Score - fileLocationDeduction)
	result.Issues = append(result.Issues, domain.Issue{
		Type:           "file-location",
		Severity:       domain.SeverityMedium,
		Message:        fmt.Sprintf("%s files usually live in %q, found in %q", input.Extension, loc.Primary, input.RelativeDir),
		File:           input.Path,
		CurrentValue:   input.RelativeDir,
		SuggestedValue: loc.Primary,
	})
	result.Suggestions = append(result.Suggestions,
		fmt.Sprintf("Move %s files to %q to match the project layout", input.Extension, loc.Primary))
	return result
}

// checkImports verifies import style and grouping conformance
func (c *ConsistencyCheck) checkImports(input CheckInput) SubResult {
	result := SubResult{Name: "imports", Score: 100}

	scan := profiler.ScanImports(input.Content)
	if len(scan.Paths) == 0 {
		return result
	}

	relativeCount := 0
	aliasCount := 0
	for _, path := range scan.Paths {
		switch profiler.ClassifyImportPath(path, input.Config.AliasPrefixes) {
		case domain.ImportStyleRelative:
			relativeCount++
		case domain.ImportStyleAlias:
			aliasCount++
		}
	}

	if style, _, ok := input.Profile.DominantImportStyle(); ok && style == domain.ImportStyleAlias && relativeCount > aliasCount {
		result.Score -= importStyleDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:           "import-style",
			Severity:       domain.SeverityMedium,
			Message:        fmt.Sprintf("File uses %d relative imports against %d alias imports while the project prefers alias paths", relativeCount, aliasCount),
			File:           input.Path,
			CurrentValue:   string(domain.ImportStyleRelative),
			SuggestedValue: string(domain.ImportStyleAlias),
		})
		result.Suggestions = append(result.Suggestions,
			"Prefer alias imports (@/...) over relative paths")
	}

	if input.Profile.Patterns.Imports.GroupingDetected && len(scan.Paths) > 3 && !scan.Grouped {
		result.Score -= importGroupingDeduction
		result.Issues = append(result.Issues, domain.Issue{
			Type:     "import-grouping",
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("File has %d ungrouped imports but the project groups imports with blank lines", len(scan.Paths)),
			File:     input.Path,
		})
		result.Suggestions = append(result.Suggestions,
			"Separate import groups with blank lines")
	}

	result.Score = clampScore(result.Score)
	return result
}
