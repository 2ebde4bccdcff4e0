// Package profiler infers a codebase's dominant stylistic conventions
// from a collected file inventory. All inference is frequency-based
// regex matching over raw text, never AST parsing: it is cheap and
// language-agnostic at the cost of being approximate.
package profiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/constants"
)

// Policy holds the confidence and sample-size policy for profiling
type Policy struct {
	// MinFilesForPattern is the minimum sample size before downstream
	// consumers treat a learned category as meaningful
	MinFilesForPattern int

	// ConfidenceThreshold is recorded for consumers; confidence is not
	// thresholded at computation time
	ConfidenceThreshold float64

	// AliasPrefixes are the import path prefixes classified as alias
	AliasPrefixes []string
}

// DefaultPolicy returns the standard profiling policy
func DefaultPolicy() Policy {
	return Policy{
		MinFilesForPattern:  constants.DefaultMinFilesForPattern,
		ConfidenceThreshold: constants.DefaultConfidenceThreshold,
		AliasPrefixes:       []string{"@/", "~/"},
	}
}

// Profiler builds PatternProfiles from FileRecord batches
type Profiler struct {
	policy Policy
	logger *slog.Logger
}

// New creates a profiler with the given policy
func New(policy Policy, logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	if len(policy.AliasPrefixes) == 0 {
		policy.AliasPrefixes = DefaultPolicy().AliasPrefixes
	}
	return &Profiler{policy: policy, logger: logger}
}

var errorStyleOrder = []string{
	string(domain.ErrorStyleTryCatch),
	string(domain.ErrorStylePromiseCatch),
}

var testNamingOrder = []string{".test", ".spec", "_test", "test_"}

var testLocationOrder = []string{"test-directory", "alongside-source"}

// Build infers a PatternProfile from the given records. Files that
// cannot be read are logged and skipped; the build itself only fails on
// context cancellation.
func (p *Profiler) Build(ctx context.Context, projectRoot string, records []domain.FileRecord) (*domain.PatternProfile, error) {
	start := time.Now()

	fileNames := newTally()
	functions := newTally()
	variables := newTally()
	classes := newTally()
	constantNames := newTally()
	importStyles := newTally()
	errorStyles := newTally()
	testNaming := newTally()
	testLocations := newTally()

	// extension -> directory -> count
	locations := make(map[string]map[string]int)

	groupingDetected := false
	sampledModuleFiles := 0
	structuredLogCalls := 0
	consoleCalls := 0
	totalFunctions := 0
	documentedFunctions := 0

	for _, record := range records {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("profiling cancelled: %w", ctx.Err())
		default:
		}

		if _, known := languageByExtension[record.Extension]; known {
			fileNames.add(string(ClassifyFileName(record.Name)), record.Name)
		}

		if locations[record.Extension] == nil {
			locations[record.Extension] = make(map[string]int)
		}
		locations[record.Extension][record.Directory]++

		if scheme := TestNamingScheme(record.Name); scheme != "" {
			testNaming.add(scheme, record.Name)
			testLocations.add(TestLocationScheme(record.Directory), record.RelativePath)
		}

		if !IsModuleFile(record.Extension) {
			continue
		}

		content, err := os.ReadFile(record.Path)
		if err != nil {
			p.logger.Warn("skipping unreadable file during profiling",
				"path", record.Path, "error", err)
			continue
		}
		text := string(content)
		sampledModuleFiles++

		for _, name := range extractAll(functionDeclRes, text) {
			functions.add(string(ClassifyIdentifier(name)), name)
		}
		for _, name := range extractAll(classDeclRes, text) {
			classes.add(string(ClassifyIdentifier(name)), name)
		}
		for _, name := range extractAll(constantDeclRes, text) {
			constantNames.add(string(ClassifyIdentifier(name)), name)
		}
		for _, name := range extractAll(variableDeclRes, text) {
			variables.add(string(ClassifyIdentifier(name)), name)
		}

		imports := ScanImports(text)
		for _, path := range imports.Paths {
			importStyles.add(string(ClassifyImportPath(path, p.policy.AliasPrefixes)), path)
		}
		if imports.Grouped {
			groupingDetected = true
		}

		blockCount, promiseCount := CountErrorStyles(text)
		for i := 0; i < blockCount; i++ {
			errorStyles.add(string(domain.ErrorStyleTryCatch), record.Name)
		}
		for i := 0; i < promiseCount; i++ {
			errorStyles.add(string(domain.ErrorStylePromiseCatch), record.Name)
		}

		structured, console := CountLogCalls(text)
		structuredLogCalls += structured
		consoleCalls += console

		total, documented := CountFunctions(text)
		totalFunctions += total
		documentedFunctions += documented
	}

	docRatio := 0.0
	if totalFunctions > 0 {
		docRatio = float64(documentedFunctions) / float64(totalFunctions)
	}

	profile := &domain.PatternProfile{
		ProjectRoot: projectRoot,
		AnalyzedAt:  time.Now(),
		TechStack:   DetectTechStack(records),
		FileCount:   len(records),
		Patterns: domain.ProjectPatterns{
			Naming: domain.NamingPatterns{
				Files:     fileNames.toCategory(namingOrderStrings),
				Functions: functions.toCategory(namingOrderStrings),
				Variables: variables.toCategory(namingOrderStrings),
				Classes:   classes.toCategory(namingOrderStrings),
				Constants: constantNames.toCategory(namingOrderStrings),
			},
			Structure: domain.StructurePatterns{
				FileLocations: buildLocations(locations),
			},
			Imports: domain.ImportPatterns{
				Style:            importStyles.toCategory(importStyleOrder),
				GroupingDetected: groupingDetected,
				SampledFiles:     sampledModuleFiles,
			},
			ErrorHandling: domain.ErrorHandlingPatterns{
				Style:                    errorStyles.toCategory(errorStyleOrder),
				StructuredLogCalls:       structuredLogCalls,
				ConsoleCalls:             consoleCalls,
				PrefersStructuredLogging: structuredLogCalls > consoleCalls,
			},
			Comments: domain.CommentPatterns{
				DocRatio:            docRatio,
				DocumentedFunctions: documentedFunctions,
				TotalFunctions:      totalFunctions,
			},
			Testing: domain.TestingPatterns{
				Naming:   testNaming.toCategory(testNamingOrder),
				Location: testLocations.toCategory(testLocationOrder),
			},
		},
		AnalysisTimeMs: time.Since(start).Milliseconds(),
	}

	return profile, nil
}

// buildLocations reduces the per-extension directory tallies into
// LocationPatterns: the dominant directory plus up to 3 alternatives
// with at least one occurrence
func buildLocations(locations map[string]map[string]int) map[string]*domain.LocationPattern {
	if len(locations) == 0 {
		return nil
	}

	out := make(map[string]*domain.LocationPattern, len(locations))
	for ext, dirs := range locations {
		total := 0
		for _, c := range dirs {
			total += c
		}
		if total == 0 {
			continue
		}

		// Sort by count descending, directory name ascending for ties,
		// so the primary location is deterministic.
		ordered := sortedKeys(dirs)
		sort.SliceStable(ordered, func(i, j int) bool {
			return dirs[ordered[i]] > dirs[ordered[j]]
		})

		pattern := &domain.LocationPattern{
			Primary:      ordered[0],
			Count:        dirs[ordered[0]],
			TotalSamples: total,
		}
		for _, dir := range ordered[1:] {
			if len(pattern.Alternatives) == 3 {
				break
			}
			if dirs[dir] >= 1 {
				pattern.Alternatives = append(pattern.Alternatives, dir)
			}
		}
		out[ext] = pattern
	}
	return out
}
