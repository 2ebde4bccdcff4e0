package domain

import (
	"context"
	"time"
)

// NamingStyle represents a naming convention class
type NamingStyle string

const (
	NamingStyleUpperCase  NamingStyle = "UPPER_CASE"
	NamingStylePascalCase NamingStyle = "PascalCase"
	NamingStyleCamelCase  NamingStyle = "camelCase"
	NamingStyleSnakeCase  NamingStyle = "snake_case"
	NamingStyleKebabCase  NamingStyle = "kebab-case"
	NamingStyleOther      NamingStyle = "other"
)

// NamingStyleOrder is the fixed enumeration order of naming classes.
// Classification rules are tested in this order, and ties between
// equally frequent classes are broken by whichever comes first here.
var NamingStyleOrder = []NamingStyle{
	NamingStyleUpperCase,
	NamingStylePascalCase,
	NamingStyleCamelCase,
	NamingStyleSnakeCase,
	NamingStyleKebabCase,
	NamingStyleOther,
}

// ImportStyle represents how a module path is referenced
type ImportStyle string

const (
	// ImportStyleRelative represents relative imports: ./foo, ../bar
	ImportStyleRelative ImportStyle = "relative"

	// ImportStyleAlias represents aliased imports: @/components, ~/utils
	ImportStyleAlias ImportStyle = "alias"

	// ImportStyleAbsolute represents everything else: lodash, react, /foo
	ImportStyleAbsolute ImportStyle = "absolute"
)

// ErrorStyle represents the dominant error-handling idiom
type ErrorStyle string

const (
	// ErrorStyleTryCatch represents block-based exception handling
	ErrorStyleTryCatch ErrorStyle = "try-catch"

	// ErrorStylePromiseCatch represents promise-chained .catch() handling
	ErrorStylePromiseCatch ErrorStyle = "promise-catch"
)

// FileRecord describes a single file discovered by the collector
type FileRecord struct {
	// Path is the absolute path to the file
	Path string `json:"path"`

	// RelativePath is the path relative to the project root
	RelativePath string `json:"relative_path"`

	// Name is the base name including extension
	Name string `json:"name"`

	// Extension is the lowercased file extension including the dot
	Extension string `json:"extension"`

	// Directory is the directory portion of RelativePath
	Directory string `json:"directory"`
}

// DominantPattern is the most frequent convention observed in a category
type DominantPattern struct {
	// Pattern is the winning class (a NamingStyle, ImportStyle, etc.)
	Pattern string `json:"pattern"`

	// Confidence is maxFrequency / TotalSamples, always in [0,1]
	Confidence float64 `json:"confidence"`

	// TotalSamples is the number of identifiers tallied in the category
	TotalSamples int `json:"total_samples"`
}

// CategoryPattern holds the frequency table for one pattern category.
// A category with zero samples has a nil Dominant, not a zero one.
type CategoryPattern struct {
	// Counts maps each observed class to its occurrence count
	Counts map[string]int `json:"counts"`

	// Dominant is the highest-count class, absent when no samples exist
	Dominant *DominantPattern `json:"dominant,omitempty"`

	// Examples holds up to MaxPatternExamples sample occurrences for diagnostics
	Examples []string `json:"examples,omitempty"`
}

// MaxPatternExamples bounds the diagnostic example set per category
const MaxPatternExamples = 10

// NamingPatterns groups the per-category naming conventions
type NamingPatterns struct {
	Files     *CategoryPattern `json:"files,omitempty"`
	Functions *CategoryPattern `json:"functions,omitempty"`
	Variables *CategoryPattern `json:"variables,omitempty"`
	Classes   *CategoryPattern `json:"classes,omitempty"`
	Constants *CategoryPattern `json:"constants,omitempty"`
}

// LocationPattern records where files of one extension tend to live
type LocationPattern struct {
	// Primary is the directory with the highest occurrence count
	Primary string `json:"primary"`

	// Count is the occurrence count of the primary directory
	Count int `json:"count"`

	// TotalSamples is the number of files tallied for the extension
	TotalSamples int `json:"total_samples"`

	// Alternatives holds up to 3 other directories with at least one occurrence
	Alternatives []string `json:"alternatives,omitempty"`
}

// StructurePatterns maps file extensions to their dominant locations
type StructurePatterns struct {
	FileLocations map[string]*LocationPattern `json:"file_locations,omitempty"`
}

// ImportPatterns holds the inferred import conventions
type ImportPatterns struct {
	// Style tallies relative vs alias vs absolute module paths
	Style *CategoryPattern `json:"style,omitempty"`

	// GroupingDetected is true when at least one sampled file with more
	// than 3 imports separates them with a blank line
	GroupingDetected bool `json:"grouping_detected"`

	// SampledFiles is the number of module files inspected
	SampledFiles int `json:"sampled_files"`
}

// ErrorHandlingPatterns holds the inferred error-handling conventions
type ErrorHandlingPatterns struct {
	// Style tallies try-catch blocks vs promise .catch() chains
	Style *CategoryPattern `json:"style,omitempty"`

	// StructuredLogCalls counts structured-logger invocations
	StructuredLogCalls int `json:"structured_log_calls"`

	// ConsoleCalls counts ad-hoc console/print invocations
	ConsoleCalls int `json:"console_calls"`

	// PrefersStructuredLogging is true when structured calls outnumber console calls
	PrefersStructuredLogging bool `json:"prefers_structured_logging"`
}

// CommentPatterns holds the project-wide documentation conventions
type CommentPatterns struct {
	// DocRatio is DocumentedFunctions / TotalFunctions across the sample
	DocRatio float64 `json:"doc_ratio"`

	DocumentedFunctions int `json:"documented_functions"`
	TotalFunctions      int `json:"total_functions"`
}

// TestingPatterns holds the inferred test layout conventions
type TestingPatterns struct {
	// Naming tallies test file naming schemes (.test, .spec, _test)
	Naming *CategoryPattern `json:"naming,omitempty"`

	// Location tallies where test files live (dedicated dir vs alongside source)
	Location *CategoryPattern `json:"location,omitempty"`
}

// ProjectPatterns is the full set of learned conventions
type ProjectPatterns struct {
	Naming        NamingPatterns        `json:"naming"`
	Structure     StructurePatterns     `json:"structure"`
	Imports       ImportPatterns        `json:"imports"`
	ErrorHandling ErrorHandlingPatterns `json:"error_handling"`
	Comments      CommentPatterns       `json:"comments"`
	Testing       TestingPatterns       `json:"testing"`
}

// TechStack summarizes the technologies detected in a project snapshot
type TechStack struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Testing    []string `json:"testing"`
	Database   []string `json:"database"`
}

// PatternProfile is the learned summary of a codebase's dominant conventions.
// It is built fresh from a FileRecord batch and persisted with a timestamp.
type PatternProfile struct {
	// ProjectRoot is the analyzed project root path
	ProjectRoot string `json:"project_root"`

	// AnalyzedAt is the profile generation timestamp
	AnalyzedAt time.Time `json:"analyzed_at"`

	// TechStack summarizes detected languages and tooling
	TechStack TechStack `json:"tech_stack"`

	// FileCount is the number of files the profile was built from
	FileCount int `json:"file_count"`

	// Patterns holds the learned conventions per category
	Patterns ProjectPatterns `json:"patterns"`

	// AnalysisTimeMs is how long the profiling pass took
	AnalysisTimeMs int64 `json:"analysis_time_ms"`
}

// DominantImportStyle returns the profile's dominant import style, if any
func (p *PatternProfile) DominantImportStyle() (ImportStyle, float64, bool) {
	s := p.Patterns.Imports.Style
	if s == nil || s.Dominant == nil {
		return "", 0, false
	}
	return ImportStyle(s.Dominant.Pattern), s.Dominant.Confidence, true
}

// DominantFileNaming returns the profile's dominant file naming style, if any
func (p *PatternProfile) DominantFileNaming() (NamingStyle, float64, bool) {
	f := p.Patterns.Naming.Files
	if f == nil || f.Dominant == nil {
		return "", 0, false
	}
	return NamingStyle(f.Dominant.Pattern), f.Dominant.Confidence, true
}

// ProfileRequest represents a request to build or refresh a pattern profile
type ProfileRequest struct {
	// ProjectRoot is the directory to profile
	ProjectRoot string

	// CachePath is where the persisted profile lives
	CachePath string

	// ForceRefresh rebuilds the profile even when a fresh cache exists
	ForceRefresh bool

	// AutoBuild controls whether a cache miss triggers a rebuild.
	// Nil means true; explicitly false turns a miss into a cache error.
	AutoBuild *bool

	// MinFilesForPattern is the minimum sample size before a category is trusted
	MinFilesForPattern int

	// ConfidenceThreshold is the minimum confidence consumers act on
	ConfidenceThreshold float64
}

// ProfileService builds, caches, and loads pattern profiles
type ProfileService interface {
	// BuildProfile collects files under the request root and infers a profile
	BuildProfile(ctx context.Context, req ProfileRequest) (*PatternProfile, error)

	// LoadOrBuild returns a cached profile when fresh, rebuilding otherwise.
	// A missing or corrupt cache is a cache miss, never an error.
	LoadOrBuild(ctx context.Context, req ProfileRequest) (*PatternProfile, error)
}
