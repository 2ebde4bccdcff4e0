package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "conform"

	// ConfigFileName is the default config file name
	ConfigFileName = ".conform.yml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CONFORM"
)

// Quality dimension constants
const (
	DimensionConsistency     = "consistency"
	DimensionCompleteness    = "completeness"
	DimensionSecurity        = "security"
	DimensionMaintainability = "maintainability"
)

// Output format constants
const (
	OutputFormatStructured        = "structured"
	OutputFormatYAML              = "yaml"
	OutputFormatNarrativeDetailed = "narrative-detailed"
	OutputFormatNarrativeSummary  = "narrative-summary"
)

// Quality gate defaults
const (
	// DefaultThreshold is the inclusive pass score for a file
	DefaultThreshold = 75

	// DefaultMaxIterations bounds a refinement session
	DefaultMaxIterations = 3

	// DefaultConfidenceThreshold gates profile-conformance checks
	DefaultConfidenceThreshold = 0.7

	// DefaultMinFilesForPattern is the minimum sample size before a
	// learned category is considered meaningful
	DefaultMinFilesForPattern = 3

	// DefaultCacheTTLHours is how long a persisted profile stays fresh
	DefaultCacheTTLHours = 24
)
