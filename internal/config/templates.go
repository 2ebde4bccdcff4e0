package config

import "strconv"

// ProjectType represents the kind of project being validated
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeReact   ProjectType = "react"
	ProjectTypeNode    ProjectType = "node"
	ProjectTypePython  ProjectType = "python"
)

// Strictness represents the quality-gate strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds collection presets for different project types
type ProjectPreset struct {
	Extensions      []string
	SkipDirectories []string
}

// StrictnessPreset holds gate values for different strictness levels
type StrictnessPreset struct {
	Threshold           int
	MaxIterations       int
	ConfidenceThreshold float64
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			Extensions: []string{".js", ".ts", ".jsx", ".tsx", ".py", ".go"},
			SkipDirectories: []string{
				"node_modules", ".git", "dist", "build", "coverage", "vendor",
			},
		},
		ProjectTypeReact: {
			Extensions: []string{".js", ".ts", ".jsx", ".tsx"},
			SkipDirectories: []string{
				"node_modules", ".git", "dist", "build", "coverage", ".next", "out",
			},
		},
		ProjectTypeNode: {
			Extensions: []string{".js", ".ts", ".mjs", ".cjs"},
			SkipDirectories: []string{
				"node_modules", ".git", "dist", "build", "coverage",
			},
		},
		ProjectTypePython: {
			Extensions: []string{".py"},
			SkipDirectories: []string{
				".git", "__pycache__", ".venv", "venv", "dist", "build", ".tox",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			Threshold:           65,
			MaxIterations:       5,
			ConfidenceThreshold: 0.8,
		},
		StrictnessStandard: {
			Threshold:           75,
			MaxIterations:       3,
			ConfidenceThreshold: 0.7,
		},
		StrictnessStrict: {
			Threshold:           85,
			MaxIterations:       2,
			ConfidenceThreshold: 0.6,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset := GetProjectPresets()[projectType]
	strict := GetStrictnessPresets()[strictness]

	return `# conform configuration
# Documentation: https://github.com/conformal-tools/conform

# ==============================================================================
# PATTERN LEARNING
# ==============================================================================
# Controls how project conventions are inferred from the existing codebase
profile:
  # Minimum sample size before a learned category is trusted
  min_files_for_pattern: 3

  # Learned patterns below this confidence are observed but not enforced
  confidence_threshold: ` + formatFloat(strict.ConfidenceThreshold) + `

# ==============================================================================
# QUALITY GATE
# ==============================================================================
validation:
  # Inclusive pass score; files scoring >= threshold pass
  threshold: ` + strconv.Itoa(strict.Threshold) + `

  # Refinement passes before a file is escalated to a human
  max_iterations: ` + strconv.Itoa(strict.MaxIterations) + `

  # Dimension aggregation weights; they are normalized by their sum
  weights:
    consistency: 0.35
    completeness: 0.25
    security: 0.25
    maintainability: 0.15

# ==============================================================================
# FILE COLLECTION
# ==============================================================================
collector:
  # Only files with these extensions are collected when the list is set
  extensions:` + formatYAMLList(preset.Extensions, "    ") + `

  # Directory names pruned during the walk
  skip_directories:` + formatYAMLList(preset.SkipDirectories, "    ") + `

  # File name patterns to skip; a leading * makes it a suffix match
  skip_file_patterns:
    - "*.min.js"
    - "*.map"
    - "package-lock.json"

  # Apply .gitignore rules found at the project root
  respect_gitignore: true

  # Stop after this many files (0 = no limit)
  max_files: 0

# ==============================================================================
# IMPORT CLASSIFICATION
# ==============================================================================
imports:
  # Module path prefixes treated as alias imports
  alias_prefixes:
    - "@/"
    - "~/"

# ==============================================================================
# PROFILE CACHE
# ==============================================================================
cache:
  enabled: true

  # Hours before a cached profile goes stale (0 = never)
  ttl_hours: 24

# ==============================================================================
# OUTPUT
# ==============================================================================
output:
  # structured | yaml | narrative-detailed | narrative-summary
  format: narrative-detailed

  # Use colors in terminal output (disable for CI logs)
  color: true
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# conform configuration (minimal)
# See full options: https://github.com/conformal-tools/conform

validation:
  threshold: 75
  max_iterations: 3

collector:
  skip_directories:
    - node_modules
    - .git
    - dist

output:
  format: narrative-detailed
`
}

// formatYAMLList renders a string slice as an indented YAML sequence
func formatYAMLList(items []string, indent string) string {
	if len(items) == 0 {
		return " []"
	}
	out := ""
	for _, item := range items {
		out += "\n" + indent + "- \"" + item + "\""
	}
	return out
}

// formatFloat renders a float without trailing zeros
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
