package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Profile holds pattern-learning configuration
	Profile ProfileConfig `json:"profile" mapstructure:"profile" yaml:"profile"`

	// Validation holds quality-gate configuration
	Validation ValidationConfig `json:"validation" mapstructure:"validation" yaml:"validation"`

	// Collector holds file discovery configuration
	Collector CollectorConfig `json:"collector" mapstructure:"collector" yaml:"collector"`

	// Imports holds import classification configuration
	Imports ImportsConfig `json:"imports" mapstructure:"imports" yaml:"imports"`

	// Cache holds profile cache configuration
	Cache CacheConfig `json:"cache" mapstructure:"cache" yaml:"cache"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// ProfileConfig holds configuration for the pattern profiling pass
type ProfileConfig struct {
	// MinFilesForPattern is the minimum sample size before a learned
	// category is considered meaningful
	MinFilesForPattern int `json:"minFilesForPattern" mapstructure:"min_files_for_pattern" yaml:"min_files_for_pattern"`

	// ConfidenceThreshold gates which learned patterns are enforced
	ConfidenceThreshold float64 `json:"confidenceThreshold" mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
}

// ValidationConfig holds configuration for the quality gate
type ValidationConfig struct {
	// Threshold is the inclusive pass score in [0,100]
	Threshold int `json:"threshold" mapstructure:"threshold" yaml:"threshold"`

	// MaxIterations bounds a refinement session
	MaxIterations int `json:"maxIterations" mapstructure:"max_iterations" yaml:"max_iterations"`

	// Weights are the dimension aggregation weights
	Weights domain.DimensionWeights `json:"weights" mapstructure:"weights" yaml:"weights"`
}

// CollectorConfig holds configuration for file discovery
type CollectorConfig struct {
	// SkipDirectories are directory names pruned during the walk
	SkipDirectories []string `json:"skipDirectories" mapstructure:"skip_directories" yaml:"skip_directories"`

	// SkipFilePatterns are file name patterns to skip. A leading *
	// makes the pattern a suffix match.
	SkipFilePatterns []string `json:"skipFilePatterns" mapstructure:"skip_file_patterns" yaml:"skip_file_patterns"`

	// Extensions restricts collection to the listed extensions when
	// non-empty
	Extensions []string `json:"extensions" mapstructure:"extensions" yaml:"extensions"`

	// MaxFiles stops collection after this many files, 0 means no limit
	MaxFiles int `json:"maxFiles" mapstructure:"max_files" yaml:"max_files"`

	// MaxDepth prunes directories deeper than this, 0 means no limit
	MaxDepth int `json:"maxDepth" mapstructure:"max_depth" yaml:"max_depth"`

	// RespectGitignore controls whether .gitignore rules are applied
	RespectGitignore bool `json:"respectGitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// ImportsConfig holds configuration for import classification
type ImportsConfig struct {
	// AliasPrefixes are the module path prefixes classified as alias
	AliasPrefixes []string `json:"aliasPrefixes" mapstructure:"alias_prefixes" yaml:"alias_prefixes"`
}

// CacheConfig holds configuration for the profile cache
type CacheConfig struct {
	// Enabled controls whether profiles are persisted between runs
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// TTLHours is how long a cached profile stays fresh, 0 never expires
	TTLHours int `json:"ttlHours" mapstructure:"ttl_hours" yaml:"ttl_hours"`

	// Path overrides the cache file location when non-empty
	Path string `json:"path" mapstructure:"path" yaml:"path"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: structured, yaml,
	// narrative-detailed, narrative-summary
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Color controls colored narrative output
	Color bool `json:"color" mapstructure:"color" yaml:"color"`

	// Verbose includes passing files in narrative output
	Verbose bool `json:"verbose" mapstructure:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Profile: ProfileConfig{
			MinFilesForPattern:  constants.DefaultMinFilesForPattern,
			ConfidenceThreshold: constants.DefaultConfidenceThreshold,
		},
		Validation: ValidationConfig{
			Threshold:     constants.DefaultThreshold,
			MaxIterations: constants.DefaultMaxIterations,
			Weights:       domain.DefaultDimensionWeights(),
		},
		Collector: CollectorConfig{
			SkipDirectories: []string{
				"node_modules", ".git", "dist", "build", "coverage",
				"vendor", "__pycache__", ".next", ".nuxt", "out",
			},
			SkipFilePatterns: []string{
				"*.min.js", "*.min.css", "*.map", "*.lock",
				"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
			},
			RespectGitignore: true,
		},
		Imports: ImportsConfig{
			AliasPrefixes: []string{"@/", "~/"},
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: constants.DefaultCacheTTLHours,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatNarrativeDetailed,
			Color:  true,
		},
	}
}

// LoadConfig loads configuration from an explicit path, or discovers
// one when the path is empty
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// Discovery walks from the target upward, then falls back to the
// working directory, XDG locations, and the home directory.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Fresh viper instance per load to avoid shared state
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// configFileCandidates are the recognized config file names, in
// precedence order
func configFileCandidates() []string {
	return []string{
		constants.ToolName + ".yaml",
		constants.ToolName + ".yml",
		constants.ConfigFileName,
		"." + constants.ToolName + ".yaml",
		constants.ToolName + ".json",
	}
}

// searchConfigInDirectory returns the first candidate present in dir
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files in common locations
func findDefaultConfig(targetPath string) string {
	candidates := configFileCandidates()

	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Validation.Threshold < 0 || c.Validation.Threshold > 100 {
		return domain.NewConfigError(
			fmt.Sprintf("validation.threshold must be in [0,100], got %d", c.Validation.Threshold), nil)
	}
	if c.Validation.MaxIterations < 1 {
		return domain.NewConfigError(
			fmt.Sprintf("validation.max_iterations must be >= 1, got %d", c.Validation.MaxIterations), nil)
	}
	if c.Validation.Weights.Sum() <= 0 {
		return domain.NewConfigError("validation.weights must sum to a positive value", nil)
	}
	if w := c.Validation.Weights; w.Consistency < 0 || w.Completeness < 0 || w.Security < 0 || w.Maintainability < 0 {
		return domain.NewConfigError("validation.weights must not be negative", nil)
	}
	if c.Profile.ConfidenceThreshold < 0 || c.Profile.ConfidenceThreshold > 1 {
		return domain.NewConfigError(
			fmt.Sprintf("profile.confidence_threshold must be in [0,1], got %g", c.Profile.ConfidenceThreshold), nil)
	}
	if c.Profile.MinFilesForPattern < 1 {
		return domain.NewConfigError(
			fmt.Sprintf("profile.min_files_for_pattern must be >= 1, got %d", c.Profile.MinFilesForPattern), nil)
	}
	if c.Cache.TTLHours < 0 {
		return domain.NewConfigError(
			fmt.Sprintf("cache.ttl_hours must not be negative, got %d", c.Cache.TTLHours), nil)
	}
	if c.Collector.MaxFiles < 0 || c.Collector.MaxDepth < 0 {
		return domain.NewConfigError("collector limits must not be negative", nil)
	}
	if c.Output.Format != "" && !validOutputFormat(c.Output.Format) {
		return domain.NewUnsupportedFormatError(c.Output.Format)
	}
	return nil
}

func validOutputFormat(format string) bool {
	switch format {
	case constants.OutputFormatStructured,
		constants.OutputFormatYAML,
		constants.OutputFormatNarrativeDetailed,
		constants.OutputFormatNarrativeSummary:
		return true
	}
	return false
}

// SaveConfig writes the configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return domain.NewConfigError("failed to marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to write config file %s", path), err)
	}
	return nil
}
