package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	testutil.AssertEqual(t, 75, cfg.Validation.Threshold)
	testutil.AssertEqual(t, 3, cfg.Validation.MaxIterations)
	testutil.AssertEqual(t, 0.7, cfg.Profile.ConfidenceThreshold)
	testutil.AssertEqual(t, 3, cfg.Profile.MinFilesForPattern)
	testutil.AssertTrue(t, cfg.Cache.Enabled, "cache should default to enabled")
	testutil.AssertEqual(t, 24, cfg.Cache.TTLHours)
	testutil.AssertTrue(t, cfg.Collector.RespectGitignore, "gitignore should default to respected")
	testutil.AssertNoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTestFile(t, dir, "conform.yaml", `
validation:
  threshold: 80
  max_iterations: 5
profile:
  confidence_threshold: 0.9
collector:
  skip_directories:
    - node_modules
    - generated
output:
  format: structured
`)

	cfg, err := LoadConfig(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 80, cfg.Validation.Threshold)
	testutil.AssertEqual(t, 5, cfg.Validation.MaxIterations)
	testutil.AssertEqual(t, 0.9, cfg.Profile.ConfidenceThreshold)
	testutil.AssertEqual(t, 2, len(cfg.Collector.SkipDirectories))
	testutil.AssertEqual(t, "structured", cfg.Output.Format)

	// Unspecified sections keep their defaults
	testutil.AssertEqual(t, 0.35, cfg.Validation.Weights.Consistency)
	testutil.AssertTrue(t, cfg.Cache.Enabled, "unset cache section keeps defaults")
}

func TestLoadConfigMissingPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, DefaultConfig().Validation.Threshold, cfg.Validation.Threshold)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTestFile(t, dir, "conform.yaml", "validation: [not a map")

	_, err := LoadConfig(path)
	testutil.AssertError(t, err)
}

func TestLoadConfigWithTargetDiscoversUpward(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTestFile(t, dir, "conform.yaml", "validation:\n  threshold: 90\n")
	nested := testutil.WriteTestFile(t, dir, "src/deep/file.ts", "export {}\n")

	cfg, err := LoadConfigWithTarget("", nested)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 90, cfg.Validation.Threshold)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold too high", func(c *Config) { c.Validation.Threshold = 101 }},
		{"threshold negative", func(c *Config) { c.Validation.Threshold = -1 }},
		{"zero iterations", func(c *Config) { c.Validation.MaxIterations = 0 }},
		{"zero weights", func(c *Config) { c.Validation.Weights = domain.DimensionWeights{} }},
		{"negative weight", func(c *Config) { c.Validation.Weights.Security = -0.5 }},
		{"confidence above one", func(c *Config) { c.Profile.ConfidenceThreshold = 1.5 }},
		{"zero min files", func(c *Config) { c.Profile.MinFilesForPattern = 0 }},
		{"negative ttl", func(c *Config) { c.Cache.TTLHours = -1 }},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			testutil.AssertError(t, err)

			var domainErr domain.DomainError
			testutil.AssertTrue(t, errors.As(err, &domainErr), "validation failures must be domain errors")
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conform.yaml")

	original := DefaultConfig()
	original.Validation.Threshold = 82
	testutil.AssertNoError(t, SaveConfig(original, path))

	loaded, err := LoadConfig(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 82, loaded.Validation.Threshold)
}

func TestFullConfigTemplateParses(t *testing.T) {
	for _, projectType := range []ProjectType{ProjectTypeGeneric, ProjectTypeReact, ProjectTypeNode, ProjectTypePython} {
		for _, strictness := range []Strictness{StrictnessRelaxed, StrictnessStandard, StrictnessStrict} {
			dir := t.TempDir()
			content := GetFullConfigTemplate(projectType, strictness)
			path := testutil.WriteTestFile(t, dir, "conform.yaml", content)

			cfg, err := LoadConfig(path)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, GetStrictnessPresets()[strictness].Threshold, cfg.Validation.Threshold)
		}
	}
}

func TestMinimalConfigTemplateParses(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTestFile(t, dir, "conform.yaml", GetMinimalConfigTemplate())

	cfg, err := LoadConfig(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 75, cfg.Validation.Threshold)
	testutil.AssertTrue(t, strings.Contains(strings.Join(cfg.Collector.SkipDirectories, ","), "node_modules"),
		"template skip list should carry node_modules")
}
