package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/config"
	"github.com/conformal-tools/conform/service"
)

// ProfileConfig holds configuration for the profile use case
type ProfileConfig struct {
	ProjectRoot  string
	ForceRefresh bool
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer
}

// DefaultProfileConfig returns default configuration
func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		ProjectRoot:  ".",
		OutputFormat: domain.OutputFormatStructured,
		OutputWriter: os.Stdout,
	}
}

// ProfileUseCase builds or loads a pattern profile and renders it
type ProfileUseCase struct {
	cfg      *config.Config
	profiles domain.ProfileService
	logger   *slog.Logger
}

// NewProfileUseCase wires the profile service from the loaded
// configuration
func NewProfileUseCase(cfg *config.Config, logger *slog.Logger) *ProfileUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	collector := service.NewCollector(cfg.Collector, logger)
	return &ProfileUseCase{
		cfg:      cfg,
		profiles: service.NewProfileService(collector, cfg.Cache, logger),
		logger:   logger,
	}
}

// Execute builds (or loads) the profile and writes it in full
func (uc *ProfileUseCase) Execute(ctx context.Context, pc ProfileConfig) (*domain.PatternProfile, error) {
	root, err := filepath.Abs(pc.ProjectRoot)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project root", err)
	}

	req := domain.ProfileRequest{
		ProjectRoot:         root,
		CachePath:           uc.cfg.Cache.Path,
		ForceRefresh:        pc.ForceRefresh,
		MinFilesForPattern:  uc.cfg.Profile.MinFilesForPattern,
		ConfidenceThreshold: uc.cfg.Profile.ConfidenceThreshold,
	}

	profile, err := uc.profiles.LoadOrBuild(ctx, req)
	if err != nil {
		return nil, err
	}

	writer := pc.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}

	switch pc.OutputFormat {
	case domain.OutputFormatStructured, "":
		if err := service.WriteJSON(writer, profile); err != nil {
			return nil, domain.NewOutputError("failed to write profile", err)
		}
	case domain.OutputFormatYAML:
		// Round-trip through JSON so the YAML keys match the
		// snake_case names of the structured format.
		raw, err := json.Marshal(profile)
		if err != nil {
			return nil, domain.NewOutputError("failed to encode profile", err)
		}
		var tree map[string]interface{}
		if err := json.Unmarshal(raw, &tree); err != nil {
			return nil, domain.NewOutputError("failed to encode profile", err)
		}
		data, err := yaml.Marshal(tree)
		if err != nil {
			return nil, domain.NewOutputError("failed to encode profile", err)
		}
		if _, err := writer.Write(data); err != nil {
			return nil, domain.NewOutputError("failed to write profile", err)
		}
	default:
		return nil, domain.NewUnsupportedFormatError(string(pc.OutputFormat))
	}

	return profile, nil
}
