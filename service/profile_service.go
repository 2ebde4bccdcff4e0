package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/cache"
	"github.com/conformal-tools/conform/internal/config"
	"github.com/conformal-tools/conform/internal/profiler"
)

// ProfileServiceImpl implements domain.ProfileService by composing the
// collector, the profiler, and the profile cache
type ProfileServiceImpl struct {
	collector *Collector
	cacheCfg  config.CacheConfig
	logger    *slog.Logger
}

// NewProfileService creates a profile service
func NewProfileService(collector *Collector, cacheCfg config.CacheConfig, logger *slog.Logger) *ProfileServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileServiceImpl{
		collector: collector,
		cacheCfg:  cacheCfg,
		logger:    logger,
	}
}

// BuildProfile collects files under the request root and infers a
// fresh profile. The result is persisted when caching is enabled; a
// failed save is logged and never fails the build.
func (s *ProfileServiceImpl) BuildProfile(ctx context.Context, req domain.ProfileRequest) (*domain.PatternProfile, error) {
	records, err := s.collector.Collect(ctx, req.ProjectRoot)
	if err != nil {
		return nil, err
	}

	p := profiler.New(profiler.Policy{
		MinFilesForPattern:  req.MinFilesForPattern,
		ConfidenceThreshold: req.ConfidenceThreshold,
	}, s.logger)

	profile, err := p.Build(ctx, req.ProjectRoot, records)
	if err != nil {
		return nil, err
	}

	s.logger.Info("pattern profile built",
		"root", req.ProjectRoot,
		"files", profile.FileCount,
		"sampled", profile.Patterns.Imports.SampledFiles,
		"duration_ms", profile.AnalysisTimeMs)

	if s.cacheCfg.Enabled {
		store := s.store(req)
		if err := store.Save(profile); err != nil {
			s.logger.Warn("failed to persist profile cache", "path", store.Path(), "error", err)
		}
	}

	return profile, nil
}

// LoadOrBuild returns the cached profile when it is fresh, rebuilding
// otherwise. Cache problems are misses, never errors.
func (s *ProfileServiceImpl) LoadOrBuild(ctx context.Context, req domain.ProfileRequest) (*domain.PatternProfile, error) {
	if s.cacheCfg.Enabled && !req.ForceRefresh {
		if profile, hit := s.store(req).Load(); hit {
			s.logger.Debug("using cached pattern profile",
				"root", profile.ProjectRoot, "analyzed_at", profile.AnalyzedAt)
			return profile, nil
		}
	}
	if req.AutoBuild != nil && !*req.AutoBuild {
		return nil, domain.NewCacheError("no fresh profile cache and auto-build is disabled", nil)
	}
	return s.BuildProfile(ctx, req)
}

// store resolves the cache location for a request
func (s *ProfileServiceImpl) store(req domain.ProfileRequest) *cache.Store {
	path := req.CachePath
	if path == "" {
		path = s.cacheCfg.Path
	}
	if path == "" {
		path = cache.DefaultPath(req.ProjectRoot)
	}
	return cache.New(path, time.Duration(s.cacheCfg.TTLHours)*time.Hour, s.logger)
}
