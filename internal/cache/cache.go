// Package cache persists pattern profiles between runs so repeated
// validations skip the profiling pass. The cache is advisory: any
// missing, corrupt, stale, or incompatible entry is reported as a miss
// and never as an error.
package cache

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/constants"
)

// schemaVersion is bumped whenever the persisted profile layout
// changes; entries written by other versions are misses
const schemaVersion = 1

// envelope wraps a persisted profile with its schema version
type envelope struct {
	SchemaVersion int                    `json:"schema_version"`
	Profile       *domain.PatternProfile `json:"profile"`
}

// Store reads and writes one profile cache file
type Store struct {
	path   string
	ttl    time.Duration
	logger *slog.Logger
}

// DefaultTTL is how long a cached profile stays fresh
const DefaultTTL = constants.DefaultCacheTTLHours * time.Hour

// DefaultPath returns the standard cache location for a project root
func DefaultPath(projectRoot string) string {
	return filepath.Join(projectRoot, "."+constants.ToolName, "profile.json")
}

// New creates a store for the given cache file. A zero ttl means
// entries never expire.
func New(path string, ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, ttl: ttl, logger: logger}
}

// Path returns the cache file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached profile when it is present, parseable,
// schema-compatible, and fresh. Every other outcome is a miss.
func (s *Store) Load() (*domain.PatternProfile, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("cache unreadable, treating as miss", "path", s.path, "error", err)
		}
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Debug("cache corrupt, treating as miss", "path", s.path, "error", err)
		return nil, false
	}
	if env.SchemaVersion != schemaVersion || env.Profile == nil {
		s.logger.Debug("cache schema mismatch, treating as miss",
			"path", s.path, "found", env.SchemaVersion, "want", schemaVersion)
		return nil, false
	}
	if s.ttl > 0 && time.Since(env.Profile.AnalyzedAt) > s.ttl {
		s.logger.Debug("cache stale, treating as miss",
			"path", s.path, "analyzed_at", env.Profile.AnalyzedAt)
		return nil, false
	}

	return env.Profile, true
}

// Save persists the profile atomically: the entry is written to a
// temporary file in the same directory and renamed into place, so a
// crashed write never leaves a partial cache behind.
func (s *Store) Save(profile *domain.PatternProfile) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewCacheError("failed to create cache directory", err)
	}

	tmp, err := os.CreateTemp(dir, "profile-*.json.tmp")
	if err != nil {
		return domain.NewCacheError("failed to create temporary cache file", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope{SchemaVersion: schemaVersion, Profile: profile}); err != nil {
		tmp.Close()
		return domain.NewCacheError("failed to encode profile", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewCacheError("failed to flush cache file", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return domain.NewCacheError("failed to move cache file into place", err)
	}
	return nil
}
