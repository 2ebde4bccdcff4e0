package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/testutil"
)

func sampleProfile() *domain.PatternProfile {
	return &domain.PatternProfile{
		ProjectRoot: "/tmp/project",
		AnalyzedAt:  time.Now(),
		FileCount:   12,
		Patterns: domain.ProjectPatterns{
			Naming: domain.NamingPatterns{
				Files: &domain.CategoryPattern{
					Counts:   map[string]int{"camelCase": 10, "PascalCase": 2},
					Dominant: &domain.DominantPattern{Pattern: "camelCase", Confidence: 10.0 / 12.0, TotalSamples: 12},
					Examples: []string{"userService.ts"},
				},
			},
			Structure: domain.StructurePatterns{
				FileLocations: map[string]*domain.LocationPattern{
					".ts": {Primary: "src", Count: 9, TotalSamples: 12, Alternatives: []string{"lib"}},
				},
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.json")
	store := New(path, DefaultTTL, nil)

	original := sampleProfile()
	testutil.AssertNoError(t, store.Save(original))

	loaded, hit := store.Load()
	testutil.AssertTrue(t, hit, "expected a cache hit")
	testutil.AssertEqual(t, original.ProjectRoot, loaded.ProjectRoot)
	testutil.AssertEqual(t, original.FileCount, loaded.FileCount)

	files := loaded.Patterns.Naming.Files
	testutil.AssertNotNil(t, files)
	testutil.AssertEqual(t, "camelCase", files.Dominant.Pattern)
	testutil.AssertEqual(t, 12, files.Dominant.TotalSamples)
	testutil.AssertEqual(t, 10, files.Counts["camelCase"])

	loc := loaded.Patterns.Structure.FileLocations[".ts"]
	testutil.AssertNotNil(t, loc)
	testutil.AssertEqual(t, "src", loc.Primary)
}

func TestLoadMissingIsMiss(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "profile.json"), DefaultTTL, nil)
	_, hit := store.Load()
	testutil.AssertFalse(t, hit, "missing file must be a miss")
}

func TestLoadCorruptIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	testutil.AssertNoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, hit := New(path, DefaultTTL, nil).Load()
	testutil.AssertFalse(t, hit, "corrupt file must be a miss, not an error")
}

func TestLoadSchemaMismatchIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	testutil.AssertNoError(t, os.WriteFile(path,
		[]byte(`{"schema_version": 99, "profile": {"project_root": "/x"}}`), 0o644))

	_, hit := New(path, DefaultTTL, nil).Load()
	testutil.AssertFalse(t, hit, "unknown schema version must be a miss")
}

func TestLoadStaleIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	store := New(path, time.Hour, nil)

	profile := sampleProfile()
	profile.AnalyzedAt = time.Now().Add(-2 * time.Hour)
	testutil.AssertNoError(t, store.Save(profile))

	_, hit := store.Load()
	testutil.AssertFalse(t, hit, "expired entry must be a miss")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	store := New(path, 0, nil)

	profile := sampleProfile()
	profile.AnalyzedAt = time.Now().Add(-100 * 24 * time.Hour)
	testutil.AssertNoError(t, store.Save(profile))

	_, hit := store.Load()
	testutil.AssertTrue(t, hit, "zero ttl entries never expire")
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "profile.json"), DefaultTTL, nil)
	testutil.AssertNoError(t, store.Save(sampleProfile()))

	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 1, len(entries))
	testutil.AssertEqual(t, "profile.json", entries[0].Name())
}

func TestDefaultPath(t *testing.T) {
	testutil.AssertEqual(t, filepath.Join("/repo", ".conform", "profile.json"), DefaultPath("/repo"))
}
