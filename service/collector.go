package service

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/config"
)

// errFileLimitReached stops the walk once MaxFiles records are collected
var errFileLimitReached = errors.New("file limit reached")

// Collector discovers the files a profiling or validation pass will
// operate on. Unreadable directories are logged and skipped; the walk
// only aborts on context cancellation.
type Collector struct {
	cfg    config.CollectorConfig
	logger *slog.Logger
}

// NewCollector creates a collector with the given configuration
func NewCollector(cfg config.CollectorConfig, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{cfg: cfg, logger: logger}
}

// Collect walks the project root and returns the matching file records
// sorted by relative path. When MaxFiles is reached the partial result
// is returned without error.
func (c *Collector) Collect(ctx context.Context, root string) ([]domain.FileRecord, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid project root", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, domain.NewFileNotFoundError(absRoot, err)
	}
	if !info.IsDir() {
		return nil, domain.NewInvalidInputError("project root must be a directory", nil)
	}

	var ignore *gitignore.GitIgnore
	if c.cfg.RespectGitignore {
		if gi, err := gitignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
			ignore = gi
		}
	}

	skipDirs := make(map[string]bool, len(c.cfg.SkipDirectories))
	for _, d := range c.cfg.SkipDirectories {
		skipDirs[d] = true
	}
	extensions := make(map[string]bool, len(c.cfg.Extensions))
	for _, e := range c.cfg.Extensions {
		extensions[strings.ToLower(e)] = true
	}

	var records []domain.FileRecord

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.logger.Warn("skipping unreadable path during collection",
				"error", domain.NewCollectionError(path, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == absRoot {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if c.cfg.MaxDepth > 0 && pathDepth(rel) > c.cfg.MaxDepth {
				return fs.SkipDir
			}
			if ignore != nil && ignore.MatchesPath(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if c.matchesSkipPattern(name) {
			return nil
		}
		if ignore != nil && ignore.MatchesPath(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(name))
		if len(extensions) > 0 && !extensions[ext] {
			return nil
		}

		records = append(records, domain.FileRecord{
			Path:         path,
			RelativePath: rel,
			Name:         name,
			Extension:    ext,
			Directory:    dirOf(rel),
		})

		if c.cfg.MaxFiles > 0 && len(records) >= c.cfg.MaxFiles {
			return errFileLimitReached
		}
		return nil
	})

	if errors.Is(walkErr, errFileLimitReached) {
		c.logger.Info("file limit reached, returning partial collection",
			"limit", c.cfg.MaxFiles, "root", absRoot)
		walkErr = nil
	}
	if walkErr != nil {
		// An interrupted walk is not a read failure; hand the context
		// error back as-is
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, domain.NewCollectionError("file collection failed", walkErr)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RelativePath < records[j].RelativePath
	})
	return records, nil
}

// matchesSkipPattern reports whether a file name matches a skip
// pattern. A leading * makes the pattern a suffix match, otherwise the
// whole name must match.
func (c *Collector) matchesSkipPattern(name string) bool {
	for _, pattern := range c.cfg.SkipFilePatterns {
		if strings.HasPrefix(pattern, "*") {
			if strings.HasSuffix(name, pattern[1:]) {
				return true
			}
			continue
		}
		if name == pattern {
			return true
		}
	}
	return false
}

// pathDepth counts the directory levels of a slash-separated relative path
func pathDepth(rel string) int {
	return strings.Count(rel, "/") + 1
}

// dirOf returns the directory portion of a relative path, "." at the root
func dirOf(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	return dir
}
