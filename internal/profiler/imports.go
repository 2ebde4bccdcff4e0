package profiler

import (
	"regexp"
	"strings"

	"github.com/conformal-tools/conform/domain"
)

// Import extraction patterns, matched per line
var (
	esImportRe   = regexp.MustCompile(`^\s*import\b[^'"]*['"]([^'"]+)['"]`)
	requireRe    = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	pyImportRe   = regexp.MustCompile(`^\s*(?:from\s+(\S+)\s+import\b|import\s+([\w.]+))`)
	bareImportRe = regexp.MustCompile(`^\s*import\s*['"]([^'"]+)['"]`)
)

// importStyleOrder fixes the tie-break order for the import-style tally
var importStyleOrder = []string{
	string(domain.ImportStyleRelative),
	string(domain.ImportStyleAlias),
	string(domain.ImportStyleAbsolute),
}

// ClassifyImportPath classifies one module path as relative, alias, or
// absolute. Alias prefixes come from configuration (default @/ and ~/).
func ClassifyImportPath(path string, aliasPrefixes []string) domain.ImportStyle {
	if strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") || path == "." || path == ".." {
		return domain.ImportStyleRelative
	}
	for _, prefix := range aliasPrefixes {
		if strings.HasPrefix(path, prefix) {
			return domain.ImportStyleAlias
		}
	}
	return domain.ImportStyleAbsolute
}

// FileImports is the per-file import scan result
type FileImports struct {
	// Paths are the module paths referenced by the file, in order
	Paths []string

	// Grouped is true when the file has more than 3 imports and at
	// least one blank line separates two of its import statements
	Grouped bool
}

// ScanImports extracts import statements from file content. Matching is
// line-based and best-effort; imports built dynamically or split across
// unusual line breaks are missed.
func ScanImports(content string) FileImports {
	var result FileImports
	lines := strings.Split(content, "\n")

	importLineIdx := make([]int, 0, 8)
	blankIdx := make(map[int]bool)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankIdx[i] = true
			continue
		}

		path := matchImportPath(line)
		if path == "" {
			continue
		}
		result.Paths = append(result.Paths, path)
		importLineIdx = append(importLineIdx, i)
	}

	if len(importLineIdx) > 3 {
		for k := 1; k < len(importLineIdx); k++ {
			for j := importLineIdx[k-1] + 1; j < importLineIdx[k]; j++ {
				if blankIdx[j] {
					result.Grouped = true
					return result
				}
			}
		}
	}

	return result
}

// matchImportPath extracts the module path from a single line, trying
// each import form in order
func matchImportPath(line string) string {
	if m := esImportRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := bareImportRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := requireRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := pyImportRe.FindStringSubmatch(line); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}
	return ""
}
