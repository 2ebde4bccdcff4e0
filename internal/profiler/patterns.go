package profiler

import (
	"regexp"
	"sort"
	"strings"
)

// Token patterns for identifier extraction. These are deliberately
// broad, best-effort matches across languages rather than AST-accurate
// parses: a declaration inside a string literal or comment will be
// miscounted, and that tolerance is accepted by design.
var (
	functionDeclRes = []*regexp.Regexp{
		regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)\s*\(`),
		regexp.MustCompile(`\bdef\s+([A-Za-z_]\w*)\s*\(`),
		regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*\(`),
		regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`),
	}

	classDeclRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:class|interface|enum)\s+([A-Za-z_][\w]*)`),
		regexp.MustCompile(`\btype\s+([A-Za-z_]\w*)\s+(?:struct|interface)\b`),
	}

	constantDeclRes = []*regexp.Regexp{
		regexp.MustCompile(`\bconst\s+([A-Z][A-Z0-9_]*)\s*[=:]`),
		regexp.MustCompile(`(?m)^([A-Z][A-Z0-9_]{2,})\s*=`),
	}

	variableDeclRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:let|var)\s+([A-Za-z_$][\w$]*)\b`),
		regexp.MustCompile(`\bconst\s+([a-z$][\w$]*)\s*=`),
	}
)

// reservedIdentifiers are matched by the broad token patterns but carry
// no naming signal of their own
var reservedIdentifiers = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "return": true,
	"function": true, "async": true, "await": true, "new": true, "typeof": true,
}

// moduleExtensions are the extensions whose files are inspected for
// imports, error handling, and documentation conventions
var moduleExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".mjs": true, ".cjs": true, ".mts": true, ".cts": true,
	".py": true, ".go": true,
}

// IsModuleFile reports whether files with the extension are inspected
// for code-level conventions
func IsModuleFile(ext string) bool {
	return moduleExtensions[ext]
}

// extractAll runs a set of token patterns over content and returns the
// captured identifiers, filtering reserved words
func extractAll(res []*regexp.Regexp, content string) []string {
	var out []string
	for _, re := range res {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			name := m[1]
			if name == "" || reservedIdentifiers[name] {
				continue
			}
			out = append(out, name)
		}
	}
	return out
}

// ExtractFunctionNames returns the function identifiers declared in
// content, best-effort
func ExtractFunctionNames(content string) []string {
	return extractAll(functionDeclRes, content)
}

// functionDeclLineRe marks lines that open a function, used for the
// documentation-ratio scan
var functionDeclLineRe = regexp.MustCompile(`\bfunction\s+[A-Za-z_$]|\bdef\s+[A-Za-z_]|\bfunc\s+|\b(?:const|let|var)\s+[A-Za-z_$][\w$]*\s*=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`)

// commentLineRe marks lines that are comments or the tail of a block comment
var commentLineRe = regexp.MustCompile(`^\s*(//|/\*|\*|#|"""|''')|\*/\s*$`)

// CountFunctions scans content line by line and returns the number of
// function declarations plus how many are immediately preceded by a
// comment line. Line scanning over raw text is approximate: braces and
// keywords inside string literals are counted too.
func CountFunctions(content string) (total, documented int) {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !functionDeclLineRe.MatchString(line) {
			continue
		}
		total++
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			prev := strings.TrimSpace(lines[j])
			if prev == "" {
				continue
			}
			if commentLineRe.MatchString(lines[j]) {
				documented++
			}
			break
		}
	}
	return total, documented
}

// Error-handling idiom patterns. The block pattern deliberately
// excludes `.catch(` so the two idioms never double count.
var (
	blockCatchRe   = regexp.MustCompile(`(?:^|[^.\w])catch\s*[({]|\bexcept\b`)
	promiseCatchRe = regexp.MustCompile(`\.catch\s*\(`)

	structuredLogRe = regexp.MustCompile(`\b(?:logger|log|slog|winston|pino)\.(?:trace|debug|info|warn|warning|error|fatal)\s*\(`)
	consoleCallRe   = regexp.MustCompile(`\bconsole\.(?:log|info|warn|error|debug)\s*\(|(?:^|[^.\w])print\s*\(`)
)

// CountErrorStyles returns block-based vs promise-based handler counts
func CountErrorStyles(content string) (blockCount, promiseCount int) {
	return len(blockCatchRe.FindAllString(content, -1)),
		len(promiseCatchRe.FindAllString(content, -1))
}

// CountLogCalls returns structured-logger vs console/print call counts
func CountLogCalls(content string) (structured, console int) {
	return len(structuredLogRe.FindAllString(content, -1)),
		len(consoleCallRe.FindAllString(content, -1))
}

// Test layout detection

// TestNamingScheme classifies a test file name into its scheme, or ""
// for non-test files
func TestNamingScheme(name string) string {
	base := strings.ToLower(name)
	switch {
	case strings.Contains(base, ".test."):
		return ".test"
	case strings.Contains(base, ".spec."):
		return ".spec"
	case strings.Contains(base, "_test."):
		return "_test"
	case strings.HasPrefix(base, "test_"):
		return "test_"
	default:
		return ""
	}
}

// testDirNames are directory segments that mark a dedicated test tree
var testDirNames = map[string]bool{
	"__tests__": true, "test": true, "tests": true, "spec": true, "testdata": true,
}

// TestLocationScheme reports whether a test file lives in a dedicated
// test directory or alongside the source it covers
func TestLocationScheme(directory string) string {
	for _, seg := range strings.Split(directory, "/") {
		if testDirNames[strings.ToLower(seg)] {
			return "test-directory"
		}
	}
	return "alongside-source"
}

// sortedKeys returns the map keys in lexicographic order
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
