package validator

import (
	"regexp"

	"github.com/conformal-tools/conform/domain"
)

// securityRule pairs a pattern with a fixed severity. The catalog is
// deliberately small and regex-based; matches inside strings or
// comments are accepted as the cost of staying parser-free.
type securityRule struct {
	name     string
	severity domain.Severity
	re       *regexp.Regexp
	message  string
	advice   string
}

var securityRules = []securityRule{
	{
		name:     "eval-usage",
		severity: domain.SeverityCritical,
		re:       regexp.MustCompile(`\beval\s*\(|\bnew\s+Function\s*\(`),
		message:  "Dynamic code execution via eval or new Function",
		advice:   "Remove eval and new Function; use data, not code, for dynamic behavior",
	},
	{
		name:     "hardcoded-credential",
		severity: domain.SeverityCritical,
		re:       regexp.MustCompile(`(?i)\b(api[_-]?key|apikey|secret|password|passwd|token|access[_-]?key)\s*[:=]\s*['"][^'"]{8,}['"]`),
		message:  "Hardcoded credential in source",
		advice:   "Load credentials from the environment or a secret store",
	},
	{
		name:     "raw-html-injection",
		severity: domain.SeverityHigh,
		re:       regexp.MustCompile(`\.innerHTML\s*=|dangerouslySetInnerHTML`),
		message:  "Raw HTML assignment can allow script injection",
		advice:   "Assign textContent or sanitize markup before rendering",
	},
	{
		name:     "sql-interpolation",
		severity: domain.SeverityHigh,
		re:       regexp.MustCompile("(?i)(select|insert|update|delete)\\s[^\"'`\\n]*(\\$\\{|['\"]\\s*\\+)"),
		message:  "SQL statement built by string interpolation",
		advice:   "Use parameterized queries instead of string concatenation",
	},
	{
		name:     "document-write",
		severity: domain.SeverityMedium,
		re:       regexp.MustCompile(`\bdocument\.write\s*\(`),
		message:  "document.write blocks rendering and enables injection",
		advice:   "Build DOM nodes instead of calling document.write",
	},
}

// SecurityCheck scans for a fixed catalog of dangerous constructs.
// Unlike the other dimensions it does not consult the profile; the
// rules apply to every project uniformly.
type SecurityCheck struct{}

// Dimension implements DimensionCheck
func (c *SecurityCheck) Dimension() domain.Dimension {
	return domain.DimensionSecurity
}

// Check implements DimensionCheck
func (c *SecurityCheck) Check(input CheckInput) []SubResult {
	result := SubResult{Name: "dangerous-patterns", Score: 100}

	for _, rule := range securityRules {
		for _, loc := range rule.re.FindAllStringIndex(input.Content, -1) {
			result.Score -= rule.severity.Deduction()
			result.Issues = append(result.Issues, domain.Issue{
				Type:     rule.name,
				Severity: rule.severity,
				Message:  rule.message,
				File:     input.Path,
				Line:     lineOfOffset(input.Content, loc[0]),
			})
			result.Suggestions = append(result.Suggestions, rule.advice)
		}
	}

	result.Score = clampScore(result.Score)
	return []SubResult{result}
}
