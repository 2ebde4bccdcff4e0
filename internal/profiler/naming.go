package profiler

import (
	"regexp"
	"strings"

	"github.com/conformal-tools/conform/domain"
)

// Classification rules for naming styles. The rules are mutually
// exclusive because they are tested in the fixed order defined by
// domain.NamingStyleOrder: UPPER_CASE wins over PascalCase for
// single-letter identifiers like "A", and camelCase absorbs
// underscore-free lowercase identifiers before snake_case is tried.
var (
	upperCaseRe  = regexp.MustCompile(`^[A-Z][A-Z0-9]*(_[A-Z0-9]+)*$`)
	pascalCaseRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	camelCaseRe  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	snakeCaseRe  = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)+$`)
	kebabCaseRe  = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)+$`)
)

// ClassifyIdentifier assigns an identifier to exactly one naming class.
// Rules are applied in the fixed enumeration order; anything matching
// none of them is NamingStyleOther.
func ClassifyIdentifier(name string) domain.NamingStyle {
	name = strings.TrimPrefix(name, "$")
	name = strings.TrimPrefix(name, "_")
	if name == "" {
		return domain.NamingStyleOther
	}

	switch {
	case upperCaseRe.MatchString(name):
		return domain.NamingStyleUpperCase
	case pascalCaseRe.MatchString(name):
		return domain.NamingStylePascalCase
	case camelCaseRe.MatchString(name):
		return domain.NamingStyleCamelCase
	case snakeCaseRe.MatchString(name):
		return domain.NamingStyleSnakeCase
	case kebabCaseRe.MatchString(name):
		return domain.NamingStyleKebabCase
	default:
		return domain.NamingStyleOther
	}
}

// ClassifyFileName classifies a file base name by its leading segment,
// so "userProfile.test.tsx" is judged on "userProfile".
func ClassifyFileName(name string) domain.NamingStyle {
	base := name
	if idx := strings.IndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	return ClassifyIdentifier(base)
}

// namingOrderStrings is NamingStyleOrder as plain strings for tallies
var namingOrderStrings = func() []string {
	order := make([]string, len(domain.NamingStyleOrder))
	for i, s := range domain.NamingStyleOrder {
		order[i] = string(s)
	}
	return order
}()

// dominantFromCounts picks the highest-count class from a frequency
// table. Ties are broken by whichever class comes first in order;
// classes not listed in order lose every tie and otherwise rank by
// first lexicographic occurrence so the result stays deterministic.
func dominantFromCounts(counts map[string]int, order []string) *domain.DominantPattern {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil
	}

	best := ""
	bestCount := -1
	seen := make(map[string]bool, len(counts))

	for _, class := range order {
		seen[class] = true
		if c := counts[class]; c > bestCount {
			best = class
			bestCount = c
		}
	}

	// Classes outside the fixed order (free-form categories such as
	// directory names) are ranked deterministically by sorted key.
	for _, class := range sortedKeys(counts) {
		if seen[class] {
			continue
		}
		if counts[class] > bestCount {
			best = class
			bestCount = counts[class]
		}
	}

	if bestCount <= 0 {
		return nil
	}

	return &domain.DominantPattern{
		Pattern:      best,
		Confidence:   float64(bestCount) / float64(total),
		TotalSamples: total,
	}
}

// tally accumulates classified samples into a CategoryPattern
type tally struct {
	counts   map[string]int
	examples []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

// add records one sample of the given class, keeping a bounded example set
func (t *tally) add(class, example string) {
	t.counts[class]++
	if len(t.examples) < domain.MaxPatternExamples {
		t.examples = append(t.examples, example)
	}
}

func (t *tally) total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// toCategory converts the tally to a CategoryPattern, or nil when empty
// so categories without samples stay absent rather than zero-valued.
func (t *tally) toCategory(order []string) *domain.CategoryPattern {
	if t.total() == 0 {
		return nil
	}
	return &domain.CategoryPattern{
		Counts:   t.counts,
		Dominant: dominantFromCounts(t.counts, order),
		Examples: t.examples,
	}
}
