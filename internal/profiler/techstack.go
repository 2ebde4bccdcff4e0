package profiler

import (
	"sort"

	"github.com/conformal-tools/conform/domain"
)

// languageByExtension maps file extensions to language names
var languageByExtension = map[string]string{
	".js": "JavaScript", ".jsx": "JavaScript", ".mjs": "JavaScript", ".cjs": "JavaScript",
	".ts": "TypeScript", ".tsx": "TypeScript", ".mts": "TypeScript", ".cts": "TypeScript",
	".py": "Python", ".go": "Go", ".rb": "Ruby", ".java": "Java",
	".rs": "Rust", ".php": "PHP", ".cs": "C#",
}

// frameworkByManifest maps well-known files to framework/tooling names
var frameworkByManifest = map[string]string{
	"next.config.js":     "Next.js",
	"next.config.mjs":    "Next.js",
	"nuxt.config.ts":     "Nuxt",
	"vite.config.ts":     "Vite",
	"vite.config.js":     "Vite",
	"angular.json":       "Angular",
	"svelte.config.js":   "Svelte",
	"django_settings.py": "Django",
	"manage.py":          "Django",
	"Gemfile":            "Rails",
}

var testingByManifest = map[string]string{
	"jest.config.js":       "Jest",
	"jest.config.ts":       "Jest",
	"vitest.config.ts":     "Vitest",
	"vitest.config.js":     "Vitest",
	"playwright.config.ts": "Playwright",
	"cypress.config.ts":    "Cypress",
	"pytest.ini":           "pytest",
	"conftest.py":          "pytest",
}

var databaseByManifest = map[string]string{
	"schema.prisma":      "Prisma",
	"knexfile.js":        "Knex",
	"alembic.ini":        "Alembic",
	"docker-compose.yml": "docker-compose",
}

// DetectTechStack infers the project's technology summary from file
// extensions and well-known manifest files
func DetectTechStack(records []domain.FileRecord) domain.TechStack {
	languages := make(map[string]bool)
	frameworks := make(map[string]bool)
	testing := make(map[string]bool)
	database := make(map[string]bool)

	for _, r := range records {
		if lang, ok := languageByExtension[r.Extension]; ok {
			languages[lang] = true
		}
		if fw, ok := frameworkByManifest[r.Name]; ok {
			frameworks[fw] = true
		}
		if tool, ok := testingByManifest[r.Name]; ok {
			testing[tool] = true
		}
		if db, ok := databaseByManifest[r.Name]; ok {
			database[db] = true
		}
		if scheme := TestNamingScheme(r.Name); scheme != "" && len(testing) == 0 {
			// A test file without a runner manifest still signals a test setup
			switch scheme {
			case ".test", ".spec":
				testing["Jest"] = true
			case "test_", "_test":
				if r.Extension == ".py" {
					testing["pytest"] = true
				} else if r.Extension == ".go" {
					testing["go test"] = true
				}
			}
		}
	}

	return domain.TechStack{
		Languages:  setToSorted(languages),
		Frameworks: setToSorted(frameworks),
		Testing:    setToSorted(testing),
		Database:   setToSorted(database),
	}
}

func setToSorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
