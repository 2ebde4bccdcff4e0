package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/testutil"
)

func validationRequest(root string, files []string) domain.ValidationRequest {
	return domain.ValidationRequest{
		ProjectRoot:         root,
		TargetFiles:         files,
		Threshold:           75,
		Weights:             domain.DefaultDimensionWeights(),
		Iteration:           1,
		MaxIterations:       3,
		ConfidenceThreshold: 0.7,
	}
}

func TestValidatePreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTestTree(t, dir, map[string]string{
		"src/zeta.ts":  "// Works.\nfunction zeta() {}\n",
		"src/alpha.ts": "// Works.\nfunction alpha() {}\n",
		"src/mid.ts":   "// Works.\nfunction mid() {}\n",
	})

	files := []string{
		filepath.Join(dir, "src/zeta.ts"),
		filepath.Join(dir, "src/alpha.ts"),
		filepath.Join(dir, "src/mid.ts"),
	}

	svc := NewValidationService(nil, nil, nil)
	summary, err := svc.Validate(context.Background(), &domain.PatternProfile{}, validationRequest(dir, files))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 3, len(summary.Files))

	for i, file := range files {
		testutil.AssertEqual(t, file, summary.Files[i].File)
	}
}

func TestValidateUnreadableFileContained(t *testing.T) {
	dir := t.TempDir()
	ok := testutil.WriteTestFile(t, dir, "src/ok.ts", "// Works.\nfunction works() {}\n")
	missing := filepath.Join(dir, "src/missing.ts")

	svc := NewValidationService(nil, nil, nil)
	summary, err := svc.Validate(context.Background(), &domain.PatternProfile{}, validationRequest(dir, []string{ok, missing}))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 2, len(summary.Files))
	testutil.AssertTrue(t, summary.Files[0].Passed, "readable clean file should pass")
	testutil.AssertFalse(t, summary.Files[1].Passed, "unreadable file must fail")
	testutil.AssertTrue(t, summary.Files[1].Error != "", "unreadable file must record its error")
	testutil.AssertEqual(t, 1, summary.PassedCount)
	testutil.AssertEqual(t, 1, summary.FailedCount)
	testutil.AssertFalse(t, summary.AllPassed, "a failing file blocks AllPassed")
}

func TestValidateCancelledContext(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTestTree(t, dir, map[string]string{
		"src/a.ts": "// Works.\nfunction a() {}\n",
		"src/b.ts": "// Works.\nfunction b() {}\n",
		"src/c.ts": "// Works.\nfunction c() {}\n",
	})
	files := []string{
		filepath.Join(dir, "src/a.ts"),
		filepath.Join(dir, "src/b.ts"),
		filepath.Join(dir, "src/c.ts"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewValidationService(nil, nil, nil)
	summary, err := svc.Validate(ctx, &domain.PatternProfile{}, validationRequest(dir, files))
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, context.Canceled), "an interrupted pass surfaces the context error")
	if summary != nil {
		t.Fatal("an interrupted pass must not produce a summary")
	}
}

func TestValidatorConfigThreshold(t *testing.T) {
	svc := NewValidationService(nil, nil, nil)

	req := validationRequest("", nil)
	req.Threshold = 0
	testutil.AssertEqual(t, 0, svc.validatorConfig(req).Threshold)

	req.Threshold = -1
	testutil.AssertEqual(t, 75, svc.validatorConfig(req).Threshold)
}

func TestValidateThresholdZero(t *testing.T) {
	dir := t.TempDir()
	risky := strings.Join([]string{
		`const apiKey = "abcd1234efgh5678";`,
		`eval("2 + 2");`,
		`const make = new Function("x", "return x");`,
		`el.innerHTML = userInput;`,
		`document.write(banner);`,
		`try { render(); } catch (e) {}`,
		"// " + strings.Repeat("p", 130),
		"// " + strings.Repeat("q", 130),
		"// " + strings.Repeat("r", 130),
		"// " + strings.Repeat("s", 130),
		"// " + strings.Repeat("t", 130),
		"",
	}, "\n")
	path := testutil.WriteTestFile(t, dir, "src/legacy.ts", risky)

	svc := NewValidationService(nil, nil, nil)
	profile := &domain.PatternProfile{}

	req := validationRequest(dir, []string{path})
	strict, err := svc.Validate(context.Background(), profile, req)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, strict.Files[0].Passed, "this file scores well below 75")

	req.Threshold = 0
	open, err := svc.Validate(context.Background(), profile, req)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 0, open.Threshold)
	testutil.AssertTrue(t, open.Files[0].Passed, "threshold 0 admits every score")
}

func TestValidateEmptyTargets(t *testing.T) {
	svc := NewValidationService(nil, nil, nil)
	_, err := svc.Validate(context.Background(), &domain.PatternProfile{}, validationRequest("", nil))
	testutil.AssertError(t, err)
}

func TestValidateFileUsesRelativeDir(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTestFile(t, dir, "src/services/api.ts", "// Works.\nfunction api() {}\n")

	profile := &domain.PatternProfile{
		Patterns: domain.ProjectPatterns{
			Structure: domain.StructurePatterns{
				FileLocations: map[string]*domain.LocationPattern{
					".ts": {Primary: "src/components", Count: 10, TotalSamples: 10},
				},
			},
		},
	}

	svc := NewValidationService(nil, nil, nil)
	report := svc.ValidateFile(context.Background(), path, profile, validationRequest(dir, nil))

	found := false
	for _, issue := range report.Issues {
		if issue.Type == "file-location" {
			found = true
			testutil.AssertEqual(t, "src/services", issue.CurrentValue)
		}
	}
	testutil.AssertTrue(t, found, "placement should be checked against the project-relative directory")
}

func TestSummarize(t *testing.T) {
	reports := []domain.FileQualityReport{
		{File: "a.ts", OverallScore: 90, Passed: true},
		{File: "b.ts", OverallScore: 60, Passed: false},
		{File: "c.ts", OverallScore: 81, Passed: true},
	}

	req := validationRequest("", nil)
	summary := Summarize(reports, req)

	testutil.AssertEqual(t, 2, summary.PassedCount)
	testutil.AssertEqual(t, 1, summary.FailedCount)
	testutil.AssertEqual(t, 77.0, summary.AverageScore)
	testutil.AssertFalse(t, summary.AllPassed, "one failure blocks AllPassed")
	testutil.AssertTrue(t, summary.NeedsRefinement, "failures within budget need refinement")
	testutil.AssertEqual(t, domain.SessionStateNeedsRefinement, summary.State())
}

func TestSummarizeAllPassed(t *testing.T) {
	reports := []domain.FileQualityReport{
		{File: "a.ts", OverallScore: 90, Passed: true},
	}
	summary := Summarize(reports, validationRequest("", nil))

	testutil.AssertTrue(t, summary.AllPassed, "every file passed")
	testutil.AssertFalse(t, summary.NeedsRefinement, "passing runs never need refinement")
	testutil.AssertEqual(t, domain.SessionStatePassed, summary.State())
}

func TestSummarizeEscalation(t *testing.T) {
	reports := []domain.FileQualityReport{
		{File: "a.ts", OverallScore: 40, Passed: false},
	}
	req := validationRequest("", nil)
	req.Iteration = 3
	summary := Summarize(reports, req)

	testutil.AssertFalse(t, summary.NeedsRefinement, "exhausted budget stops refinement")
	testutil.AssertEqual(t, domain.SessionStateEscalated, summary.State())
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, validationRequest("", nil))
	testutil.AssertEqual(t, 0.0, summary.AverageScore)
	testutil.AssertFalse(t, summary.AllPassed, "an empty pass proves nothing")
}

func TestSummarizeAverageRounding(t *testing.T) {
	reports := []domain.FileQualityReport{
		{OverallScore: 100, Passed: true},
		{OverallScore: 100, Passed: true},
		{OverallScore: 50, Passed: false},
	}
	summary := Summarize(reports, validationRequest("", nil))
	testutil.AssertEqual(t, 83.3, summary.AverageScore)
}
