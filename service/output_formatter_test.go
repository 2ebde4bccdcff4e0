package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/testutil"
)

func sampleSummary() *domain.RefinementSummary {
	return &domain.RefinementSummary{
		Iteration:     1,
		MaxIterations: 3,
		Threshold:     75,
		Files: []domain.FileQualityReport{
			{
				File:            "src/good.ts",
				DimensionScores: domain.DimensionScores{Consistency: 100, Completeness: 100, Security: 100, Maintainability: 100},
				OverallScore:    100,
				Issues:          []domain.Issue{},
				Suggestions:     []string{},
				Passed:          true,
			},
			{
				File:            "src/bad.ts",
				DimensionScores: domain.DimensionScores{Consistency: 85, Completeness: 90, Security: 50, Maintainability: 100},
				OverallScore:    79,
				Issues: []domain.Issue{
					{Type: "eval-usage", Severity: domain.SeverityCritical, Message: "Dynamic code execution via eval or new Function", File: "src/bad.ts", Line: 12},
				},
				Suggestions: []string{"Remove eval and new Function; use data, not code, for dynamic behavior"},
				Passed:      false,
			},
		},
		AverageScore:    89.5,
		PassedCount:     1,
		FailedCount:     1,
		AllPassed:       false,
		NeedsRefinement: true,
	}
}

func sampleMeta() *domain.PatternProfile {
	return &domain.PatternProfile{
		ProjectRoot: "/tmp/project",
		AnalyzedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		FileCount:   42,
		TechStack:   domain.TechStack{Languages: []string{"TypeScript"}},
	}
}

func TestWriteStructured(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleSummary(), sampleMeta(), domain.OutputFormatStructured, &buf)
	testutil.AssertNoError(t, err)

	var resp RefinementResponse
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &resp))
	testutil.AssertEqual(t, domain.SessionStateNeedsRefinement, resp.State)
	testutil.AssertEqual(t, 2, len(resp.Summary.Files))
	testutil.AssertEqual(t, 42, resp.Profile.FileCount)
	testutil.AssertEqual(t, "src/bad.ts", resp.Summary.Files[1].File)
	testutil.AssertEqual(t, domain.SeverityCritical, resp.Summary.Files[1].Issues[0].Severity)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleSummary(), sampleMeta(), domain.OutputFormatYAML, &buf)
	testutil.AssertNoError(t, err)

	var resp RefinementResponse
	testutil.AssertNoError(t, yaml.Unmarshal(buf.Bytes(), &resp))
	testutil.AssertEqual(t, 1, resp.Summary.PassedCount)
	testutil.AssertEqual(t, 75, resp.Summary.Threshold)
}

func TestWriteNarrativeDetailed(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleSummary(), sampleMeta(), domain.OutputFormatNarrativeDetailed, &buf)
	testutil.AssertNoError(t, err)

	out := buf.String()
	testutil.AssertTrue(t, strings.Contains(out, "src/bad.ts"), "failing file must appear")
	testutil.AssertTrue(t, strings.Contains(out, "src/good.ts"), "detailed output includes passing files")
	testutil.AssertTrue(t, strings.Contains(out, "src/bad.ts:12"), "issue line numbers must appear")
	testutil.AssertTrue(t, strings.Contains(out, "need refinement"), "non-terminal passes prompt a re-run")
}

func TestWriteNarrativeSummaryOmitsPassing(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleSummary(), sampleMeta(), domain.OutputFormatNarrativeSummary, &buf)
	testutil.AssertNoError(t, err)

	out := buf.String()
	testutil.AssertTrue(t, strings.Contains(out, "src/bad.ts"), "failing file must appear")
	testutil.AssertFalse(t, strings.Contains(out, "src/good.ts"), "summary output hides passing files")
}

func TestWriteNarrativeEscalation(t *testing.T) {
	summary := sampleSummary()
	summary.Iteration = 3
	summary.NeedsRefinement = false

	var buf bytes.Buffer
	err := NewOutputFormatter().Write(summary, nil, domain.OutputFormatNarrativeSummary, &buf)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, strings.Contains(buf.String(), "Escalating to human review"),
		"exhausted budget must announce escalation")
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleSummary(), nil, domain.OutputFormat("xml"), &buf)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, strings.Contains(err.Error(), "UNSUPPORTED_FORMAT"), "error should carry the domain code")
}
