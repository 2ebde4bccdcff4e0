package domain

import (
	"errors"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"invalid input", NewInvalidInputError("bad input", nil), ErrCodeInvalidInput},
		{"file not found", NewFileNotFoundError("/path/to/file", nil), ErrCodeFileNotFound},
		{"collection", NewCollectionError("cannot read dir", nil), ErrCodeCollectionError},
		{"cache", NewCacheError("corrupt cache", nil), ErrCodeCacheError},
		{"validation", NewValidationError("cannot read file", nil), ErrCodeValidationError},
		{"config", NewConfigError("invalid threshold", nil), ErrCodeConfigError},
		{"output", NewOutputError("write failed", nil), ErrCodeOutputError},
		{"unsupported format", NewUnsupportedFormatError("xml"), ErrCodeUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domainErr, ok := tt.err.(DomainError)
			if !ok {
				t.Fatal("Should return DomainError type")
			}
			if domainErr.Code != tt.wantCode {
				t.Errorf("Expected code '%s', got '%s'", tt.wantCode, domainErr.Code)
			}
		})
	}
}

func TestNewFileNotFoundError_Message(t *testing.T) {
	err := NewFileNotFoundError("/path/to/file", nil)

	domainErr := err.(DomainError)
	if domainErr.Message != "file not found: /path/to/file" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

// Severity tests

func TestSeverity_Rank(t *testing.T) {
	ordered := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("Rank of %s should be below %s", ordered[i-1], ordered[i])
		}
	}
	if Severity("bogus").Rank() <= SeverityInfo.Rank() {
		t.Error("Unknown severity should rank below info")
	}
}

func TestSeverity_Deduction(t *testing.T) {
	deductions := map[Severity]int{
		SeverityCritical: 25,
		SeverityHigh:     15,
		SeverityMedium:   10,
		SeverityLow:      5,
		SeverityInfo:     0,
	}

	for severity, expected := range deductions {
		if severity.Deduction() != expected {
			t.Errorf("Deduction for %s should be %d, got %d", severity, expected, severity.Deduction())
		}
	}
}

// Output format tests

func TestOutputFormat_Constants(t *testing.T) {
	formats := map[OutputFormat]string{
		OutputFormatStructured:        "structured",
		OutputFormatYAML:              "yaml",
		OutputFormatNarrativeDetailed: "narrative-detailed",
		OutputFormatNarrativeSummary:  "narrative-summary",
	}

	for format, expected := range formats {
		if string(format) != expected {
			t.Errorf("OutputFormat %s should equal '%s'", format, expected)
		}
	}
}

// Naming style tests

func TestNamingStyleOrder_IsFixed(t *testing.T) {
	expected := []NamingStyle{
		NamingStyleUpperCase,
		NamingStylePascalCase,
		NamingStyleCamelCase,
		NamingStyleSnakeCase,
		NamingStyleKebabCase,
		NamingStyleOther,
	}

	if len(NamingStyleOrder) != len(expected) {
		t.Fatalf("NamingStyleOrder should have %d entries, got %d", len(expected), len(NamingStyleOrder))
	}
	for i, style := range expected {
		if NamingStyleOrder[i] != style {
			t.Errorf("NamingStyleOrder[%d] should be %s, got %s", i, style, NamingStyleOrder[i])
		}
	}
}

// Weights tests

func TestDefaultDimensionWeights(t *testing.T) {
	w := DefaultDimensionWeights()

	if w.Consistency != 0.35 {
		t.Errorf("Consistency weight should be 0.35, got %f", w.Consistency)
	}
	if w.Completeness != 0.25 {
		t.Errorf("Completeness weight should be 0.25, got %f", w.Completeness)
	}
	if w.Security != 0.25 {
		t.Errorf("Security weight should be 0.25, got %f", w.Security)
	}
	if w.Maintainability != 0.15 {
		t.Errorf("Maintainability weight should be 0.15, got %f", w.Maintainability)
	}
	if diff := w.Sum() - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Default weights should sum to 1.0, got %f", w.Sum())
	}
}

// Refinement summary tests

func TestRefinementSummary_State(t *testing.T) {
	tests := []struct {
		name    string
		summary RefinementSummary
		want    SessionState
	}{
		{
			name:    "all passed",
			summary: RefinementSummary{AllPassed: true, Iteration: 1, MaxIterations: 3},
			want:    SessionStatePassed,
		},
		{
			name:    "needs refinement below budget",
			summary: RefinementSummary{AllPassed: false, Iteration: 1, MaxIterations: 3},
			want:    SessionStateNeedsRefinement,
		},
		{
			name:    "escalated at budget",
			summary: RefinementSummary{AllPassed: false, Iteration: 3, MaxIterations: 3},
			want:    SessionStateEscalated,
		},
		{
			name:    "escalated over budget",
			summary: RefinementSummary{AllPassed: false, Iteration: 4, MaxIterations: 3},
			want:    SessionStateEscalated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.State(); got != tt.want {
				t.Errorf("State() = %s, want %s", got, tt.want)
			}
		})
	}
}

// Profile accessor tests

func TestPatternProfile_DominantAccessors(t *testing.T) {
	empty := &PatternProfile{}
	if _, _, ok := empty.DominantImportStyle(); ok {
		t.Error("Empty profile should have no dominant import style")
	}
	if _, _, ok := empty.DominantFileNaming(); ok {
		t.Error("Empty profile should have no dominant file naming")
	}

	profile := &PatternProfile{
		Patterns: ProjectPatterns{
			Naming: NamingPatterns{
				Files: &CategoryPattern{
					Counts:   map[string]int{"PascalCase": 18, "camelCase": 2},
					Dominant: &DominantPattern{Pattern: "PascalCase", Confidence: 0.9, TotalSamples: 20},
				},
			},
			Imports: ImportPatterns{
				Style: &CategoryPattern{
					Counts:   map[string]int{"alias": 30, "relative": 10},
					Dominant: &DominantPattern{Pattern: "alias", Confidence: 0.75, TotalSamples: 40},
				},
			},
		},
	}

	style, confidence, ok := profile.DominantImportStyle()
	if !ok || style != ImportStyleAlias || confidence != 0.75 {
		t.Errorf("DominantImportStyle() = (%s, %f, %v), want (alias, 0.75, true)", style, confidence, ok)
	}

	naming, confidence, ok := profile.DominantFileNaming()
	if !ok || naming != NamingStylePascalCase || confidence != 0.9 {
		t.Errorf("DominantFileNaming() = (%s, %f, %v), want (PascalCase, 0.9, true)", naming, confidence, ok)
	}
}
