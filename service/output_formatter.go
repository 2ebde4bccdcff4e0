package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/conformal-tools/conform/domain"
	"github.com/conformal-tools/conform/internal/version"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	// Verbose includes passing files in narrative output
	Verbose bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// RefinementResponse wraps a summary with report metadata for the
// machine-readable formats
type RefinementResponse struct {
	Version     string                    `json:"version" yaml:"version"`
	GeneratedAt string                    `json:"generated_at" yaml:"generated_at"`
	State       domain.SessionState       `json:"state" yaml:"state"`
	Summary     *domain.RefinementSummary `json:"summary" yaml:"summary"`
	Profile     *ProfileMetaJSON          `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// ProfileMetaJSON is the profile summary embedded in reports; the full
// frequency tables stay in the cache file
type ProfileMetaJSON struct {
	ProjectRoot    string           `json:"project_root" yaml:"project_root"`
	AnalyzedAt     string           `json:"analyzed_at" yaml:"analyzed_at"`
	FileCount      int              `json:"file_count" yaml:"file_count"`
	TechStack      domain.TechStack `json:"tech_stack" yaml:"tech_stack"`
	AnalysisTimeMs int64            `json:"analysis_time_ms" yaml:"analysis_time_ms"`
}

// Write renders the refinement results in the requested format
func (f *OutputFormatterImpl) Write(summary *domain.RefinementSummary, profile *domain.PatternProfile, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatStructured:
		return f.writeStructured(summary, profile, writer)
	case domain.OutputFormatYAML:
		return f.writeYAML(summary, profile, writer)
	case domain.OutputFormatNarrativeDetailed:
		return f.writeNarrative(summary, profile, writer, true)
	case domain.OutputFormatNarrativeSummary:
		return f.writeNarrative(summary, profile, writer, false)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) response(summary *domain.RefinementSummary, profile *domain.PatternProfile) *RefinementResponse {
	resp := &RefinementResponse{
		Version:     version.Version,
		GeneratedAt: time.Now().Format(time.RFC3339),
		State:       summary.State(),
		Summary:     summary,
	}
	if profile != nil {
		resp.Profile = &ProfileMetaJSON{
			ProjectRoot:    profile.ProjectRoot,
			AnalyzedAt:     profile.AnalyzedAt.Format(time.RFC3339),
			FileCount:      profile.FileCount,
			TechStack:      profile.TechStack,
			AnalysisTimeMs: profile.AnalysisTimeMs,
		}
	}
	return resp
}

func (f *OutputFormatterImpl) writeStructured(summary *domain.RefinementSummary, profile *domain.PatternProfile, writer io.Writer) error {
	if err := WriteJSON(writer, f.response(summary, profile)); err != nil {
		return domain.NewOutputError("failed to write structured output", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeYAML(summary *domain.RefinementSummary, profile *domain.PatternProfile, writer io.Writer) error {
	data, err := yaml.Marshal(f.response(summary, profile))
	if err != nil {
		return domain.NewOutputError("failed to marshal yaml output", err)
	}
	if _, err := writer.Write(data); err != nil {
		return domain.NewOutputError("failed to write yaml output", err)
	}
	return nil
}

// severityColor maps severities to their narrative colors
func severityColor(s domain.Severity) *color.Color {
	switch s {
	case domain.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case domain.SeverityHigh:
		return color.New(color.FgRed)
	case domain.SeverityMedium:
		return color.New(color.FgYellow)
	case domain.SeverityLow:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}

func (f *OutputFormatterImpl) writeNarrative(summary *domain.RefinementSummary, profile *domain.PatternProfile, writer io.Writer, detailed bool) error {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	faint := color.New(color.Faint)

	var sb strings.Builder

	sb.WriteString(bold.Sprint("Quality Report"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 40))
	sb.WriteString("\n\n")

	if profile != nil {
		sb.WriteString(fmt.Sprintf("Project: %s\n", profile.ProjectRoot))
		if len(profile.TechStack.Languages) > 0 {
			sb.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(profile.TechStack.Languages, ", ")))
		}
		sb.WriteString(faint.Sprintf("Profile from %d files, analyzed %s\n",
			profile.FileCount, profile.AnalyzedAt.Format("2006-01-02 15:04")))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Iteration %d of %d  |  Threshold %d\n",
		summary.Iteration, summary.MaxIterations, summary.Threshold))
	sb.WriteString(fmt.Sprintf("Files: %d  Passed: %s  Failed: %s  Average: %.1f\n\n",
		len(summary.Files),
		green.Sprintf("%d", summary.PassedCount),
		red.Sprintf("%d", summary.FailedCount),
		summary.AverageScore))

	for _, report := range summary.Files {
		if report.Passed && !detailed && !f.Verbose {
			continue
		}

		marker := green.Sprint("PASS")
		if !report.Passed {
			marker = red.Sprint("FAIL")
		}
		sb.WriteString(fmt.Sprintf("%s  %s  score %d\n", marker, report.File, report.OverallScore))

		if report.Error != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", red.Sprint(report.Error)))
			continue
		}

		if detailed {
			sb.WriteString(faint.Sprintf("      consistency %d  completeness %d  security %d  maintainability %d\n",
				report.DimensionScores.Consistency,
				report.DimensionScores.Completeness,
				report.DimensionScores.Security,
				report.DimensionScores.Maintainability))

			for _, issue := range report.Issues {
				location := ""
				if issue.Line > 0 {
					location = fmt.Sprintf(":%d", issue.Line)
				}
				sb.WriteString(fmt.Sprintf("      %s %s%s  %s\n",
					severityColor(issue.Severity).Sprintf("[%s]", issue.Severity),
					issue.File, location, issue.Message))
			}
			for _, suggestion := range report.Suggestions {
				sb.WriteString(faint.Sprintf("      -> %s\n", suggestion))
			}
		}
	}

	sb.WriteString("\n")
	switch summary.State() {
	case domain.SessionStatePassed:
		sb.WriteString(green.Sprint("All files meet the quality threshold."))
	case domain.SessionStateEscalated:
		sb.WriteString(red.Sprintf("Iteration budget exhausted with %d failing files. Escalating to human review.",
			summary.FailedCount))
	default:
		sb.WriteString(fmt.Sprintf("%d files need refinement. Apply the suggestions and re-run.",
			summary.FailedCount))
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(writer, sb.String()); err != nil {
		return domain.NewOutputError("failed to write narrative output", err)
	}
	return nil
}
