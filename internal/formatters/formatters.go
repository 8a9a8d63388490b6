package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumescreen/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScreenResumeOutput", &ScreenTextFormatter{})
	registry.RegisterFormatter("markdown", "ScreenResumeOutput", &ScreenMarkdownFormatter{})
	registry.RegisterFormatter("text", "BatchScreenOutput", &BatchTextFormatter{})
	registry.RegisterFormatter("markdown", "BatchScreenOutput", &BatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "ExtractSkillsOutput", &ExtractTextFormatter{})
	registry.RegisterFormatter("markdown", "ExtractSkillsOutput", &ExtractMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScreenResumeOutput:
		return "ScreenResumeOutput"
	case types.BatchScreenOutput:
		return "BatchScreenOutput"
	case types.ExtractSkillsOutput:
		return "ExtractSkillsOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// writeBreakdown writes the component score table shared by text formatters
func writeBreakdown(output *strings.Builder, b types.ScoreBreakdown) {
	output.WriteString(fmt.Sprintf("Final Score: %.1f/100\n\n", b.FinalScore))
	output.WriteString(fmt.Sprintf("Semantic:   %.1f\n", b.SemanticScore))
	output.WriteString(fmt.Sprintf("Skills:     %.1f\n", b.SkillScore))
	output.WriteString(fmt.Sprintf("Experience: %.1f\n", b.ExperienceScore))
	output.WriteString(fmt.Sprintf("Education:  %.1f\n", b.EducationScore))
}

// writeBreakdownMarkdown writes the component score table as a markdown table
func writeBreakdownMarkdown(output *strings.Builder, b types.ScoreBreakdown) {
	output.WriteString(fmt.Sprintf("**Final Score:** %.1f/100\n\n", b.FinalScore))
	output.WriteString("| Component | Score |\n")
	output.WriteString("|-----------|-------|\n")
	output.WriteString(fmt.Sprintf("| Semantic | %.1f |\n", b.SemanticScore))
	output.WriteString(fmt.Sprintf("| Skills | %.1f |\n", b.SkillScore))
	output.WriteString(fmt.Sprintf("| Experience | %.1f |\n", b.ExperienceScore))
	output.WriteString(fmt.Sprintf("| Education | %.1f |\n", b.EducationScore))
}

// writeReport writes the feedback report in plain text
func writeReport(output *strings.Builder, report types.FeedbackReport) {
	output.WriteString(fmt.Sprintf("Assessment: %s\n\n", report.Assessment))

	if len(report.Strengths) > 0 {
		output.WriteString("Strengths:\n")
		for _, strength := range report.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}
	if len(report.Gaps) > 0 {
		output.WriteString("Gaps:\n")
		for _, gap := range report.Gaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
		output.WriteString("\n")
	}
	if len(report.Suggestions) > 0 {
		output.WriteString("Suggestions:\n")
		for _, suggestion := range report.Suggestions {
			output.WriteString(fmt.Sprintf("- %s\n", suggestion))
		}
		output.WriteString("\n")
	}
}

// writeReportMarkdown writes the feedback report in markdown
func writeReportMarkdown(output *strings.Builder, report types.FeedbackReport) {
	output.WriteString(fmt.Sprintf("**Assessment:** %s\n\n", report.Assessment))

	if len(report.Strengths) > 0 {
		output.WriteString("### Strengths\n")
		for _, strength := range report.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}
	if len(report.Gaps) > 0 {
		output.WriteString("### Gaps\n")
		for _, gap := range report.Gaps {
			output.WriteString(fmt.Sprintf("- %s\n", gap))
		}
		output.WriteString("\n")
	}
	if len(report.Suggestions) > 0 {
		output.WriteString("### Suggestions\n")
		for _, suggestion := range report.Suggestions {
			output.WriteString(fmt.Sprintf("- %s\n", suggestion))
		}
		output.WriteString("\n")
	}
}

// ScreenTextFormatter handles text formatting for screening results
type ScreenTextFormatter struct{}

func (stf *ScreenTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScreenResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected ScreenResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SCREENING RESULT ===\n\n")
	writeBreakdown(&output, result.Breakdown)
	output.WriteString("\n")

	if len(result.Breakdown.MatchedSkills) > 0 {
		output.WriteString("Matched Skills:\n")
		for _, skill := range result.Breakdown.MatchedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if missing := result.Breakdown.MissingSkills.All(); len(missing) > 0 {
		output.WriteString("Missing Skills:\n")
		for _, skill := range missing {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== FEEDBACK ===\n")
	writeReport(&output, result.Report)

	return output.String(), nil
}

func (stf *ScreenTextFormatter) SupportedType() string {
	return "ScreenResumeOutput"
}

// ScreenMarkdownFormatter handles markdown formatting for screening results
type ScreenMarkdownFormatter struct{}

func (smf *ScreenMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScreenResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected ScreenResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Screening Result\n\n")
	writeBreakdownMarkdown(&output, result.Breakdown)
	output.WriteString("\n")

	if len(result.Breakdown.MatchedSkills) > 0 {
		output.WriteString("## Matched Skills\n")
		for _, skill := range result.Breakdown.MatchedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if missing := result.Breakdown.MissingSkills.All(); len(missing) > 0 {
		output.WriteString("## Missing Skills\n")
		for _, skill := range missing {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Feedback\n\n")
	writeReportMarkdown(&output, result.Report)

	return output.String(), nil
}

func (smf *ScreenMarkdownFormatter) SupportedType() string {
	return "ScreenResumeOutput"
}

// BatchTextFormatter handles text formatting for batch screening results
type BatchTextFormatter struct{}

func (btf *BatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.BatchScreenOutput)
	if !ok {
		return "", fmt.Errorf("expected BatchScreenOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CANDIDATE RANKING ===\n\n")
	for i, candidate := range result.Candidates {
		output.WriteString(fmt.Sprintf("%d. %s (%.1f/100, %s)\n",
			i+1, candidate.Name, candidate.Breakdown.FinalScore, candidate.Report.Assessment))
		if candidate.Contact.Email != "" {
			output.WriteString(fmt.Sprintf("   Email: %s\n", candidate.Contact.Email))
		}
		if missing := candidate.Breakdown.MissingSkills.All(); len(missing) > 0 {
			output.WriteString(fmt.Sprintf("   Missing: %s\n", strings.Join(missing, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.Skipped) > 0 {
		output.WriteString("=== SKIPPED ===\n\n")
		for _, skipped := range result.Skipped {
			output.WriteString(fmt.Sprintf("- %s: %s\n", skipped.Name, skipped.Reason))
		}
	}

	return output.String(), nil
}

func (btf *BatchTextFormatter) SupportedType() string {
	return "BatchScreenOutput"
}

// BatchMarkdownFormatter handles markdown formatting for batch screening results
type BatchMarkdownFormatter struct{}

func (bmf *BatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.BatchScreenOutput)
	if !ok {
		return "", fmt.Errorf("expected BatchScreenOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Candidate Ranking\n\n")
	output.WriteString("| Rank | Candidate | Score | Assessment |\n")
	output.WriteString("|------|-----------|-------|------------|\n")
	for i, candidate := range result.Candidates {
		output.WriteString(fmt.Sprintf("| %d | %s | %.1f | %s |\n",
			i+1, candidate.Name, candidate.Breakdown.FinalScore, candidate.Report.Assessment))
	}
	output.WriteString("\n")

	for _, candidate := range result.Candidates {
		if missing := candidate.Breakdown.MissingSkills.All(); len(missing) > 0 {
			output.WriteString(fmt.Sprintf("**%s** is missing: %s\n\n",
				candidate.Name, strings.Join(missing, ", ")))
		}
	}

	if len(result.Skipped) > 0 {
		output.WriteString("## Skipped\n\n")
		for _, skipped := range result.Skipped {
			output.WriteString(fmt.Sprintf("- **%s**: %s\n", skipped.Name, skipped.Reason))
		}
	}

	return output.String(), nil
}

func (bmf *BatchMarkdownFormatter) SupportedType() string {
	return "BatchScreenOutput"
}

// ExtractTextFormatter handles text formatting for extraction results
type ExtractTextFormatter struct{}

func (etf *ExtractTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractSkillsOutput)
	if !ok {
		return "", fmt.Errorf("expected ExtractSkillsOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EXTRACTED PROFILE ===\n\n")

	if result.Contact.Name != "" || result.Contact.Email != "" || result.Contact.Phone != "" {
		output.WriteString("Contact:\n")
		if result.Contact.Name != "" {
			output.WriteString(fmt.Sprintf("  Name: %s\n", result.Contact.Name))
		}
		if result.Contact.Email != "" {
			output.WriteString(fmt.Sprintf("  Email: %s\n", result.Contact.Email))
		}
		if result.Contact.Phone != "" {
			output.WriteString(fmt.Sprintf("  Phone: %s\n", result.Contact.Phone))
		}
		output.WriteString("\n")
	}

	if result.Years != nil {
		output.WriteString(fmt.Sprintf("Experience: %.1f years (%s)\n\n", *result.Years, result.Seniority))
	} else {
		output.WriteString("Experience: not detected\n\n")
	}

	if len(result.Skills) > 0 {
		output.WriteString("Skills:\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s [%s/%s] via %s (%.2f)\n",
				skill.Name, skill.Category, skill.Priority, skill.Kind, skill.Confidence))
		}
		output.WriteString("\n")
	} else {
		output.WriteString("Skills: none detected\n\n")
	}

	if len(result.Education) > 0 {
		output.WriteString("Education:\n")
		for _, record := range result.Education {
			line := string(record.Level)
			if record.Specialization != "" {
				line += " in " + record.Specialization
			}
			if record.GraduationYear > 0 {
				line += fmt.Sprintf(" (%d)", record.GraduationYear)
			}
			output.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	return output.String(), nil
}

func (etf *ExtractTextFormatter) SupportedType() string {
	return "ExtractSkillsOutput"
}

// ExtractMarkdownFormatter handles markdown formatting for extraction results
type ExtractMarkdownFormatter struct{}

func (emf *ExtractMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractSkillsOutput)
	if !ok {
		return "", fmt.Errorf("expected ExtractSkillsOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Extracted Profile\n\n")

	if result.Contact.Name != "" {
		output.WriteString(fmt.Sprintf("**Name:** %s\n\n", result.Contact.Name))
	}
	if result.Contact.Email != "" {
		output.WriteString(fmt.Sprintf("**Email:** %s\n\n", result.Contact.Email))
	}
	if result.Contact.Phone != "" {
		output.WriteString(fmt.Sprintf("**Phone:** %s\n\n", result.Contact.Phone))
	}

	if result.Years != nil {
		output.WriteString(fmt.Sprintf("**Experience:** %.1f years (%s)\n\n", *result.Years, result.Seniority))
	}

	if len(result.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		output.WriteString("| Skill | Category | Priority | Match | Confidence |\n")
		output.WriteString("|-------|----------|----------|-------|------------|\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f |\n",
				skill.Name, skill.Category, skill.Priority, skill.Kind, skill.Confidence))
		}
		output.WriteString("\n")
	}

	if len(result.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, record := range result.Education {
			line := string(record.Level)
			if record.Specialization != "" {
				line += " in " + record.Specialization
			}
			if record.GraduationYear > 0 {
				line += fmt.Sprintf(" (%d)", record.GraduationYear)
			}
			output.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	return output.String(), nil
}

func (emf *ExtractMarkdownFormatter) SupportedType() string {
	return "ExtractSkillsOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
