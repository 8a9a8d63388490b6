package engine

import (
	"fmt"

	"resumescreen/internal/types"
)

// Assessment tier cutoffs on the final score
const (
	tierExcellent = 80.0
	tierGood      = 60.0
	tierModerate  = 40.0
	tierWeak      = 20.0
)

// strengthThreshold marks a component score worth calling out
const strengthThreshold = 80.0

// diverseSkillCount is the distinct-skill count treated as breadth
const diverseSkillCount = 20

// ClassifyScore maps a final score to its assessment tier
func ClassifyScore(final float64) types.AssessmentTier {
	switch {
	case final >= tierExcellent:
		return types.AssessmentExcellent
	case final >= tierGood:
		return types.AssessmentGood
	case final >= tierModerate:
		return types.AssessmentModerate
	case final >= tierWeak:
		return types.AssessmentWeak
	default:
		return types.AssessmentPoor
	}
}

// GenerateFeedback turns a score breakdown and the extracted facts into an
// actionable report. Output is deterministic: same inputs, same report,
// same ordering. topN caps gaps and suggestions, filled in fixed priority
// order with skill gaps first, then experience, then education.
func GenerateFeedback(breakdown types.ScoreBreakdown, profile types.ExtractedProfile, requiredYears float64, topN int) types.FeedbackReport {
	report := types.FeedbackReport{
		Assessment: ClassifyScore(breakdown.FinalScore),
	}

	if breakdown.SemanticScore >= strengthThreshold {
		report.Strengths = append(report.Strengths, "Strong overall alignment with the job description")
	}
	if breakdown.SkillScore >= strengthThreshold {
		report.Strengths = append(report.Strengths, "Covers most of the required skills")
	}
	if breakdown.ExperienceScore >= strengthThreshold {
		report.Strengths = append(report.Strengths, "Experience level meets or exceeds the requirement")
	}
	if breakdown.EducationScore >= strengthThreshold {
		report.Strengths = append(report.Strengths, "Strong educational background")
	}
	if len(profile.Skills) >= diverseSkillCount {
		report.Strengths = append(report.Strengths, "Diverse skill set across multiple technology areas")
	}

	gaps, suggestions := buildGaps(breakdown, profile, requiredYears)
	if topN > 0 {
		if len(gaps) > topN {
			gaps = gaps[:topN]
		}
		if len(suggestions) > topN {
			suggestions = suggestions[:topN]
		}
	}
	report.Gaps = gaps
	report.Suggestions = suggestions

	return report
}

func buildGaps(breakdown types.ScoreBreakdown, profile types.ExtractedProfile, requiredYears float64) (gaps, suggestions []string) {
	missing := breakdown.MissingSkills

	addSkillTier := func(tier string, names []string) {
		for _, name := range names {
			gaps = append(gaps, fmt.Sprintf("Missing %s skill: %s", tier, name))
			suggestions = append(suggestions, fmt.Sprintf("Gain hands-on experience with %s", name))
		}
	}
	addSkillTier("critical", missing.Critical)
	addSkillTier("high-priority", missing.High)
	addSkillTier("medium-priority", missing.Medium)
	addSkillTier("standard", missing.Standard)

	if shortfall := experienceShortfall(profile.YearsOfExperience, requiredYears); shortfall > 0 {
		gaps = append(gaps, fmt.Sprintf("Experience is %.1f years short of the %.1f year requirement", shortfall, requiredYears))
		suggestions = append(suggestions, "Highlight project depth and impact to offset the experience gap")
	}

	if breakdown.EducationScore < strengthThreshold && HighestDegree(profile.Education).Rank() < types.DegreeBachelor.Rank() {
		gaps = append(gaps, "No bachelor's degree or higher detected")
		suggestions = append(suggestions, "List relevant certifications or formal training if available")
	}

	return gaps, suggestions
}

// experienceShortfall returns the positive gap between required and held
// years, zero when met or unknown.
func experienceShortfall(have *float64, required float64) float64 {
	if have == nil || required <= 0 {
		return 0
	}
	if *have >= required {
		return 0
	}
	return required - *have
}
