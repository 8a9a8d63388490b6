package engine

import (
	"sort"

	"resumescreen/internal/taxonomy"
	"resumescreen/internal/types"
)

// Weights distributes the four component scores into the final score.
// Validation (sum to 1.0) happens at config load, not here.
type Weights struct {
	Semantic   float64
	Skill      float64
	Experience float64
	Education  float64
}

// educationScores maps the candidate's highest degree to an absolute
// score. No degree is neutral rather than zero: many strong candidates
// simply omit an education section.
var educationScores = map[types.DegreeLevel]float64{
	types.DegreeDoctorate:   100,
	types.DegreeMaster:      90,
	types.DegreeBachelor:    75,
	types.DegreeDiploma:     60,
	types.DegreeCertificate: 50,
	types.DegreeNone:        50,
}

// Combine folds the semantic score and the extracted facts into a full
// ScoreBreakdown. neutralExperience is used when the resume carries no
// experience signal at all.
func Combine(weights Weights, semantic float64, profile types.ExtractedProfile, job types.JobRequirement, requiredYears, neutralExperience float64) types.ScoreBreakdown {
	skillScore, matched, missing := scoreSkills(profile.Skills, job.Skills)
	expScore := scoreExperience(profile.YearsOfExperience, requiredYears, neutralExperience)
	eduScore := educationScores[HighestDegree(profile.Education)]

	final := clampScore(weights.Semantic*semantic +
		weights.Skill*skillScore +
		weights.Experience*expScore +
		weights.Education*eduScore)

	return types.ScoreBreakdown{
		SemanticScore:   clampScore(semantic),
		SkillScore:      skillScore,
		ExperienceScore: expScore,
		EducationScore:  eduScore,
		FinalScore:      final,
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}
}

// scoreSkills computes the unweighted matched fraction of required skills.
// A job with no extractable skill requirements cannot penalize anyone, so
// the score is 100. Every required skill lands in exactly one of matched
// or missing.
func scoreSkills(have, required []types.MatchedSkill) (float64, []string, types.MissingSkills) {
	haveSet := skillSet(have)

	var matched []string
	var missing types.MissingSkills
	total := 0

	seen := make(map[string]bool, len(required))
	for _, req := range required {
		if seen[req.Name] {
			continue
		}
		seen[req.Name] = true
		total++

		if _, ok := haveSet[req.Name]; ok {
			matched = append(matched, req.Name)
			continue
		}
		switch taxonomy.PriorityTier(req.Priority) {
		case taxonomy.PriorityCritical:
			missing.Critical = append(missing.Critical, req.Name)
		case taxonomy.PriorityHigh:
			missing.High = append(missing.High, req.Name)
		case taxonomy.PriorityMedium:
			missing.Medium = append(missing.Medium, req.Name)
		default:
			missing.Standard = append(missing.Standard, req.Name)
		}
	}

	sort.Strings(missing.Critical)
	sort.Strings(missing.High)
	sort.Strings(missing.Medium)
	sort.Strings(missing.Standard)

	if total == 0 {
		return 100, matched, missing
	}
	return float64(len(matched)) / float64(total) * 100, matched, missing
}

// scoreExperience maps the candidate-to-required ratio through the fixed
// checkpoints (0, 0), (1.0, 80) and (1.5, 100), linear between them. A
// requirement of zero years is trivially satisfied.
func scoreExperience(have *float64, required, neutral float64) float64 {
	if have == nil {
		return clampScore(neutral)
	}
	if required <= 0 {
		return 100
	}

	ratio := *have / required
	switch {
	case ratio <= 0:
		return 0
	case ratio >= 1.5:
		return 100
	case ratio >= 1.0:
		return 80 + (ratio-1.0)/0.5*20
	default:
		return ratio * 80
	}
}
