package engine

import (
	"regexp"

	"github.com/agnivade/levenshtein"

	"resumescreen/internal/taxonomy"
	"resumescreen/internal/types"
)

// minFuzzyLen gates fuzzy comparison: short tokens produce spurious
// high ratios against short skill names.
const minFuzzyLen = 4

var tokenPattern = regexp.MustCompile(`[a-z0-9+#.]+`)

// ExtractSkills matches taxonomy skills against free text. Exact and alias
// matches use word-boundary patterns at confidence 1.0; skills not found
// that way fall back to fuzzy comparison of tokens and adjacent token pairs
// at or above threshold. Each canonical skill appears at most once, with
// its best match. Empty text yields no matches, not an error.
func ExtractSkills(tax *taxonomy.Taxonomy, text string, threshold float64) []types.MatchedSkill {
	normalized := taxonomy.Normalize(text)
	if normalized == "" {
		return nil
	}

	var candidates []string
	tokens := tokenPattern.FindAllString(normalized, -1)
	candidates = append(candidates, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		candidates = append(candidates, tokens[i]+" "+tokens[i+1])
	}

	var matched []types.MatchedSkill
	for _, skill := range tax.Skills() {
		if span, kind, ok := skill.Match(normalized); ok {
			matched = append(matched, types.MatchedSkill{
				Name:        skill.Name,
				Category:    string(skill.Category),
				Priority:    string(skill.Priority),
				MatchedSpan: span,
				Kind:        kind,
				Confidence:  1.0,
			})
			continue
		}

		if best, span, ok := bestFuzzy(skill.Terms(), candidates, threshold); ok {
			matched = append(matched, types.MatchedSkill{
				Name:        skill.Name,
				Category:    string(skill.Category),
				Priority:    string(skill.Priority),
				MatchedSpan: span,
				Kind:        types.MatchFuzzy,
				Confidence:  best,
			})
		}
	}

	return matched
}

// bestFuzzy returns the highest similarity ratio at or above threshold
// between any skill term and any text candidate.
func bestFuzzy(terms, candidates []string, threshold float64) (ratio float64, span string, ok bool) {
	for _, term := range terms {
		if len(term) < minFuzzyLen {
			continue
		}
		for _, cand := range candidates {
			if len(cand) < minFuzzyLen {
				continue
			}
			r := similarityRatio(term, cand)
			if r >= threshold && r > ratio {
				ratio, span, ok = r, cand, true
			}
		}
	}
	return ratio, span, ok
}

// similarityRatio converts Levenshtein edit distance into a [0,1] ratio
// relative to the longer string.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// SkillNames returns the canonical names of matched skills in match order
func SkillNames(skills []types.MatchedSkill) []string {
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return names
}

// skillSet indexes matched skills by canonical name for set operations
func skillSet(skills []types.MatchedSkill) map[string]types.MatchedSkill {
	set := make(map[string]types.MatchedSkill, len(skills))
	for _, s := range skills {
		if _, seen := set[s.Name]; !seen {
			set[s.Name] = s
		}
	}
	return set
}
