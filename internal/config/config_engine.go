package config

import "sort"

// weightSumTolerance is the allowed float drift when validating that the
// four component weights sum to 1.0
const weightSumTolerance = 1e-9

// ResolvedWeights is the effective weight set after applying a preset and
// any per-component overrides
type ResolvedWeights struct {
	Semantic   float64
	Skill      float64
	Experience float64
	Education  float64
}

// weightPresets are the named weight sets operators can select with
// engine.weightPreset. "balanced" favors the semantic signal; "skills"
// shifts emphasis to extracted skills and experience for roles screened
// primarily on hard requirements.
var weightPresets = map[string]ResolvedWeights{
	"balanced": {Semantic: 0.40, Skill: 0.35, Experience: 0.15, Education: 0.10},
	"skills":   {Semantic: 0.20, Skill: 0.40, Experience: 0.30, Education: 0.10},
}

func presetNames() []string {
	names := make([]string, 0, len(weightPresets))
	for name := range weightPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvedWeights returns the preset weights with per-component overrides
// applied. Overrides that break the sum-to-one invariant are caught by
// ValidateEngineConfig at load time.
func (c *Config) ResolvedWeights() ResolvedWeights {
	w := weightPresets[c.Engine.WeightPreset]

	if c.Engine.Weights.Semantic != nil {
		w.Semantic = *c.Engine.Weights.Semantic
	}
	if c.Engine.Weights.Skill != nil {
		w.Skill = *c.Engine.Weights.Skill
	}
	if c.Engine.Weights.Experience != nil {
		w.Experience = *c.Engine.Weights.Experience
	}
	if c.Engine.Weights.Education != nil {
		w.Education = *c.Engine.Weights.Education
	}

	return w
}
