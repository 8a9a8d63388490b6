package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

// validEngineConfig returns an engine config that passes validation
func validEngineConfig() EngineConfig {
	return EngineConfig{
		WeightPreset:           "balanced",
		FuzzyThreshold:         0.85,
		ChunkSize:              200,
		FeedbackTopN:           5,
		NeutralExperienceScore: 50.0,
		DefaultRequiredYears:   3.0,
		MaxConcurrentEmbeds:    8,
		BatchWorkers:           4,
	}
}

// TestResolvedWeightsPresets tests that the named presets resolve as documented
func TestResolvedWeightsPresets(t *testing.T) {
	tests := []struct {
		preset   string
		expected ResolvedWeights
	}{
		{
			preset:   "balanced",
			expected: ResolvedWeights{Semantic: 0.40, Skill: 0.35, Experience: 0.15, Education: 0.10},
		},
		{
			preset:   "skills",
			expected: ResolvedWeights{Semantic: 0.20, Skill: 0.40, Experience: 0.30, Education: 0.10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			cfg := Config{Engine: EngineConfig{WeightPreset: tt.preset}}
			assert.Equal(t, tt.expected, cfg.ResolvedWeights())
		})
	}
}

// TestResolvedWeightsOverrides tests per-component overrides on top of a preset
func TestResolvedWeightsOverrides(t *testing.T) {
	cfg := Config{
		Engine: EngineConfig{
			WeightPreset: "balanced",
			Weights: WeightsConfig{
				Semantic: floatPtr(0.50),
				Skill:    floatPtr(0.25),
			},
		},
	}

	w := cfg.ResolvedWeights()
	assert.Equal(t, 0.50, w.Semantic)
	assert.Equal(t, 0.25, w.Skill)
	// Untouched components keep the preset values
	assert.Equal(t, 0.15, w.Experience)
	assert.Equal(t, 0.10, w.Education)
}

// TestValidateEngineConfig tests engine option validation
func TestValidateEngineConfig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*EngineConfig)
		errorMsg string
	}{
		{
			name:   "valid defaults",
			mutate: func(e *EngineConfig) {},
		},
		{
			name:   "skills preset",
			mutate: func(e *EngineConfig) { e.WeightPreset = "skills" },
		},
		{
			name: "overrides that preserve the sum",
			mutate: func(e *EngineConfig) {
				e.Weights = WeightsConfig{
					Semantic: floatPtr(0.30),
					Skill:    floatPtr(0.45),
				}
			},
		},
		{
			name:     "unknown preset",
			mutate:   func(e *EngineConfig) { e.WeightPreset = "aggressive" },
			errorMsg: "unknown weight preset: aggressive",
		},
		{
			name: "overrides that break the sum",
			mutate: func(e *EngineConfig) {
				e.Weights = WeightsConfig{Semantic: floatPtr(0.90)}
			},
			errorMsg: "weights must sum to 1.0",
		},
		{
			name: "negative weight override",
			mutate: func(e *EngineConfig) {
				e.Weights = WeightsConfig{
					Semantic: floatPtr(-0.10),
					Skill:    floatPtr(0.85),
				}
			},
			errorMsg: "outside [0, 1]",
		},
		{
			name:     "fuzzy threshold zero",
			mutate:   func(e *EngineConfig) { e.FuzzyThreshold = 0 },
			errorMsg: "fuzzyThreshold must be in (0, 1]",
		},
		{
			name:     "fuzzy threshold above one",
			mutate:   func(e *EngineConfig) { e.FuzzyThreshold = 1.5 },
			errorMsg: "fuzzyThreshold must be in (0, 1]",
		},
		{
			name:     "chunk size zero",
			mutate:   func(e *EngineConfig) { e.ChunkSize = 0 },
			errorMsg: "chunkSize must be positive",
		},
		{
			name:     "feedback topN zero",
			mutate:   func(e *EngineConfig) { e.FeedbackTopN = 0 },
			errorMsg: "feedbackTopN must be positive",
		},
		{
			name:     "neutral experience score above range",
			mutate:   func(e *EngineConfig) { e.NeutralExperienceScore = 120 },
			errorMsg: "neutralExperienceScore must be in [0, 100]",
		},
		{
			name:     "negative default required years",
			mutate:   func(e *EngineConfig) { e.DefaultRequiredYears = -1 },
			errorMsg: "defaultRequiredYears must be non-negative",
		},
		{
			name:     "batch workers zero",
			mutate:   func(e *EngineConfig) { e.BatchWorkers = 0 },
			errorMsg: "batchWorkers must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := validEngineConfig()
			tt.mutate(&engine)
			cfg := Config{Engine: engine}

			err := cfg.ValidateEngineConfig()
			if tt.errorMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestPresetNames tests that preset names are listed in sorted order
func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"balanced", "skills"}, presetNames())
}
