package common

import (
	"resumescreen/internal/config"
	"resumescreen/internal/engine"
	"resumescreen/internal/errors"
	"resumescreen/internal/taxonomy"
)

// BuildEngine assembles a scoring engine from configuration. The embedder
// may be nil for extraction-only use where no semantic scoring happens.
func BuildEngine(cfg *config.Config, embedder engine.Embedder, logger *errors.Logger) (*engine.Engine, error) {
	var tax *taxonomy.Taxonomy
	if cfg.Engine.TaxonomyFile != "" {
		loaded, err := taxonomy.LoadFile(cfg.Engine.TaxonomyFile)
		if err != nil {
			return nil, err
		}
		tax = loaded
		if logger != nil {
			logger.Info("Loaded skill taxonomy",
				"file", cfg.Engine.TaxonomyFile,
				"skills", tax.Len())
		}
	}

	resolved := cfg.ResolvedWeights()
	weights := engine.Weights{
		Semantic:   resolved.Semantic,
		Skill:      resolved.Skill,
		Experience: resolved.Experience,
		Education:  resolved.Education,
	}

	opts := engine.Options{
		FuzzyThreshold:         cfg.Engine.FuzzyThreshold,
		ChunkSize:              cfg.Engine.ChunkSize,
		FeedbackTopN:           cfg.Engine.FeedbackTopN,
		NeutralExperienceScore: cfg.Engine.NeutralExperienceScore,
		DefaultRequiredYears:   cfg.Engine.DefaultRequiredYears,
		MaxConcurrentEmbeds:    cfg.Engine.MaxConcurrentEmbeds,
		BatchWorkers:           cfg.Engine.BatchWorkers,
	}

	return engine.NewEngine(tax, embedder, weights, opts), nil
}
