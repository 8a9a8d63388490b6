package ai

import (
	"context"
	"fmt"
	"sync/atomic"

	"resumescreen/internal/config"
	"resumescreen/internal/errors"
)

// Service handles embedding operations for resume screening
type Service struct {
	Provider EmbeddingProvider // Exported for access from server package
	config   *config.EmbeddingConfig
	logger   *errors.Logger
	calls    atomic.Int64
}

// NewService creates a new embedding service instance
func NewService(cfg *config.EmbeddingConfig, logger *errors.Logger) (*Service, error) {
	var provider EmbeddingProvider
	var err error

	logger.Debug("Initializing embedding service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"task_type", cfg.TaskType,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported embedding provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewEmbeddingError(errors.ErrCodeEmbeddingFailed,
			"Failed to create embedding provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Embed delegates to the underlying provider, satisfying engine.Embedder
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls.Add(1)
	return s.Provider.Embed(ctx, text)
}

// Calls returns the total number of provider calls made through this service
func (s *Service) Calls() int64 {
	return s.calls.Load()
}

// GetModelInfo returns information about the embedding model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}
