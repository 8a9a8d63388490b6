package ai

import "context"

// EmbeddingProvider interface for different embedding backends
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}
