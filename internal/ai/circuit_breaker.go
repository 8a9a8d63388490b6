package ai

import (
	"resumescreen/internal/config"
	"resumescreen/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// EmbeddingCircuitBreaker guards embedding calls. A nil breaker means the
// feature is disabled and calls pass straight through.
type EmbeddingCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[[]float32]
}

// ModelCircuitBreaker guards model info lookups.
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

// breakerSettings builds the shared gobreaker configuration. Each breaker
// supplies its own trip condition.
func breakerSettings(name string, cfg *config.EmbeddingConfig, logger *errors.Logger, trip func(gobreaker.Counts) bool) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.CircuitBreaker.MaxRequests,
				"failure_threshold", cfg.CircuitBreaker.FailureThreshold)
		},
	}
}

// breakerStats reports the state of a live breaker.
func breakerStats[T any](cb *gobreaker.CircuitBreaker[T]) map[string]any {
	return map[string]any{
		"name":    cb.Name(),
		"state":   cb.State().String(),
		"counts":  cb.Counts(),
		"enabled": true,
	}
}

// NewEmbeddingCircuitBreaker builds the breaker for embedding calls, or nil
// when disabled in config.
func NewEmbeddingCircuitBreaker(cfg *config.EmbeddingConfig, logger *errors.Logger) *EmbeddingCircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	settings := breakerSettings("Embedding", cfg, logger, func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
			failureRatio >= cfg.CircuitBreaker.FailureThreshold
	})

	return &EmbeddingCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[[]float32](settings),
	}
}

// NewModelCircuitBreaker builds the breaker for model info checks, or nil
// when disabled. Model info failures do not block scoring, so the trip
// condition is more lenient than the embedding breaker's.
func NewModelCircuitBreaker(cfg *config.EmbeddingConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	settings := breakerSettings("Embedding-Model", cfg, logger, func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 5 && failureRatio >= 0.8
	})

	return &ModelCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.Model](settings),
	}
}

// Execute runs fn under the breaker, or directly when the breaker is disabled.
func (cb *EmbeddingCircuitBreaker) Execute(fn func() ([]float32, error)) ([]float32, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// ExecuteModel runs fn under the model breaker, or directly when disabled.
func (cb *ModelCircuitBreaker) ExecuteModel(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats returns embedding breaker statistics.
func (cb *EmbeddingCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return breakerStats(cb.cb)
}

// GetModelStats returns model breaker statistics.
func (cb *ModelCircuitBreaker) GetModelStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return breakerStats(cb.cb)
}

// IsHealthy reports whether the breaker is closed. A disabled breaker counts
// as healthy.
func (cb *EmbeddingCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsModelHealthy reports whether the model breaker is closed.
func (cb *ModelCircuitBreaker) IsModelHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
