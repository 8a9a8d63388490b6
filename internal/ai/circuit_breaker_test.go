package ai

import (
	"testing"
	"time"

	"resumescreen/internal/config"
)

func breakerConfig(enabled bool) *config.EmbeddingConfig {
	return &config.EmbeddingConfig{
		Provider: "gemini",
		Model:    "gemini-embedding-001",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}
}

func TestEmbeddingCircuitBreakerStats(t *testing.T) {
	cb := NewEmbeddingCircuitBreaker(breakerConfig(true), nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil when enabled")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "Embedding" {
		t.Errorf("Expected circuit breaker name 'Embedding', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestModelCircuitBreakerStats(t *testing.T) {
	cb := NewModelCircuitBreaker(breakerConfig(true), nil)
	if cb == nil {
		t.Fatal("Model circuit breaker should not be nil when enabled")
	}

	stats := cb.GetModelStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "Embedding-Model" {
		t.Errorf("Expected circuit breaker name 'Embedding-Model', got '%s'", name)
	}

	if !cb.IsModelHealthy() {
		t.Error("Model circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewEmbeddingCircuitBreaker(breakerConfig(false), nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker executes calls directly and reports healthy
	result, err := cb.Execute(func() ([]float32, error) {
		return []float32{1, 2, 3}, nil
	})
	if err != nil {
		t.Fatalf("Execute through nil breaker failed: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("Expected passthrough result of length 3, got %d", len(result))
	}

	if !cb.IsHealthy() {
		t.Error("Nil circuit breaker should report healthy")
	}

	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Nil circuit breaker stats should report enabled=false")
	}
}

func TestModelCircuitBreakerDisabled(t *testing.T) {
	cb := NewModelCircuitBreaker(breakerConfig(false), nil)
	if cb != nil {
		t.Fatal("Model circuit breaker should be nil when disabled")
	}
	if !cb.IsModelHealthy() {
		t.Error("Nil model circuit breaker should report healthy")
	}
}
