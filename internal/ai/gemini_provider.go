package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"resumescreen/internal/config"
	rsErrors "resumescreen/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider produces embedding vectors through the Gemini API.
type GeminiProvider struct {
	client         *genai.Client
	config         *config.EmbeddingConfig
	circuitBreaker *EmbeddingCircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *rsErrors.Logger
}

var _ EmbeddingProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini embedding provider instance.
func NewGeminiProvider(cfg *config.EmbeddingConfig, logger *rsErrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, rsErrors.NewEmbeddingError(rsErrors.ErrCodeEmbeddingFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		circuitBreaker: NewEmbeddingCircuitBreaker(cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(cfg, logger),
		logger:         logger,
	}, nil
}

// ModelInfo describes the embedding model as reported by the provider.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// modelCheckTimeout bounds the model availability check during health probes.
const modelCheckTimeout = 10 * time.Second

// GetModelInfo checks the readiness and availability of the configured model.
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// Embed converts text into an embedding vector using the configured model.
// The call runs under a span and the circuit breaker, with retries inside the
// breaker so a whole retry sequence counts as one breaker request.
func (g *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	tracer := otel.Tracer("resumescreen.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.embed_content")
	defer span.End()

	span.SetAttributes(
		attribute.String("embedding.provider", "gemini"),
		attribute.String("embedding.model", g.config.Model),
		attribute.String("embedding.task_type", g.config.TaskType),
		attribute.Int("embedding.text_length", len(text)),
	)

	embedCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	embedConfig := &genai.EmbedContentConfig{}
	if g.config.TaskType != "" {
		embedConfig.TaskType = g.config.TaskType
	}

	vector, err := g.circuitBreaker.Execute(func() ([]float32, error) {
		return g.embedWithRetry(embedCtx, text, embedConfig)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, rsErrors.NewEmbeddingError(rsErrors.ErrCodeEmbeddingFailed,
			"Failed to embed content", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("embedding.dimensions", len(vector)),
	)

	return vector, nil
}

// retryBackoff returns the delay before the given retry attempt: exponential
// base with random jitter, capped at 30 seconds.
func retryBackoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
	jitterBig, _ := rand.Int(rand.Reader, jitterMax)
	backoff := baseDelay + time.Duration(jitterBig.Int64())
	return min(backoff, 30*time.Second)
}

// embedWithRetry calls EmbedContent up to MaxRetries+1 times. Transient
// failures back off exponentially; auth and validation errors stop the loop
// immediately.
func (g *GeminiProvider) embedWithRetry(ctx context.Context, text string, embedConfig *genai.EmbedContentConfig) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying embedding call",
				"attempt", attempt,
				"max_retries", g.config.MaxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(retryBackoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := g.client.Models.EmbedContent(ctx, g.config.Model, genai.Text(text), embedConfig)
		if err == nil {
			vector, extractErr := extractEmbedding(result)
			if extractErr != nil {
				return nil, extractErr
			}
			if attempt > 0 {
				g.logger.Info("Embedding call succeeded after retry",
					"successful_attempt", attempt+1)
			}
			return vector, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "Embedding call failed after all retry attempts",
		"total_attempts", g.config.MaxRetries+1)

	return nil, fmt.Errorf("embedding failed after %d retries: %w", g.config.MaxRetries, lastErr)
}

// extractEmbedding pulls the vector out of an EmbedContent response.
func extractEmbedding(result *genai.EmbedContentResponse) ([]float32, error) {
	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}
	values := result.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding response contained an empty vector")
	}
	return values, nil
}

// isRetryableError reports whether a failed call is worth retrying. Network
// problems and server-side 5xx/429 responses are transient; everything else
// (bad API key, malformed input) will fail again identically.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// GetCircuitBreakerStats reports both breakers plus a combined health flag.
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"embedding_operations": g.circuitBreaker.GetStats(),
		"model_operations":     g.modelBreaker.GetModelStats(),
		"overall_healthy":      g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close implements EmbeddingProvider. The genai client holds no resources
// that need explicit release.
func (g *GeminiProvider) Close() error {
	return nil
}
