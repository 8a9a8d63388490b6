package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Certificate expiry thresholds used by the health endpoint.
const (
	certExpiryCritical = 24 * time.Hour
	certExpiryWarning  = 7 * 24 * time.Hour
)

// writeJSON encodes payload with the given status code. Handlers report
// everything as JSON, including failures to encode.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// healthHandler reports overall service health. The embedding provider and,
// when TLS is active, the certificate chain both feed into the verdict;
// either one failing flips the status to degraded with a 503.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	embeddingStatus, embeddingHealthy := s.checkEmbeddingHealth()

	response := map[string]any{
		"status":           "healthy",
		"service":          "resumescreen",
		"version":          s.Version,
		"embedding":        embeddingStatus,
		"circuit_breakers": s.checkCircuitBreakerHealth(),
	}

	healthy := embeddingHealthy
	if certStatus, certHealthy := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
		healthy = healthy && certHealthy
	}

	statusCode := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

// checkEmbeddingHealth asks the provider for its model status, bounded by the
// configured health check timeout.
func (s *Server) checkEmbeddingHealth() (map[string]any, bool) {
	if s.Embedding == nil {
		return map[string]any{
			"available": false,
			"error":     "embedding service not initialized",
		}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.AppConfig.Observability.HealthCheck.Timeout)
	defer cancel()

	modelInfo := s.Embedding.Provider.GetModelInfo(ctx)

	status := map[string]any{
		"provider":  s.AppConfig.Embedding.Provider,
		"model":     modelInfo.Name,
		"available": modelInfo.Available,
	}
	if modelInfo.Error != "" {
		status["error"] = modelInfo.Error
	}
	if modelInfo.DisplayName != "" {
		status["display_name"] = modelInfo.DisplayName
	}
	return status, modelInfo.Available
}

// checkCircuitBreakerHealth reports the state of the embedding circuit breakers.
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	if s.Embedding == nil {
		return map[string]any{
			"available": false,
			"error":     "embedding service not initialized",
		}
	}
	return s.Embedding.Provider.GetCircuitBreakerStats()
}

// classifyExpiry maps time-to-expiry onto a status label. Anything inside the
// critical window counts as unhealthy so orchestrators rotate before outage.
func classifyExpiry(timeToExpiry time.Duration) (status, message string, healthy bool) {
	switch {
	case timeToExpiry <= 0:
		return "expired", "Certificate has expired", false
	case timeToExpiry <= certExpiryCritical:
		return "critical", "Certificate expires within 24 hours", false
	case timeToExpiry <= certExpiryWarning:
		return "warning", "Certificate expires within 7 days", true
	default:
		return "ok", "Certificate is valid", true
	}
}

// checkCertificateHealth inspects the managed certificates. Returns nil when
// no certificate manager is active (plain HTTP or static TLS).
func (s *Server) checkCertificateHealth() (map[string]any, bool) {
	if s.CertificateManager == nil {
		return nil, true
	}

	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		return map[string]any{
			"healthy": false,
			"error":   fmt.Sprintf("Failed to check certificate expiry: %v", err),
		}, false
	}

	status, message, healthy := classifyExpiry(timeToExpiry)
	certStatus := map[string]any{
		"time_to_expiry_hours": int(timeToExpiry.Hours()),
		"time_to_expiry":       timeToExpiry.String(),
		"healthy":              healthy,
		"status":               status,
		"message":              message,
		"auto_reload":          s.autoReloadStatus(),
	}

	if metrics := s.CertificateManager.GetMetrics(); metrics != nil {
		certStatus["metrics"] = map[string]any{
			"reload_count":         metrics.ReloadCount,
			"reload_success_count": metrics.ReloadSuccessCount,
			"reload_failure_count": metrics.ReloadFailureCount,
			"last_reload_time":     metrics.LastReloadTime,
			"last_reload_success":  metrics.LastReloadSuccess,
			"last_reload_error":    metrics.LastReloadError,
		}
	}

	return certStatus, healthy
}

// autoReloadStatus summarizes the file and Vault watchers behind the
// certificate manager.
func (s *Server) autoReloadStatus() map[string]any {
	if !s.TLSConfig.AutoReload.Enabled {
		return map[string]any{"enabled": false}
	}

	reload := map[string]any{
		"enabled":               true,
		"file_watcher_enabled":  s.TLSConfig.AutoReload.FileWatcher.Enabled,
		"vault_watcher_enabled": s.TLSConfig.AutoReload.VaultWatcher.Enabled,
	}
	if fw := s.CertificateManager.fileWatcher; fw != nil {
		reload["file_watcher_running"] = fw.IsRunning()
		reload["watched_files"] = fw.GetWatchedFiles()
	}
	if vw := s.CertificateManager.vaultWatcher; vw != nil {
		reload["vault_watcher_status"] = vw.Status()
	}
	return reload
}

// skillsHandler lists the loaded skill taxonomy.
func (s *Server) skillsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type skillEntry struct {
		Name     string   `json:"name"`
		Category string   `json:"category"`
		Aliases  []string `json:"aliases,omitempty"`
		Priority string   `json:"priority"`
	}

	loaded := s.Engine.Taxonomy().Skills()
	skills := make([]skillEntry, 0, len(loaded))
	for _, sk := range loaded {
		skills = append(skills, skillEntry{
			Name:     sk.Name,
			Category: string(sk.Category),
			Aliases:  sk.Aliases,
			Priority: string(sk.Priority),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(skills),
		"skills": skills,
	})
}

// statsHandler exposes request limits and live rate limiting counters.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumescreen",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_batch_size":         s.MaxBatchSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest decodes the request body into v. The body is already
// wrapped by http.MaxBytesReader, so an oversized payload surfaces here as a
// MaxBytesError rather than a truncated read.
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// writeErrorResponse writes a standardized error response.
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
