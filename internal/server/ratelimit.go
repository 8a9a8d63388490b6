package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumescreen/internal/errors"

	"golang.org/x/time/rate"
)

// limiterEntry pairs a token bucket with the time it was last used, so idle
// clients can be evicted.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterManager keys token-bucket limiters by client identity (API key or IP)
// and evicts buckets that have gone quiet.
type LimiterManager struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rate    rate.Limit
	burst   int
	done    chan struct{}
	logger  *errors.Logger
}

// NewRateLimiter builds a manager allowing requestsPerMin requests per minute
// with the given burst capacity. Idle buckets are evicted after ten windows,
// with a ten minute floor so short windows do not thrash the map.
func NewRateLimiter(requestsPerMin int, window time.Duration, burstCapacity int, logger *errors.Logger) *LimiterManager {
	m := &LimiterManager{
		entries: make(map[string]*limiterEntry),
		rate:    rate.Limit(float64(requestsPerMin) / 60.0),
		burst:   burstCapacity,
		done:    make(chan struct{}),
		logger:  logger,
	}

	evictAfter := 10 * window
	if evictAfter < 10*time.Minute {
		evictAfter = 10 * time.Minute
	}
	go m.evictLoop(evictAfter)
	return m
}

// Allow reports whether a request from the given key may proceed. Never blocks.
func (m *LimiterManager) Allow(key string) bool {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(m.rate, m.burst)}
		m.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	m.mu.Unlock()

	return entry.limiter.Allow()
}

// GetStats reports limiter state for the stats endpoint.
func (m *LimiterManager) GetStats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]any{
		"active_limiters": len(m.entries),
		"rate_per_second": float64(m.rate),
		"rate_per_minute": float64(m.rate) * 60.0,
		"burst_capacity":  m.burst,
	}
}

func (m *LimiterManager) evictLoop(evictAfter time.Duration) {
	ticker := time.NewTicker(evictAfter)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(evictAfter)
		case <-m.done:
			return
		}
	}
}

func (m *LimiterManager) evictIdle(evictAfter time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-evictAfter)
	for key, entry := range m.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(m.entries, key)
		}
	}

	if m.logger != nil {
		m.logger.Debug("Evicted idle rate limiters", "remaining", len(m.entries))
	}
}

// Close stops the eviction goroutine during server shutdown.
func (m *LimiterManager) Close() {
	close(m.done)
}

// rateLimitMiddleware enforces per-client limits ahead of the scoring handlers.
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// rateLimitKey picks the identity to limit on. API key wins over IP when both
// modes are enabled, so authenticated clients are not punished for sharing a NAT.
func rateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = after
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}
	if byIP {
		return "ip:" + getClientIP(r)
	}
	return ""
}

// getClientIP resolves the client address, preferring proxy headers.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseFirstIP(list string) string {
	for ip := range strings.SplitSeq(list, ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	return ""
}
