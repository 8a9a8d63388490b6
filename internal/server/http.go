package server

import (
	"time"

	"resumescreen/internal/ai"
	"resumescreen/internal/config"
	"resumescreen/internal/engine"
	resumescreenErrors "resumescreen/internal/errors"
	"resumescreen/internal/types"
)

// ScoreRequest is the body for the score endpoint.
type ScoreRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// BatchRequest is the body for the batch ranking endpoint.
type BatchRequest struct {
	JobDescription string              `json:"jobDescription"`
	Resumes        []types.BatchResume `json:"resumes"`
}

// ExtractRequest is the body for the extract-skills endpoint.
type ExtractRequest struct {
	ResumeText string `json:"resumeText"`
}

// ErrorResponse is the uniform error payload for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server is the HTTP API server. Engine and Embedding are nil until Start
// wires them.
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config

	Engine    *engine.Engine
	Embedding *ai.Service

	TLSConfig          config.TLSConfig
	CertificateManager *CertificateManager

	// API keys accepted by the auth middleware. Empty means open access.
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64
	MaxBatchSize   int

	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	Logger *resumescreenErrors.Logger
}

// ServerConfig bundles the constructor arguments for NewServer.
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	MaxBatchSize   int
	RateLimit      *config.RateLimitConfig
}

// NewServer builds a Server from configuration. The rate limiter is created
// here when enabled so its eviction loop starts with the server.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumescreenErrors.Logger) *Server {
	apiKeyMap := make(map[string]bool, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		MaxBatchSize:   cfg.MaxBatchSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
