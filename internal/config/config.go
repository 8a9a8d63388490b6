package config

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMESCREEN_EMBEDDING_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// EmbeddingConfig holds embedding provider configuration
type EmbeddingConfig struct {
	Provider       string               `mapstructure:"provider"`
	Model          string               `mapstructure:"model"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	APIKey         string               `mapstructure:"apiKey"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	TaskType       string               `mapstructure:"taskType"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig tunes the breaker guarding embedding provider calls.
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // requests allowed through when half-open
	Interval         time.Duration `mapstructure:"interval"`         // how often closed-state counts reset
	Timeout          time.Duration `mapstructure:"timeout"`          // how long open lasts before half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // minimum requests before the ratio applies
	FailureThreshold float64       `mapstructure:"failureThreshold"` // failure ratio in [0, 1] that trips the breaker
}

// EngineConfig holds scoring engine configuration. Weight overrides are
// pointers so "explicitly zero" and "not set" stay distinguishable.
type EngineConfig struct {
	WeightPreset           string        `mapstructure:"weightPreset"`
	Weights                WeightsConfig `mapstructure:"weights"`
	FuzzyThreshold         float64       `mapstructure:"fuzzyThreshold"`
	ChunkSize              int           `mapstructure:"chunkSize"`
	FeedbackTopN           int           `mapstructure:"feedbackTopN"`
	NeutralExperienceScore float64       `mapstructure:"neutralExperienceScore"`
	DefaultRequiredYears   float64       `mapstructure:"defaultRequiredYears"`
	MaxConcurrentEmbeds    int64         `mapstructure:"maxConcurrentEmbeds"`
	BatchWorkers           int           `mapstructure:"batchWorkers"`
	TaxonomyFile           string        `mapstructure:"taxonomyFile"`
}

// WeightsConfig holds per-component weight overrides on top of a preset
type WeightsConfig struct {
	Semantic   *float64 `mapstructure:"semantic"`
	Skill      *float64 `mapstructure:"skill"`
	Experience *float64 `mapstructure:"experience"`
	Education  *float64 `mapstructure:"education"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`
	MaxBatchSize   int           `mapstructure:"maxBatchSize"`

	// TLS Configuration
	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS/mTLS configuration. Certificates come either from
// files or as inline PEM content; the content fields win when both are set,
// since that is how Vault-delivered material arrives.
type TLSConfig struct {
	Mode     string `mapstructure:"mode"` // "disabled", "server", or "mutual"
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"` // required for mutual mode when caContent is empty

	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string   `mapstructure:"minVersion"` // "1.2" or "1.3"
	CipherSuites     []string `mapstructure:"cipherSuites"`
	ClientAuthPolicy string   `mapstructure:"clientAuthPolicy"` // "require", "request", or "verify"

	InsecureSkipVerify bool   `mapstructure:"insecureSkipVerify"` // development only
	ServerName         string `mapstructure:"serverName"`

	AutoReload AutoReloadConfig `mapstructure:"autoReload"`
}

// AutoReloadConfig controls automatic certificate reloading.
type AutoReloadConfig struct {
	Enabled           bool               `mapstructure:"enabled"`
	CheckInterval     time.Duration      `mapstructure:"checkInterval"`
	PreemptiveRenewal time.Duration      `mapstructure:"preemptiveRenewal"` // reload this long before expiry
	MaxRetries        int                `mapstructure:"maxRetries"`
	RetryDelay        time.Duration      `mapstructure:"retryDelay"`
	FileWatcher       FileWatcherConfig  `mapstructure:"fileWatcher"`
	VaultWatcher      VaultWatcherConfig `mapstructure:"vaultWatcher"`
}

// FileWatcherConfig tunes fsnotify-based certificate watching.
type FileWatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// VaultWatcherConfig tunes Vault secret polling for certificate rotation.
type VaultWatcherConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	PollInterval   time.Duration `mapstructure:"pollInterval"`
	AutoRenew      bool          `mapstructure:"autoRenew"`
	RenewThreshold time.Duration `mapstructure:"renewThreshold"`
	SecretPath     string        `mapstructure:"secretPath"`
}

// RateLimitConfig controls per-client request limiting.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"` // token bucket size
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	Embedding       EmbeddingMetricsConfig      `mapstructure:"embedding"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// EmbeddingMetricsConfig holds embedding operation metrics configuration
type EmbeddingMetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TrackDuration  bool `mapstructure:"trackDuration"`
	TrackModelInfo bool `mapstructure:"trackModelInfo"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackCertExpiry bool `mapstructure:"trackCertExpiry"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	ModelCheckTimeout time.Duration `mapstructure:"modelCheckTimeout"`
}

// LoadConfig builds the configuration from defaults, an optional YAML config
// file, and RESUMESCREEN_* environment variables, then validates it.
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Loading configuration")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMESCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumescreen/")
	v.AddConfigPath("$HOME/.resumescreen")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loaded")
	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key is required (set RESUMESCREEN_EMBEDDING_APIKEY environment variable)")
	}

	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	// Validate engine settings, including the weight sum. Weights are
	// checked once here at load, never per scoring call.
	if err := c.ValidateEngineConfig(); err != nil {
		return fmt.Errorf("engine configuration error: %w", err)
	}

	// Validate TLS configuration
	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// ValidateEngineConfig validates the scoring engine configuration
func (c *Config) ValidateEngineConfig() error {
	if _, ok := weightPresets[c.Engine.WeightPreset]; !ok {
		return fmt.Errorf("unknown weight preset: %s (valid presets: %s)",
			c.Engine.WeightPreset, strings.Join(presetNames(), ", "))
	}

	w := c.ResolvedWeights()
	for name, value := range map[string]float64{
		"semantic":   w.Semantic,
		"skill":      w.Skill,
		"experience": w.Experience,
		"education":  w.Education,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("weight %s = %v is outside [0, 1]", name, value)
		}
	}

	sum := w.Semantic + w.Skill + w.Experience + w.Education
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}

	if c.Engine.FuzzyThreshold <= 0 || c.Engine.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzyThreshold must be in (0, 1], got %v", c.Engine.FuzzyThreshold)
	}
	if c.Engine.ChunkSize <= 0 {
		return fmt.Errorf("chunkSize must be positive, got %d", c.Engine.ChunkSize)
	}
	if c.Engine.FeedbackTopN <= 0 {
		return fmt.Errorf("feedbackTopN must be positive, got %d", c.Engine.FeedbackTopN)
	}
	if c.Engine.NeutralExperienceScore < 0 || c.Engine.NeutralExperienceScore > 100 {
		return fmt.Errorf("neutralExperienceScore must be in [0, 100], got %v", c.Engine.NeutralExperienceScore)
	}
	if c.Engine.DefaultRequiredYears < 0 {
		return fmt.Errorf("defaultRequiredYears must be non-negative, got %v", c.Engine.DefaultRequiredYears)
	}
	if c.Engine.BatchWorkers <= 0 {
		return fmt.Errorf("batchWorkers must be positive, got %d", c.Engine.BatchWorkers)
	}

	return nil
}

// Global configuration instance
var GlobalConfig *Config

// InitConfig initializes the global configuration
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
