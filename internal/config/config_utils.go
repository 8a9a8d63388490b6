package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// applyFallbacks fills in values that cannot be expressed as plain viper
// defaults: env-sourced API keys and settings derived from other settings.
func (c *Config) applyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		c.Server.APIKeys = splitAPIKeysEnv(os.Getenv("RESUMESCREEN_SERVER_APIKEYS"))
	}

	// Mutual TLS without an explicit policy demands client certificates.
	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}

	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	// Debug logging implies console trace output unless explicitly set.
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// splitAPIKeysEnv parses a comma separated key list from the environment.
func splitAPIKeysEnv(raw string) []string {
	if raw == "" {
		return nil
	}
	keys := strings.Split(raw, ",")
	for i, key := range keys {
		keys[i] = strings.TrimSpace(key)
	}
	return keys
}

// generateServiceInstanceID derives an instance ID from the hostname so
// multiple replicas are distinguishable in traces.
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// watchedEnvVars are the variables reported in the startup summary.
// GEMINI_API_KEY is the legacy name still honored as an API key fallback.
var watchedEnvVars = []string{
	"RESUMESCREEN_EMBEDDING_APIKEY",
	"RESUMESCREEN_EMBEDDING_PROVIDER",
	"RESUMESCREEN_EMBEDDING_MODEL",
	"RESUMESCREEN_ENGINE_WEIGHTPRESET",
	"RESUMESCREEN_SERVER_PORT",
	"RESUMESCREEN_SERVER_HOST",
	"RESUMESCREEN_APP_LOGLEVEL",
	"RESUMESCREEN_VAULT_ENABLED",
	"GEMINI_API_KEY",
}

// maskedEnvValue hides anything that looks like a credential.
func maskedEnvValue(name, value string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "apikey") || strings.Contains(lower, "key") {
		return "***MASKED***"
	}
	return value
}

// logConfigurationSources prints where configuration came from and the
// resolved key values, with secrets masked.
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	log.Println("[CONFIG] Environment variables:")
	found := false
	for _, envVar := range watchedEnvVars {
		if value := os.Getenv(envVar); value != "" {
			log.Printf("[CONFIG]   %s=%s", envVar, maskedEnvValue(envVar, value))
			found = true
		}
	}
	if !found {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Embedding Provider: %s", c.Embedding.Provider)
	log.Printf("[CONFIG] Embedding Model: %s", c.Embedding.Model)
	if c.Embedding.APIKey != "" {
		log.Println("[CONFIG] Embedding API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] Embedding API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Weight Preset: %s", c.Engine.WeightPreset)
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] =====================================")
}
