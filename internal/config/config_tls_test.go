package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validateTLS(tls TLSConfig) error {
	cfg := Config{Server: ServerConfig{TLS: tls}}
	return cfg.ValidateTLSConfig()
}

func TestValidateTLSConfigAccepts(t *testing.T) {
	valid := map[string]TLSConfig{
		"disabled mode": {
			Mode: "disabled",
		},
		"server mode with files": {
			Mode:     "server",
			CertFile: "/path/to/cert.pem",
			KeyFile:  "/path/to/key.pem",
		},
		"server mode with inline content": {
			Mode:        "server",
			CertContent: "cert-content",
			KeyContent:  "key-content",
		},
		// File for one half and content for the other is allowed as long
		// as each of cert and key comes from exactly one source.
		"server mode with mixed sources": {
			Mode:       "server",
			CertFile:   "/path/to/cert.pem",
			KeyContent: "key-content",
		},
		"mutual mode with CA": {
			Mode:     "mutual",
			CertFile: "/path/to/cert.pem",
			KeyFile:  "/path/to/key.pem",
			CAFile:   "/path/to/ca.pem",
		},
	}

	for name, tls := range valid {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, validateTLS(tls))
		})
	}
}

func TestValidateTLSConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantMsg string
	}{
		{
			name:    "unknown mode",
			tls:     TLSConfig{Mode: "invalid"},
			wantMsg: "invalid TLS mode: invalid",
		},
		{
			name:    "server mode without certificate",
			tls:     TLSConfig{Mode: "server", KeyFile: "/path/to/key.pem"},
			wantMsg: "TLS certificate and key are required for server mode",
		},
		{
			name:    "server mode without key",
			tls:     TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem"},
			wantMsg: "TLS certificate and key are required for server mode",
		},
		{
			name: "cert from both file and content",
			tls: TLSConfig{
				Mode:        "server",
				CertFile:    "/path/to/cert.pem",
				CertContent: "cert-content",
				KeyFile:     "/path/to/key.pem",
			},
			wantMsg: "cannot specify both certFile and certContent",
		},
		{
			name: "key from both file and content",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				KeyContent: "key-content",
			},
			wantMsg: "cannot specify both keyFile and keyContent",
		},
		{
			name: "mutual mode without CA",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			wantMsg: "CA certificate is required for mutual TLS mode",
		},
		{
			name: "CA from both file and content",
			tls: TLSConfig{
				Mode:      "mutual",
				CertFile:  "/path/to/cert.pem",
				KeyFile:   "/path/to/key.pem",
				CAFile:    "/path/to/ca.pem",
				CAContent: "ca-content",
			},
			wantMsg: "cannot specify both caFile and caContent",
		},
		{
			name: "unknown client auth policy",
			tls: TLSConfig{
				Mode:             "mutual",
				CertFile:         "/path/to/cert.pem",
				KeyFile:          "/path/to/key.pem",
				CAFile:           "/path/to/ca.pem",
				ClientAuthPolicy: "invalid",
			},
			wantMsg: "invalid clientAuthPolicy: invalid",
		},
		{
			name: "unsupported min version",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/path/to/cert.pem",
				KeyFile:    "/path/to/key.pem",
				MinVersion: "1.0",
			},
			wantMsg: "invalid TLS minVersion: 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLS(tt.tls)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateClientAuthPolicy(t *testing.T) {
	for _, policy := range []string{"require", "request", "verify", ""} {
		assert.NoError(t, validateClientAuthPolicy(policy), "policy %q", policy)
	}

	err := validateClientAuthPolicy("bogus")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be 'require', 'request', or 'verify'")
}

func TestValidateTLSVersion(t *testing.T) {
	for _, version := range []string{"", "1.2", "1.3"} {
		assert.NoError(t, validateTLSVersion(version), "version %q", version)
	}

	for _, version := range []string{"1.1", "invalid"} {
		err := validateTLSVersion(version)
		assert.Error(t, err, "version %q", version)
		assert.Contains(t, err.Error(), "must be '1.2' or '1.3'")
	}
}
