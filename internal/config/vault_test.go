package config

import (
	"os"
	"path/filepath"
	"testing"

	"resumescreen/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func writeTokenFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault-token")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolveVaultToken(t *testing.T) {
	logger := newTestLogger()

	t.Run("direct token wins", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token file is read and trimmed", func(t *testing.T) {
		cfg := VaultConfig{TokenFile: writeTokenFile(t, "  file-token  \n")}
		token, err := resolveVaultToken(cfg, logger)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("unreadable token file", func(t *testing.T) {
		cfg := VaultConfig{TokenFile: "/nonexistent/token/file"}
		_, err := resolveVaultToken(cfg, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token configured", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})

	t.Run("whitespace-only token file", func(t *testing.T) {
		cfg := VaultConfig{TokenFile: writeTokenFile(t, "   \n  \n")}
		_, err := resolveVaultToken(cfg, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

// secretWithVersion builds a KVv2 read response carrying the given metadata
// version value.
func secretWithVersion(version any) *api.Secret {
	return &api.Secret{
		Data: map[string]interface{}{
			"metadata": map[string]interface{}{
				"version": version,
			},
		},
	}
}

func TestExtractSecretVersion(t *testing.T) {
	// Vault's JSON decoding can surface the version as several numeric types
	// depending on the client path.
	for name, version := range map[string]any{
		"int64":   int64(42),
		"float64": float64(42),
		"string":  "42",
	} {
		t.Run("version as "+name, func(t *testing.T) {
			got, err := extractSecretVersion(secretWithVersion(version), "secret/test")
			assert.NoError(t, err)
			assert.Equal(t, int64(42), got)
		})
	}

	badSecrets := map[string]*api.Secret{
		"unparseable string":  secretWithVersion("not-a-number"),
		"unsupported type":    secretWithVersion([]string{"42"}),
		"missing version key": {Data: map[string]interface{}{"metadata": map[string]interface{}{"other": "value"}}},
		"missing metadata":    {Data: map[string]interface{}{"data": map[string]interface{}{}}},
	}
	for name, secret := range badSecrets {
		t.Run(name, func(t *testing.T) {
			_, err := extractSecretVersion(secret, "secret/test")
			assert.Error(t, err)
		})
	}
}

func TestLoadSingleCertificate(t *testing.T) {
	const pem = "-----BEGIN CERTIFICATE-----\ntest-cert\n-----END CERTIFICATE-----"

	tests := []struct {
		name        string
		data        map[string]any
		key         string
		wantCount   int
		wantContent string
	}{
		{
			name:        "present",
			data:        map[string]any{"cert": pem},
			key:         "cert",
			wantCount:   1,
			wantContent: pem,
		},
		{
			name:      "empty value",
			data:      map[string]any{"cert": ""},
			key:       "cert",
			wantCount: 0,
		},
		{
			name:      "missing key",
			data:      map[string]any{"other": "value"},
			key:       "cert",
			wantCount: 0,
		},
		{
			name:      "non-string value",
			data:      map[string]any{"cert": 123},
			key:       "cert",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target string
			count := loadSingleCertificate(&VaultSecret{Data: tt.data}, tt.key, &target)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantContent, target)
		})
	}
}

func TestValidateTLSDeprecatedVaultFields(t *testing.T) {
	t.Run("content fields pass", func(t *testing.T) {
		secret := &VaultSecret{Data: map[string]any{
			"cert": "cert-content",
			"key":  "key-content",
			"ca":   "ca-content",
		}}
		assert.NoError(t, validateTLSDeprecatedFields(secret))
	})

	// Path-style fields were dropped in favor of storing PEM content
	// directly in Vault.
	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		t.Run(field+" rejected", func(t *testing.T) {
			secret := &VaultSecret{Data: map[string]any{field: "/some/path"}}
			err := validateTLSDeprecatedFields(secret)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), field)
			assert.Contains(t, err.Error(), "no longer supported")
		})
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))
}
