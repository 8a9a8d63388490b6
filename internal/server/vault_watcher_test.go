package server

import (
	"testing"
	"time"

	"resumescreen/internal/config"
)

// fakeVaultClient serves canned secrets keyed by path.
type fakeVaultClient struct {
	secrets map[string]*config.VaultSecret
}

func (f *fakeVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	return f.secrets[path], nil
}

func (f *fakeVaultClient) GetStringSecret(path, key string) (string, error) {
	if secret, ok := f.secrets[path]; ok {
		if value, ok := secret.Data[key].(string); ok {
			return value, nil
		}
	}
	return "", nil
}

func (f *fakeVaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	if secret, ok := f.secrets[path]; ok {
		if value, ok := secret.Data[key].([]string); ok {
			return value, nil
		}
	}
	return nil, nil
}

func newTestWatcher(client VaultClientInterface) *VaultWatcher {
	return NewVaultWatcher(client, "secret/data/tls", time.Minute,
		func(data *CertificateData, err error) {}, nil)
}

func TestVaultWatcherFetchNewCertsFromVault(t *testing.T) {
	client := &fakeVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/tls": {
				Data: map[string]any{
					"cert": "pem-cert",
					"key":  "pem-key",
					"ca":   "pem-ca",
				},
				Version: 1,
			},
		},
	}

	vw := newTestWatcher(client)
	data, err := vw.fetchNewCertsFromVault()
	if err != nil {
		t.Fatalf("fetchNewCertsFromVault failed: %v", err)
	}

	if data.CertContent != "pem-cert" {
		t.Errorf("CertContent = %q, want %q", data.CertContent, "pem-cert")
	}
	if data.KeyContent != "pem-key" {
		t.Errorf("KeyContent = %q, want %q", data.KeyContent, "pem-key")
	}
	if data.CAContent != "pem-ca" {
		t.Errorf("CAContent = %q, want %q", data.CAContent, "pem-ca")
	}
}

func TestVaultWatcherFetchPartialSecret(t *testing.T) {
	client := &fakeVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/tls": {
				Data:    map[string]any{"cert": "only-cert"},
				Version: 1,
			},
		},
	}

	vw := newTestWatcher(client)
	data, err := vw.fetchNewCertsFromVault()
	if err != nil {
		t.Fatalf("fetchNewCertsFromVault failed: %v", err)
	}
	if data.CertContent != "only-cert" {
		t.Errorf("CertContent = %q, want %q", data.CertContent, "only-cert")
	}
	if data.KeyContent != "" || data.CAContent != "" {
		t.Errorf("missing fields should stay empty, got key=%q ca=%q", data.KeyContent, data.CAContent)
	}
}

func TestVaultWatcherCheckForUpdates(t *testing.T) {
	client := &fakeVaultClient{
		secrets: map[string]*config.VaultSecret{
			"secret/data/tls": {
				Data:    map[string]any{},
				Version: 2,
			},
		},
	}

	vw := newTestWatcher(client)

	// First check sees version 0 -> 2.
	changed, err := vw.checkForUpdates()
	if err != nil {
		t.Fatalf("checkForUpdates failed: %v", err)
	}
	if !changed {
		t.Error("expected version bump to be detected")
	}

	// Same version again: no change.
	changed, err = vw.checkForUpdates()
	if err != nil {
		t.Fatalf("checkForUpdates failed: %v", err)
	}
	if changed {
		t.Error("expected no change at same version")
	}

	// Rotation bumps the version once more.
	client.secrets["secret/data/tls"].Version = 3
	changed, err = vw.checkForUpdates()
	if err != nil {
		t.Fatalf("checkForUpdates failed: %v", err)
	}
	if !changed {
		t.Error("expected new version to be detected")
	}
}
