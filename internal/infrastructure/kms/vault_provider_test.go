package kms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/internal/infrastructure/kms"
	"github.com/turtacn/transgate/pkg/logger"
)

func newVaultServer(t *testing.T, path string, data map[string]interface{}) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/"+path, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"data":     data,
				"metadata": map[string]interface{}{"version": 3},
			},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestVaultProvider_LoadSecrets(t *testing.T) {
	ts := newVaultServer(t, "secret/data/transgate/prod", map[string]interface{}{
		"translator_endpoint":     "https://api.cognitive.microsofttranslator.com/",
		"translator_key":          "tk",
		"content_safety_endpoint": "https://safety.cognitiveservices.azure.com",
		"content_safety_key":      "ck",
		"client_id":               "client-from-vault",
		"tenant_id":               "tenant-from-vault",
	})

	cfg := config.VaultConfig{Address: ts.URL, Token: "test-token", MountPath: "secret", SecretPath: "/transgate/prod/"}
	provider, err := kms.NewVaultProvider(cfg, nil, logger.NewNoopLogger())
	require.NoError(t, err)

	secrets, err := provider.LoadSecrets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tk", secrets.TranslatorKey)
	assert.Equal(t, "ck", secrets.ContentSafetyKey)
	assert.Equal(t, "tenant-from-vault", secrets.TenantID)

	t.Run("apply overrides config and publishes identity", func(t *testing.T) {
		appCfg := &config.Config{}
		appCfg.Auth.TenantID = "tenant-from-env"
		appCfg.Translator.Region = "westeurope"
		store := config.NewStore(appCfg.Identity())

		secrets.Apply(appCfg, store)

		assert.Equal(t, "https://api.cognitive.microsofttranslator.com/", appCfg.Translator.Endpoint)
		assert.Equal(t, "westeurope", appCfg.Translator.Region)
		assert.Equal(t, "tenant-from-vault", appCfg.Auth.TenantID)
		assert.Equal(t, config.Identity{TenantID: "tenant-from-vault", ClientID: "client-from-vault"}, store.Get())
	})
}

func TestVaultProvider_PartialSecretKeepsConfig(t *testing.T) {
	ts := newVaultServer(t, "kv/data/transgate", map[string]interface{}{
		"translator_key": "tk",
	})
	provider, err := kms.NewVaultProvider(config.VaultConfig{Address: ts.URL, Token: "test-token", MountPath: "kv", SecretPath: "transgate"}, nil, logger.NewNoopLogger())
	require.NoError(t, err)

	secrets, err := provider.LoadSecrets(context.Background())
	require.NoError(t, err)

	appCfg := &config.Config{}
	appCfg.Auth.ClientID = "client-from-env"
	store := config.NewStore(appCfg.Identity())
	secrets.Apply(appCfg, store)

	assert.Equal(t, "tk", appCfg.Translator.Key)
	assert.Equal(t, "client-from-env", appCfg.Auth.ClientID)
	assert.Equal(t, "client-from-env", store.Get().ClientID)
}

func TestVaultProvider_MissingSecret(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[]}`))
	}))
	defer ts.Close()

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = ts.URL
	vaultClient, err := api.NewClient(vaultConfig)
	require.NoError(t, err)

	provider, err := kms.NewVaultProvider(config.VaultConfig{SecretPath: "transgate"}, vaultClient, logger.NewNoopLogger())
	require.NoError(t, err)

	_, err = provider.LoadSecrets(context.Background())
	assert.Error(t, err)
}
