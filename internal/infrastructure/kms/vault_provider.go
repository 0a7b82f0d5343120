package kms

import (
	"context"
	"fmt"
	"path"
	"strings"

	vault "github.com/hashicorp/vault/api"

	"github.com/turtacn/transgate/internal/config"
	"github.com/turtacn/transgate/pkg/logger"
)

// Secret field names read from the KV v2 secret.
const (
	SecretTranslatorEndpoint    = "translator_endpoint"
	SecretTranslatorKey         = "translator_key"
	SecretContentSafetyEndpoint = "content_safety_endpoint"
	SecretContentSafetyKey      = "content_safety_key"
	SecretClientID              = "client_id"
	SecretTenantID              = "tenant_id"
)

// ServiceSecrets are the values the service needs before it accepts traffic.
// Empty fields leave the configured value untouched.
type ServiceSecrets struct {
	TranslatorEndpoint    string
	TranslatorKey         string
	ContentSafetyEndpoint string
	ContentSafetyKey      string
	ClientID              string
	TenantID              string
}

// VaultProvider reads ServiceSecrets from a HashiCorp Vault KV v2 mount.
type VaultProvider struct {
	vaultClient *vault.Client
	logger      logger.Logger
	config      config.VaultConfig
}

// NewVaultProvider creates a new VaultProvider. A nil client is built from cfg.
func NewVaultProvider(cfg config.VaultConfig, vaultClient *vault.Client, log logger.Logger) (*VaultProvider, error) {
	if vaultClient == nil {
		vaultConfig := vault.DefaultConfig()
		vaultConfig.Address = cfg.Address

		client, err := vault.NewClient(vaultConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create vault client: %w", err)
		}
		client.SetToken(cfg.Token)
		vaultClient = client
	}
	return &VaultProvider{
		vaultClient: vaultClient,
		logger:      log.WithFields(logger.Fields{"component": "vault_provider"}),
		config:      cfg,
	}, nil
}

func (p *VaultProvider) secretPath() string {
	mount := strings.Trim(p.config.MountPath, "/")
	if mount == "" {
		mount = "secret"
	}
	return path.Join(mount, "data", strings.Trim(p.config.SecretPath, "/"))
}

// LoadSecrets reads the configured secret.
func (p *VaultProvider) LoadSecrets(ctx context.Context) (*ServiceSecrets, error) {
	secretPath := p.secretPath()
	secret, err := p.vaultClient.Logical().ReadWithContext(ctx, secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from vault: %w", err)
	}
	if secret == nil || secret.Data["data"] == nil {
		return nil, fmt.Errorf("secret not found at %s", secretPath)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret data format at %s", secretPath)
	}

	str := func(key string) string {
		s, _ := data[key].(string)
		return strings.TrimSpace(s)
	}
	secrets := &ServiceSecrets{
		TranslatorEndpoint:    str(SecretTranslatorEndpoint),
		TranslatorKey:         str(SecretTranslatorKey),
		ContentSafetyEndpoint: str(SecretContentSafetyEndpoint),
		ContentSafetyKey:      str(SecretContentSafetyKey),
		ClientID:              str(SecretClientID),
		TenantID:              str(SecretTenantID),
	}

	// Never log secret values, only which ones were present.
	present := make([]string, 0, len(data))
	for key := range data {
		present = append(present, key)
	}
	p.logger.Info(ctx, "Loaded service secrets from vault", logger.Fields{"path": secretPath, "keys": present})
	return secrets, nil
}

// Apply copies non-empty secrets into cfg and publishes the identity to store.
func (s *ServiceSecrets) Apply(cfg *config.Config, store *config.Store) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Translator.Endpoint, s.TranslatorEndpoint)
	set(&cfg.Translator.Key, s.TranslatorKey)
	set(&cfg.ContentSafety.Endpoint, s.ContentSafetyEndpoint)
	set(&cfg.ContentSafety.Key, s.ContentSafetyKey)
	set(&cfg.Auth.ClientID, s.ClientID)
	set(&cfg.Auth.TenantID, s.TenantID)
	if store != nil {
		store.Update(config.Identity{TenantID: s.TenantID, ClientID: s.ClientID})
	}
}

//Personal.AI order the ending
