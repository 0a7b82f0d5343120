package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/transgate/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Auth          AuthConfig          `mapstructure:"auth"`
	ContentSafety ContentSafetyConfig `mapstructure:"content_safety"`
	Translator    TranslatorConfig    `mapstructure:"translator"`
	Moderation    ModerationConfig    `mapstructure:"moderation"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Log           LogConfig           `mapstructure:"log"`
	Tracing       TracingConfig       `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// IsDevelopment reports whether verbose error details may be returned to callers.
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == constants.EnvironmentDevelopment
}

// AuthConfig configures token validation. TenantID and ClientID seed the
// identity Store; a secret loader may replace them before traffic starts.
type AuthConfig struct {
	TenantID             string        `mapstructure:"tenant_id"`
	ClientID             string        `mapstructure:"client_id"`
	AuthorityURL         string        `mapstructure:"authority_url"`
	RequiredScope        string        `mapstructure:"required_scope"`
	Leeway               time.Duration `mapstructure:"leeway"`
	KeyCacheTTL          time.Duration `mapstructure:"key_cache_ttl"`
	KeyRequestsPerMinute int           `mapstructure:"key_requests_per_minute"`
	KeyDiscoveryTimeout  time.Duration `mapstructure:"key_discovery_timeout"`
}

type ContentSafetyConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	Key            string        `mapstructure:"key"`
	Region         string        `mapstructure:"region"`
	BlocklistNames []string      `mapstructure:"blocklist_names"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type TranslatorConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Key      string        `mapstructure:"key"`
	Region   string        `mapstructure:"region"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ModerationConfig holds the per-category reject thresholds.
type ModerationConfig struct {
	Thresholds map[string]int `mapstructure:"thresholds"`
}

type RedisConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Password  string   `mapstructure:"password"`
	DB        int      `mapstructure:"db"`
	PoolSize  int      `mapstructure:"pool_size"`
	KeyPrefix string   `mapstructure:"key_prefix"`
}

// Enabled reports whether a shared signing key cache is configured.
func (r RedisConfig) Enabled() bool {
	return len(r.Addresses) > 0
}

type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
}

// Enabled reports whether secrets should be loaded from Vault at startup.
func (v VaultConfig) Enabled() bool {
	return v.Address != "" && v.SecretPath != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Identity returns the tenant/client pair configured statically.
func (c *Config) Identity() Identity {
	return Identity{TenantID: c.Auth.TenantID, ClientID: c.Auth.ClientID}
}

// Validate checks for essential configuration values.
// Identity and upstream endpoints are not required here since they may be
// supplied later by the secret loader; ValidateUpstreams covers them.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if _, err := url.ParseRequestURI(c.Auth.AuthorityURL); err != nil {
		return fmt.Errorf("auth.authority_url is invalid: %w", err)
	}
	if c.Auth.KeyRequestsPerMinute <= 0 {
		return fmt.Errorf("auth.key_requests_per_minute must be positive")
	}
	if c.Auth.KeyCacheTTL <= 0 {
		return fmt.Errorf("auth.key_cache_ttl must be positive")
	}
	if c.ContentSafety.Timeout <= 0 || c.Translator.Timeout <= 0 || c.Auth.KeyDiscoveryTimeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}
	for category, threshold := range c.Moderation.Thresholds {
		if threshold < 0 {
			return fmt.Errorf("moderation.thresholds.%s must not be negative", category)
		}
	}
	return nil
}

// ValidateUpstreams checks that both Cognitive Services endpoints are usable.
func (c *Config) ValidateUpstreams() error {
	for name, endpoint := range map[string]string{
		"content_safety.endpoint": c.ContentSafety.Endpoint,
		"translator.endpoint":     c.Translator.Endpoint,
	} {
		if endpoint == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("%s is invalid: %w", name, err)
		}
	}
	return nil
}

//Personal.AI order the ending
