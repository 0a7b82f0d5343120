package config

import (
	"context"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
)

// Loader reads configuration from defaults, an optional YAML file and the
// environment, and can watch the file for changes.
type Loader struct {
	v   *viper.Viper
	log logger.Logger
}

// NewLoader creates a Loader. configFile may be empty, in which case
// config.yaml is searched for in /etc/transgate/ and the working directory.
func NewLoader(log logger.Logger, configFile string) *Loader {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/transgate/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TRANSGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names the service was historically deployed with.
	_ = v.BindEnv("server.port", "TRANSGATE_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.environment", "TRANSGATE_SERVER_ENVIRONMENT", "NODE_ENV")
	_ = v.BindEnv("auth.tenant_id", "TRANSGATE_AUTH_TENANT_ID", "AZURE_AD_TENANT_ID")
	_ = v.BindEnv("auth.client_id", "TRANSGATE_AUTH_CLIENT_ID", "AZURE_AD_CLIENT_ID")
	_ = v.BindEnv("vault.address", "TRANSGATE_VAULT_ADDRESS", "VAULT_ADDR")
	_ = v.BindEnv("vault.token", "TRANSGATE_VAULT_TOKEN", "VAULT_TOKEN")

	return &Loader{v: v, log: log}
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(log logger.Logger) (*Config, error) {
	return NewLoader(log, "").Load()
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ErrInternal("failed to read config").WithCause(err)
		}
		l.log.Debug(context.Background(), "No config file found, using defaults and environment")
	}
	return l.unmarshal()
}

// Watch invokes onChange with the freshly parsed configuration whenever the
// config file changes. It is a no-op when no file was loaded.
func (l *Loader) Watch(onChange func(*Config)) {
	file := l.v.ConfigFileUsed()
	if file == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.unmarshal()
		if err != nil {
			l.log.Error(context.Background(), "Ignoring invalid config change", err, logger.Fields{"file": e.Name})
			return
		}
		l.log.Info(context.Background(), "Config file changed", logger.Fields{"file": e.Name})
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInternal("failed to unmarshal config").WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.ErrInternal("invalid config").WithCause(err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.environment", constants.EnvironmentProduction)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("auth.tenant_id", "")
	v.SetDefault("auth.client_id", "")
	v.SetDefault("auth.authority_url", constants.DefaultAuthorityURL)
	v.SetDefault("auth.required_scope", constants.RequiredScope)
	v.SetDefault("auth.leeway", 0)
	v.SetDefault("auth.key_cache_ttl", constants.SigningKeyCacheTTL)
	v.SetDefault("auth.key_requests_per_minute", constants.KeyDiscoveryRequestsPerMinute)
	v.SetDefault("auth.key_discovery_timeout", constants.KeyDiscoveryTimeout)

	v.SetDefault("content_safety.endpoint", "")
	v.SetDefault("content_safety.key", "")
	v.SetDefault("content_safety.region", "")
	v.SetDefault("content_safety.blocklist_names", []string{})
	v.SetDefault("content_safety.timeout", constants.DefaultUpstreamTimeout)

	v.SetDefault("translator.endpoint", "")
	v.SetDefault("translator.key", "")
	v.SetDefault("translator.region", "")
	v.SetDefault("translator.timeout", constants.DefaultUpstreamTimeout)

	// Viper keys are case-insensitive, so categories arrive lower-cased.
	v.SetDefault("moderation.thresholds.hate", constants.DefaultRejectThreshold)
	v.SetDefault("moderation.thresholds.violence", constants.DefaultRejectThreshold)
	v.SetDefault("moderation.thresholds.selfharm", constants.DefaultRejectThreshold)
	v.SetDefault("moderation.thresholds.sexual", constants.DefaultRejectThreshold)

	v.SetDefault("redis.addresses", []string{})
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", "transgate:jwks:")

	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", "transgate")
	v.SetDefault("tracing.sampling_rate", 1.0)
}

//Personal.AI order the ending
