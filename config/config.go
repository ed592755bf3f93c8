package config

import (
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type ElectorConfig struct {
	CallTimeout  string `mapstructure:"call_timeout"`
	TotalTimeout string `mapstructure:"total_timeout"`
}

type HealthCheckConfig struct {
	Interval string `mapstructure:"interval"`
}

type BreakerConfig struct {
	Threshold int    `mapstructure:"threshold"`
	Timeout   string `mapstructure:"timeout"`
}

type BackendConfig struct {
	Name    string `mapstructure:"name"`
	URL     string `mapstructure:"url"`
	Primary bool   `mapstructure:"primary"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Elector     ElectorConfig     `mapstructure:"elector"`
	HealthCheck HealthCheckConfig `mapstructure:"health_check"`
	Breaker     BreakerConfig     `mapstructure:"breaker"`
	Backends    []BackendConfig   `mapstructure:"backends"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.address", ":5002")
	viper.SetDefault("elector.call_timeout", "5s")
	viper.SetDefault("elector.total_timeout", "10s")
	viper.SetDefault("health_check.interval", "10s")
	viper.SetDefault("breaker.threshold", 5)
	viper.SetDefault("breaker.timeout", "30s")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// CallTimeout returns the per-call timeout. Validate catches unparseable
// durations; anything that slips through falls back to 5s.
func (c *Config) CallTimeout() time.Duration {
	d, err := time.ParseDuration(c.Elector.CallTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// TotalTimeout returns the aggregate deadline for one fan-out.
func (c *Config) TotalTimeout() time.Duration {
	d, err := time.ParseDuration(c.Elector.TotalTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Elector,
			validation.Required,
			validation.By(func(value interface{}) error {
				ec, ok := value.(ElectorConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an ElectorConfig")
				}
				return validation.ValidateStruct(&ec,
					validation.Field(&ec.CallTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&ec.TotalTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.HealthCheck,
			validation.Required,
			validation.By(func(value interface{}) error {
				hc, ok := value.(HealthCheckConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a HealthCheckConfig")
				}
				return validation.ValidateStruct(&hc,
					validation.Field(&hc.Interval,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Breaker,
			validation.Required,
			validation.By(func(value interface{}) error {
				bc, ok := value.(BreakerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a BreakerConfig")
				}
				return validation.ValidateStruct(&bc,
					validation.Field(&bc.Threshold,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&bc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Backends,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateBackendConfig)),
			validation.By(validateSinglePrimary),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}

func validateBackendConfig(value interface{}) error {
	backend, ok := value.(BackendConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a BackendConfig")
	}

	if backend.Name == "" {
		return validation.NewError("validation_empty_name", "backend name cannot be empty")
	}

	if backend.URL == "" {
		return validation.NewError("validation_empty_url", "backend URL cannot be empty")
	}

	parsedURL, err := url.Parse(backend.URL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

func validateSinglePrimary(value interface{}) error {
	backends, ok := value.([]BackendConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a list of BackendConfig")
	}

	seen := make(map[string]bool, len(backends))
	primaries := 0

	for _, b := range backends {
		if seen[b.Name] {
			return validation.NewError("validation_duplicate_name", "backend names must be unique")
		}
		seen[b.Name] = true

		if b.Primary {
			primaries++
		}
	}

	if primaries != 1 {
		return validation.NewError("validation_primary_count", "exactly one backend must be marked primary")
	}

	return nil
}
