package config

import (
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/influxcluster/internal/instance"
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

type ClusterConfig struct {
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	RequestTimeout   string `mapstructure:"request_timeout"`
	FailoverCooldown string `mapstructure:"failover_cooldown"`
}

type InstanceConfig struct {
	URL string `mapstructure:"url"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}

type Config struct {
	Cluster   ClusterConfig    `mapstructure:"cluster"`
	Instances []InstanceConfig `mapstructure:"instances"`
	Logging   LoggingConfig    `mapstructure:"logging"`
}

func Load() (*Config, error) {
	viper.SetDefault("cluster.request_timeout", "0")
	viper.SetDefault("cluster.failover_cooldown", "60s")
	viper.SetDefault("logging.level", LogLevelInfo)
	viper.SetDefault("logging.environment", EnvDev)

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
		slog.Error("config file not found, using defaults and environment variables")
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

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Cluster,
			validation.Required,
			validation.By(func(value interface{}) error {
				cc, ok := value.(ClusterConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ClusterConfig")
				}
				return validation.ValidateStruct(&cc,
					validation.Field(&cc.Username, validation.Required),
					validation.Field(&cc.Password, validation.Required),
					validation.Field(&cc.RequestTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&cc.FailoverCooldown,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Instances,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateInstanceConfig)),
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
					validation.Field(&lc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
				)
			}),
		),
	)
}

// ParsedRequestTimeout returns the parsed per-request bound; zero
// means disabled. Call only after Validate.
func (c *ClusterConfig) ParsedRequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// ParsedFailoverCooldown returns the parsed re-admission delay.
// Call only after Validate.
func (c *ClusterConfig) ParsedFailoverCooldown() time.Duration {
	d, _ := time.ParseDuration(c.FailoverCooldown)
	return d
}

// Instance parses the configured endpoint URL. Call only after
// Validate.
func (ic *InstanceConfig) Instance() (instance.Instance, error) {
	return instance.Parse(ic.URL)
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

func validateInstanceConfig(value interface{}) error {
	ic, ok := value.(InstanceConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be an InstanceConfig")
	}

	if ic.URL == "" {
		return validation.NewError("validation_empty_url", "instance URL cannot be empty")
	}

	if _, err := instance.Parse(ic.URL); err != nil {
		return validation.NewError("validation_invalid_instance", err.Error())
	}

	return nil
}
