package config

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type PricesConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	IntervalMinutes int    `mapstructure:"interval_minutes"`
	Enabled         bool   `mapstructure:"enabled"`
}

type AuditConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Prices   PricesConfig   `mapstructure:"prices"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Log      LogConfig      `mapstructure:"log"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load reads configuration from the given file path (e.g. "config.yaml").
// An empty path falls back to "config.yaml" in the working directory, and
// a missing file there is fine: every key has a default and can be set
// through the environment, e.g. CPT_SERVER_PORT=9000.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		v.SetDefault("server.address", "0.0.0.0")
		v.SetDefault("server.port", 8080)
		v.SetDefault("server.mode", "release")
		v.SetDefault("database.path", "data/portfolio.db")
		v.SetDefault("jwt.issuer", "crypto-portfolio")
		v.SetDefault("jwt.expire_hours", 24)
		v.SetDefault("prices.base_url", "https://api.coingecko.com/api/v3")
		v.SetDefault("prices.interval_minutes", 60)
		v.SetDefault("prices.enabled", true)
		v.SetDefault("audit.queue_size", 256)
		v.SetDefault("log.level", "info")

		v.SetEnvPrefix("CPT")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if readErr := v.ReadInConfig(); readErr != nil {
			var notFound viper.ConfigFileNotFoundError
			if path != "" || !errors.As(readErr, &notFound) {
				err = errors.Wrap(readErr, "read config")
				return
			}
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = errors.Wrap(err, "unmarshal config")
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration. Call Load once at startup.
func Get() *Config {
	return appConfig
}
