// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"io/fs"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// EnvProduction is the APP_ENV value that switches off stack traces and
// development logging.
const EnvProduction = "production"

// Config is the complete application configuration.
type Config struct {
	Port        string
	Env         string
	JWTSecret   string
	CORSOrigins string
	SeedItems   bool
	Store       StoreConfig
	RabbitMQ    RabbitMQConfig
}

// StoreConfig selects and locates the persistent store.
type StoreConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	DSN           string // GORM data source for postgres and sqlite
}

// RabbitMQConfig locates the event bus. An empty URL disables it.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads .env from the working directory when present, then the process
// environment, which wins over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, "read .env")
		}
	}
	return FromViper(v)
}

// FromViper applies defaults to v and builds a Config from it.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "tokobuku")
	v.SetDefault("DATABASE_DSN", "file:tokobuku.db?cache=shared")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "orders")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SEED_ITEMS", false)
	v.AutomaticEnv()

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Env:         strings.ToLower(v.GetString("APP_ENV")),
		JWTSecret:   v.GetString("JWT_SECRET"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		SeedItems:   v.GetBool("SEED_ITEMS"),
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("STORE_DRIVER")),
			MongoURI:      v.GetString("MONGO_URI"),
			MongoDatabase: v.GetString("MONGO_DATABASE"),
			DSN:           v.GetString("DATABASE_DSN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	switch cfg.Store.Driver {
	case DriverMongo, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return nil, errors.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	return cfg, nil
}
