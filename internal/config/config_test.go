package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokobuku/internal/config"
)

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, config.DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "orders", cfg.RabbitMQ.Exchange)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DATABASE_DSN", "file::memory:")

	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "file::memory:", cfg.Store.DSN)
}

func TestFromViper_UnknownDriver(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "cassandra")

	_, err := config.FromViper(v)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}
