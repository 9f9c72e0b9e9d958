package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_PORT", "")
	t.Setenv("STOCK_MAX_ADD", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("ALLOWED_HOSTS", "")
	t.Setenv("DEBUG", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, int64(10000), cfg.StockMaxAdd)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.AllowedHosts)
	assert.Contains(t, cfg.DSN(), "password=pw")
}

func TestLoad_ParsesDebugAndAllowedHosts(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DEBUG", "True")
	t.Setenv("ALLOWED_HOSTS", "localhost, example.com ,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"localhost", "example.com"}, cfg.AllowedHosts)
}

func TestLoad_SecretKeyRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidNumber(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STOCK_MAX_ADD", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_PrefersDatabaseURL(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://u:p@db/app"}
	assert.Equal(t, "postgres://u:p@db/app", cfg.DSN())
}
