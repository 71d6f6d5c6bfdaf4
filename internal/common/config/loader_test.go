package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: search-service
  environment: test
server:
  port: 9090
database:
  postgres:
    host: localhost
    port: 5432
    database: venvl
    user: venvl
  redis:
    address: localhost:6379
search:
  price_cache_ttl: 60000
  fetch_throttle: 500
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "search-service", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 60000, cfg.Search.PriceCacheTTL)
	assert.Equal(t, 500, cfg.Search.FetchThrottle)

	// untouched fields pick up defaults
	assert.Equal(t, 25, cfg.Search.MonthlyEstimateDays)
	assert.Equal(t, 30, cfg.Search.MonthlySampleDivisor)
	assert.Equal(t, float64(100), cfg.Search.Fallback.DailyMin)
	assert.Equal(t, float64(5000), cfg.Search.Fallback.DailyMax)
	assert.Equal(t, float64(5000), cfg.Search.Fallback.MonthlyMin)
	assert.Equal(t, float64(500000), cfg.Search.Fallback.MonthlyMax)
	assert.Equal(t, float64(100), cfg.Search.Fallback.FlexibleMin)
	assert.Equal(t, float64(500000), cfg.Search.Fallback.FlexibleMax)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 15000, cfg.Server.ReadTimeout)
}

func TestLoadFromFile_MissingRequiredFields(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: search-service
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.host")
}

func TestLoadFromFile_EnvSecretFallback(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")

	path := writeConfigFile(t, `
database:
  postgres:
    host: localhost
    database: venvl
    user: venvl
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Postgres.Password)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, time.Second, GetDuration(1000))
	assert.Equal(t, 30*time.Minute, GetDuration(1800000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", s.Addr())
}
