package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs Load from an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "schools", cfg.Database.Name)
	assert.Equal(t, 10, cfg.Query.DefaultPageSize)
	assert.Equal(t, 100, cfg.Query.MaxPageSize)
	assert.Equal(t, 100, cfg.Query.AggregateBatchSize)
	assert.False(t, cfg.Query.StrictFilters)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", ":memory:")
	t.Setenv("QUERY_STRICT_FILTERS", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.True(t, cfg.Query.StrictFilters)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadFromDotEnvFile(t *testing.T) {
	chdirTemp(t)
	// godotenv never overrides variables that already exist, so registering
	// them empty keeps the process environment clean after the test.
	t.Setenv("API_PREFIX", "")
	t.Setenv("QUERY_DEFAULT_PAGE_SIZE", "")
	require.NoError(t, os.WriteFile(".env", []byte("API_PREFIX=/billing\nQUERY_DEFAULT_PAGE_SIZE=25\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/billing", cfg.APIPrefix)
	assert.Equal(t, 25, cfg.Query.DefaultPageSize)
}

func TestLoadClampsPageSizesToStoreLimit(t *testing.T) {
	chdirTemp(t)
	t.Setenv("QUERY_DEFAULT_PAGE_SIZE", "150")
	t.Setenv("QUERY_MAX_PAGE_SIZE", "500")
	t.Setenv("QUERY_AGGREGATE_BATCH_SIZE", "1000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, PageSizeLimit, cfg.Query.DefaultPageSize)
	assert.Equal(t, PageSizeLimit, cfg.Query.MaxPageSize)
	assert.Equal(t, PageSizeLimit, cfg.Query.AggregateBatchSize)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}
