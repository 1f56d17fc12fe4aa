package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// PageSizeLimit is the largest page the record store serves. Page sizes above
// it would let offsets skip rows the store never returned.
const PageSizeLimit = 100

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Query    QueryConfig
	Metrics  MetricsConfig
	Docs     DocsConfig
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	SQLitePath   string
	AutoSchema   bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// QueryConfig tunes listing and aggregation reads.
type QueryConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	// StrictFilters rejects unknown filter attributes instead of ignoring them.
	StrictFilters      bool
	AggregateBatchSize int
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// DocsConfig toggles the swagger UI outside production.
type DocsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		SQLitePath:   v.GetString("DB_SQLITE_PATH"),
		AutoSchema:   v.GetBool("DB_AUTO_SCHEMA"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Query = QueryConfig{
		DefaultPageSize:    v.GetInt("QUERY_DEFAULT_PAGE_SIZE"),
		MaxPageSize:        v.GetInt("QUERY_MAX_PAGE_SIZE"),
		StrictFilters:      v.GetBool("QUERY_STRICT_FILTERS"),
		AggregateBatchSize: v.GetInt("QUERY_AGGREGATE_BATCH_SIZE"),
	}
	if cfg.Query.DefaultPageSize <= 0 {
		cfg.Query.DefaultPageSize = 10
	}
	cfg.Query.DefaultPageSize = min(cfg.Query.DefaultPageSize, PageSizeLimit)
	if cfg.Query.MaxPageSize < cfg.Query.DefaultPageSize {
		cfg.Query.MaxPageSize = cfg.Query.DefaultPageSize
	}
	cfg.Query.MaxPageSize = min(cfg.Query.MaxPageSize, PageSizeLimit)
	if cfg.Query.AggregateBatchSize <= 0 {
		cfg.Query.AggregateBatchSize = PageSizeLimit
	}
	cfg.Query.AggregateBatchSize = min(cfg.Query.AggregateBatchSize, PageSizeLimit)

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Docs = DocsConfig{Enabled: v.GetBool("ENABLE_DOCS")}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if strings.TrimSpace(c.Database.SQLitePath) == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schools")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_SQLITE_PATH", "./data/schools.db")
	v.SetDefault("DB_AUTO_SCHEMA", true)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("QUERY_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("QUERY_MAX_PAGE_SIZE", 100)
	v.SetDefault("QUERY_STRICT_FILTERS", false)
	v.SetDefault("QUERY_AGGREGATE_BATCH_SIZE", 100)

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_DOCS", true)
}

// viper reports a missing explicit config file as a plain fs error rather
// than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
