package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is empty because every field names its variable explicitly.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Shopify ShopifyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CATALOG_APP_ENV" default:"development"`
	Port         string `envconfig:"CATALOG_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"CATALOG_DB_DRIVER" default:"sqlite"`
	// Path is the SQLite database file; used when Driver is sqlite.
	Path string `envconfig:"CATALOG_DB_PATH" default:"data/catalog.db"`
	// DSN is the full connection string; required when Driver is postgres.
	DSN string `envconfig:"CATALOG_DB_DSN"`

	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"CATALOG_DB_AUTO_MIGRATE" default:"true"`
}

func (d DBConfig) validate() error {
	switch strings.ToLower(d.Driver) {
	case DriverSQLite:
		if d.Path == "" {
			return fmt.Errorf("CATALOG_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if d.DSN == "" {
			return fmt.Errorf("CATALOG_DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	return nil
}

// SQLiteDSN builds the file DSN with foreign keys enforced. Cascade deletes on
// variants and options depend on the pragma being set per connection.
func (d DBConfig) SQLiteDSN() string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", d.Path)
}

type ShopifyConfig struct {
	Enabled     bool   `envconfig:"CATALOG_SHOPIFY_ENABLED" default:"false"`
	ShopDomain  string `envconfig:"CATALOG_SHOPIFY_SHOP_DOMAIN"`
	AccessToken string `envconfig:"CATALOG_SHOPIFY_ACCESS_TOKEN"`
	APIVersion  string `envconfig:"CATALOG_SHOPIFY_API_VERSION" default:"2024-04"`

	Timeout time.Duration `envconfig:"CATALOG_SHOPIFY_TIMEOUT" default:"30s"`
}
