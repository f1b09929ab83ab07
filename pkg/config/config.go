package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "AVISOS"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvAppEnv = "AVISOS_APP_ENV"
	EnvPort   = "AVISOS_APP_PORT"
	EnvDBDSN  = "AVISOS_DB_DSN"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	VAPID        VAPIDConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"AVISOS_APP_ENV" required:"true"`
	Port         string `envconfig:"AVISOS_APP_PORT" default:"9500"`
	LogLevel     string `envconfig:"AVISOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AVISOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"AVISOS_DB_DRIVER" default:"sqlite"`
	// DSN is the postgres connection string; Path is the sqlite database file.
	DSN  string `envconfig:"AVISOS_DB_DSN"`
	Path string `envconfig:"AVISOS_DB_PATH" default:"data/notifications.db"`

	MaxOpenConns    int           `envconfig:"AVISOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AVISOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AVISOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AVISOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) validate() error {
	switch strings.ToLower(db.Driver) {
	case DriverSQLite:
		if db.Path == "" {
			return fmt.Errorf("AVISOS_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required for the postgres driver", EnvDBDSN)
		}
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	return nil
}

// IsSQLite reports whether the registry store runs on the embedded driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type VAPIDConfig struct {
	PublicKey  string `envconfig:"AVISOS_VAPID_PUBLIC_KEY"`
	PrivateKey string `envconfig:"AVISOS_VAPID_PRIVATE_KEY"`
	Subscriber string `envconfig:"AVISOS_VAPID_EMAIL" default:"noreply@avisosapp.dev"`
}

// Enabled reports whether the legacy web-push bridge can deliver.
func (v VAPIDConfig) Enabled() bool {
	return v.PublicKey != "" && v.PrivateKey != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AVISOS_AUTO_MIGRATE" default:"false"`
}
