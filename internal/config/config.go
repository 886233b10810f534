package config

import (
	"fmt"
	"time"

	pkgdb "github.com/ahwlsqja/ts-pass-claims/pkg/db"
	pkgredis "github.com/ahwlsqja/ts-pass-claims/pkg/redis"
	"github.com/kelseyhightower/envconfig"
)

const (
	LimiterRedis  = "redis"
	LimiterMemory = "memory"
	LimiterNone   = "none"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Claims   ClaimsConfig
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	CORSAllowOrigin string        `envconfig:"CORS_ALLOW_ORIGIN" default:"*"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string        `envconfig:"DB_DRIVER" default:"mysql"`
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"3306"`
	User            string        `envconfig:"DB_USER" default:"app"`
	Password        string        `envconfig:"DB_PASSWORD" default:"apppassword"`
	Name            string        `envconfig:"DB_NAME" default:"ts_pass_claims"`
	SQLitePath      string        `envconfig:"SQLITE_PATH" default:"claims.db"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// Pool returns the connection settings for pkg/db
func (d DatabaseConfig) Pool() pkgdb.Config {
	return pkgdb.Config{
		Driver:          d.Driver,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		Name:            d.Name,
		SQLitePath:      d.SQLitePath,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		AutoMigrate:     d.AutoMigrate,
	}
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (r RedisConfig) Client() pkgredis.Config {
	return pkgredis.Config{
		Host:     r.Host,
		Port:     r.Port,
		Password: r.Password,
		DB:       r.DB,
	}
}

type ClaimsConfig struct {
	AppName       string        `envconfig:"CLAIMS_APP_NAME" default:"TS Pass"`
	RequireNonce  bool          `envconfig:"CLAIMS_REQUIRE_NONCE" default:"true"`
	NonceCooldown time.Duration `envconfig:"CLAIMS_NONCE_COOLDOWN" default:"3s"`
	RetryAfter    time.Duration `envconfig:"CLAIMS_RETRY_AFTER" default:"3s"`
	Limiter       string        `envconfig:"CLAIMS_LIMITER" default:"redis"`
}

func (c ClaimsConfig) UsesRedis() bool {
	return c.Limiter == LimiterRedis
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case pkgdb.DriverMySQL, pkgdb.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", pkgdb.DriverMySQL, pkgdb.DriverSQLite, c.Database.Driver)
	}
	switch c.Claims.Limiter {
	case LimiterRedis, LimiterMemory, LimiterNone:
	default:
		return fmt.Errorf("CLAIMS_LIMITER must be redis, memory or none, got %q", c.Claims.Limiter)
	}
	if c.Claims.RetryAfter <= 0 {
		return fmt.Errorf("CLAIMS_RETRY_AFTER must be positive")
	}
	return nil
}
