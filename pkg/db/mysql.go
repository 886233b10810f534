package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ahwlsqja/ts-pass-claims/internal/repository/db/schema"
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported drivers, as registered with database/sql
const (
	DriverMySQL  = schema.DriverMySQL
	DriverSQLite = schema.DriverSQLite
)

type Config struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// DSN returns the driver-specific data source name.
// clientFoundRows makes MySQL report matched rows for guarded UPDATEs.
func (c Config) DSN() string {
	if c.Driver == schema.DriverSQLite {
		path := strings.TrimSpace(c.SQLitePath)
		if path == "" {
			path = ":memory:"
		}
		if strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
			return path
		}
		return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// New creates a database connection pool and applies the schema when requested
func New(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = schema.DriverMySQL
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == schema.DriverSQLite {
		// one writer; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.AutoMigrate || cfg.Driver == schema.DriverSQLite {
		if err := schema.Apply(ctx, db, cfg.Driver); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return db, nil
}

// Ping tests the database connection
func Ping(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
