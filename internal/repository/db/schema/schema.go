// Package schema embeds the claims table DDL for each supported driver.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

//go:embed mysql.sql
var mysqlDDL string

//go:embed sqlite.sql
var sqliteDDL string

// DDL returns the CREATE TABLE statement for driver
func DDL(driver string) (string, error) {
	switch driver {
	case DriverMySQL:
		return mysqlDDL, nil
	case DriverSQLite:
		return sqliteDDL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Apply creates the claims table if it does not exist
func Apply(ctx context.Context, db *sql.DB, driver string) error {
	ddl, err := DDL(driver)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply %s schema: %w", driver, err)
	}
	return nil
}
