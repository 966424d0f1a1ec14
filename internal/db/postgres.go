package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
	"maverick/dispatch/internal/config"
)

// InitPostgres opens the sqlx handle used by the sync log and health checks.
func InitPostgres(dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres (sqlx): %w", err)
}

// WrapSQLX reuses GORM's pool for sqlx (sqlite mode, tests).
// driverName must match the database/sql driver GORM opened, e.g. "sqlite3".
func WrapSQLX(gdb *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}

// OpenSQLX returns the sqlx handle for cfg: a separate lib/pq pool on postgres,
// GORM's own pool on sqlite.
func OpenSQLX(cfg config.DBConfig, gdb *gorm.DB) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return InitPostgres(cfg.PostgresDSN())
	case "sqlite":
		return WrapSQLX(gdb, "sqlite3")
	}
	return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
}
