// Package storage opens the database that holds the content table.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-cms-containers/internal/runtimeconfig"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

var ErrDSNRequired = errors.New("storage: dsn is required")

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var (
		driverName string
		dialect    schema.Dialect
	)
	switch runtimeconfig.NormalizeDriver(cfg.Driver) {
	case "sqlite":
		driverName, dialect = "sqlite3", sqlitedialect.New()
	case "postgres":
		driverName, dialect = "pgx", pgdialect.New()
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, cfg.Driver)
	}

	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driverName, err)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driverName, err)
	}
	return bun.NewDB(sqldb, dialect), nil
}
