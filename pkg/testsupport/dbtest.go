package testsupport

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a named shared-cache in-memory sqlite database.
// Connections using the same name see the same data until all are closed.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(strings.TrimSpace(name))
	if name == "" {
		name = "testsupport"
	}
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
}

// NewBunMemoryDB wraps NewSQLiteMemoryDB with the sqlite dialect. The
// database is named after the test and closed on cleanup.
func NewBunMemoryDB(tb testing.TB) *bun.DB {
	tb.Helper()
	sqldb, err := NewSQLiteMemoryDB(tb.Name())
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	tb.Cleanup(func() { _ = db.Close() })
	return db
}
