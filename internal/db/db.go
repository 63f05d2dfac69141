// Package db owns the sqlite database handle and its schema
// migrations. Stores in internal/grid/storage/sqlite run on top of the
// *sql.DB it opens; no domain logic lives here.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the sql handle so migration helpers can hang off it.
type DB struct {
	*sql.DB
}

// pragmas applied to every connection. WAL plus a busy timeout keeps
// concurrent store writers from tripping over SQLITE_BUSY during normal
// operation.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Open opens (or creates) the sqlite database at path and applies the
// standard pragmas. It does not run migrations; callers decide when to
// call MigrateUp.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %q: %w", path, err)
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}
	return &DB{sqlDB}, nil
}
