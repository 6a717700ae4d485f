package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens the SQLite database at the given path and applies all pending
// migrations. Safe to call on every process start. ":memory:" is supported
// for tests.
//
// Pragmas live in the DSN, not in an Exec after open: database/sql pools
// connections, and an Exec'd pragma would apply to one connection only,
// leaving the rest without a busy timeout.
func Open(path string) (*DB, error) {
	var connStr string
	if path == ":memory:" {
		// Shared cache so every connection in the pool sees the same
		// in-memory database
		connStr = "file::memory:?cache=shared&_pragma=busy_timeout(5000)"
	} else {
		connStr = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	sqlDB, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: sqlDB}

	if _, _, err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
