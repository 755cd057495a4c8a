// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// This is a single-server app with low write volume (registrations and the
// occasional catalog edit). An embedded database — one file, no server to
// operate — is exactly the right amount of infrastructure. Tests use
// ":memory:" for a fresh, disposable database per test.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 needs CGo and a C compiler; modernc.org/sqlite is a pure
// Go translation of SQLite, so it builds and cross-compiles anywhere Go does.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface in the repository package. One type for all five repositories is
// deliberate — the tables are small and splitting them into separate structs
// would only add wiring.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath (":memory:" for tests), verifies
// the connection, configures SQLite, and runs migrations.
//
// PRAGMA choices:
//   - journal_mode=WAL: readers don't block while a write is in flight.
//     Required for a web server where requests overlap.
//   - foreign_keys=ON: OFF by default in SQLite. We rely on ON DELETE CASCADE
//     to remove profiles, settings, and favorites when a user row goes away,
//     so referential integrity must actually be enforced.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection for the whole pool. SQLite allows a single writer
	// anyway, the PRAGMAs below are per-connection, and ":memory:" would
	// otherwise give every pooled connection its own empty database.
	conn.SetMaxOpenConns(1)

	// Force an immediate connection so a bad path or permissions problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Callers should defer this right
// after New so the WAL is flushed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent — safe to run on every startup against an existing file.
//
// Uniqueness lives in the schema, not in application code: username, email,
// the one-to-one user links, and the (user, routine) favorite pair are all
// UNIQUE constraints. The existence checks in the registration flow are a
// courtesy for nicer error messages; the constraints are the real guarantee
// when two requests race.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_staff      INTEGER NOT NULL DEFAULT 0,
			is_superuser  INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// Profiles and settings cascade with their user — deleting an account
	// must never leave orphaned one-to-one rows behind.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			bio           TEXT NOT NULL DEFAULT '',
			date_of_birth DATE,
			photo_path    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			study_duration INTEGER NOT NULL DEFAULT 25,
			break_duration INTEGER NOT NULL DEFAULT 5,
			theme          TEXT NOT NULL DEFAULT 'light',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user_settings table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS routines (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			category         TEXT NOT NULL DEFAULT '',
			difficulty       TEXT NOT NULL DEFAULT '',
			duration_text    TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			instructions     TEXT NOT NULL DEFAULT '',
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_routines_created_at ON routines(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating routines table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			routine_id TEXT NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, routine_id)
		);
		CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	return nil
}
