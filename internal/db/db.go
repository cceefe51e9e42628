// Package db owns the local SQLite file backing the default store.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/jobdork/internal/config"
	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the base directory.
const FileName = "jobdork.db"

// migrations[i] moves the schema from version i to i+1.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
	  key         TEXT PRIMARY KEY,
	  value_json  TEXT NOT NULL,
	  updated_at  INTEGER NOT NULL
	);`,
}

// CurrentSchemaVersion is the latest schema version.
var CurrentSchemaVersion = len(migrations)

// Init opens baseDir/jobdork.db, creating the directory tree and schema as needed.
// Tests pass t.TempDir() instead of ~/.jobdork.
func Init(baseDir string) (*sql.DB, error) {
	if err := ensureDir(baseDir); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Blocklist exports land here by default
	if err := ensureDir(filepath.Join(baseDir, "exports")); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, FileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := expectPragma(db, "journal_mode", "wal"); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)
	return db, nil
}

// ensureDir creates dir owner-only. The chmod is best-effort.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	_ = os.Chmod(dir, 0700)
	return nil
}

// ConfigurePool applies connection pool limits that are set in cfg.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate runs every migration above the stored user_version, each in its own transaction.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema v%d is newer than this binary (v%d)", version, len(migrations))
	}

	for v := version; v < len(migrations); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version=%d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: set user_version: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", v+1, err)
		}
	}
	return nil
}

// expectPragma fails unless PRAGMA name reports want.
func expectPragma(db *sql.DB, name, want string) error {
	var got string
	if err := db.QueryRow("PRAGMA " + name + ";").Scan(&got); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if got != want {
		return fmt.Errorf("expected %s %s, got %s", name, want, got)
	}
	return nil
}

// GetUserVersion returns the schema version stored in the user_version pragma.
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion overwrites the user_version pragma.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
