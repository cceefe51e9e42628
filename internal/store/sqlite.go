package store

import (
	"context"
	"database/sql"

	"github.com/hpungsan/jobdork/internal/db"
)

// SQLite stores values in the kv table of the local jobdork.db.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an initialized database (see db.Init).
func NewSQLite(database *sql.DB) *SQLite {
	return &SQLite{db: database}
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return db.GetValue(ctx, s.db, key)
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	return db.PutValue(ctx, s.db, key, value)
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return db.DeleteValue(ctx, s.db, key)
}

// Keys lists stored keys in lexical order.
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	return db.ListKeys(ctx, s.db)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
