package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/jobdork/internal/errors"
)

// GetValue returns the raw JSON stored under key.
// found is false when the key has never been written.
func GetValue(ctx context.Context, db *sql.DB, key string) (value []byte, found bool, err error) {
	var raw string
	err = db.QueryRowContext(ctx, `SELECT value_json FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewInternal(err)
	}
	return []byte(raw), true, nil
}

// PutValue upserts the raw JSON stored under key.
func PutValue(ctx context.Context, db *sql.DB, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, string(value), time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// DeleteValue removes key. Deleting a missing key is not an error.
func DeleteValue(ctx context.Context, db *sql.DB, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListKeys returns every stored key in lexical order.
func ListKeys(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.NewInternal(err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return keys, nil
}
