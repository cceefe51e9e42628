// Package store provides the persistent key/value store behind every
// jobdork manager. Values are JSON documents addressed by a fixed set of keys.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/jobdork/internal/errors"
)

// Keys used by the managers.
const (
	KeyTheme           = "theme"
	KeyBlocklist       = "blocklist"
	KeySearchHistory   = "search_history"
	KeySearchPresets   = "search_presets"
	KeyJobApplications = "job_applications"
)

// Store is a synchronous get/set store of raw JSON values.
type Store interface {
	// Get returns the value under key; found is false if it was never written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the value under key into dst.
// A missing key leaves dst untouched and reports found=false.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errors.NewInternal(fmt.Errorf("decode %s: %w", key, err))
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("encode %s: %w", key, err))
	}
	return s.Put(ctx, key, raw)
}
