// Package keeper is the small key-value persistence layer behind user
// state: check-in dates, bookmarks, bookings, profiles. Redis in
// deployment, an in-memory map in offline mode and tests.
package keeper

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a flat string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into out. A missing key returns false
// with no error; a present but undecodable value is an error.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("keeper: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("keeper: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}
