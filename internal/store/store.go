package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
)

// Keys of the persisted layout.
const (
	KeyUsers        = "registeredUsers"
	KeySession      = "user"
	KeyTheme        = "theme"
	KeyAppointments = "appointments"
	KeyReminders    = "reminders"
)

var ErrNotFound = errors.New("key not found")

// KV is a string-keyed blob store. Get returns ErrNotFound for absent keys;
// Remove of an absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Backend is a KV that holds resources.
type Backend interface {
	KV
	Close() error
}

// ScopedKey namespaces base by the owning user's id.
func ScopedKey(base, userID string) string {
	return base + "_" + userID
}

// Load decodes the JSON value under key. It reports false with the zero value
// when the key is absent or the stored content is not well-formed; only
// backend failures are returned as errors.
func Load[T any](ctx context.Context, kv KV, key string) (T, bool, error) {
	var zero T
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("store: discarding malformed value under %q: %v", key, err)
		return zero, false, nil
	}
	return v, true, nil
}

// Save JSON-encodes v under key.
func Save(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Open picks Postgres when databaseURL is set and a SQLite file otherwise.
func Open(ctx context.Context, databaseURL, sqlitePath string) (Backend, error) {
	if strings.TrimSpace(databaseURL) != "" {
		pg, err := OpenPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	lite, err := OpenSQLite(sqlitePath)
	if err != nil {
		return nil, err
	}
	return lite, nil
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}
