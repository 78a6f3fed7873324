// Package collection stores per-user, append-only record lists under
// user-scoped keys. Newest records come first.
package collection

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"patient-portal/internal/store"
)

var ErrNoOwner = errors.New("owner user id required")

type List[T any] struct {
	kv   store.KV
	base string
	id   func(*T) *string

	mu sync.Mutex
}

// New builds a list persisted under base_<userID>. id returns a pointer to
// the record's id field so Add can fill it in.
func New[T any](kv store.KV, base string, id func(*T) *string) *List[T] {
	return &List[T]{kv: kv, base: base, id: id}
}

func (l *List[T]) key(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrNoOwner
	}
	return store.ScopedKey(l.base, userID), nil
}

// Add assigns an id when rec has none, puts rec first and persists the
// whole list.
func (l *List[T]) Add(ctx context.Context, userID string, rec T) (T, error) {
	key, err := l.key(userID)
	if err != nil {
		return rec, err
	}
	if id := l.id(&rec); *id == "" {
		*id = uuid.NewString()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cur, _, err := store.Load[[]T](ctx, l.kv, key)
	if err != nil {
		return rec, err
	}
	next := make([]T, 0, len(cur)+1)
	next = append(next, rec)
	next = append(next, cur...)
	if err := store.Save(ctx, l.kv, key, next); err != nil {
		return rec, err
	}
	return rec, nil
}

// All returns the user's records, newest first. Never nil.
func (l *List[T]) All(ctx context.Context, userID string) ([]T, error) {
	key, err := l.key(userID)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, _, err := store.Load[[]T](ctx, l.kv, key)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		cur = []T{}
	}
	return cur, nil
}

// Merge appends recs after the user's existing records, skipping ids that
// are already present. Used when importing records from an older layout.
func (l *List[T]) Merge(ctx context.Context, userID string, recs []T) (int, error) {
	key, err := l.key(userID)
	if err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, _, err := store.Load[[]T](ctx, l.kv, key)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(cur))
	for i := range cur {
		seen[*l.id(&cur[i])] = true
	}
	added := 0
	for i := range recs {
		rec := recs[i]
		id := l.id(&rec)
		if *id == "" {
			*id = uuid.NewString()
		}
		if seen[*id] {
			continue
		}
		seen[*id] = true
		cur = append(cur, rec)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, store.Save(ctx, l.kv, key, cur)
}
