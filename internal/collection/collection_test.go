package collection_test

import (
	"context"
	"errors"
	"testing"

	"patient-portal/internal/collection"
	"patient-portal/internal/store"
)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func newList(kv store.KV) *collection.List[note] {
	return collection.New(kv, "notes", func(n *note) *string { return &n.ID })
}

func TestAddPrependsAndAssignsID(t *testing.T) {
	ctx := context.Background()
	l := newList(store.NewMemory())

	first, err := l.Add(ctx, "u1", note{Text: "first"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated id")
	}
	if _, err := l.Add(ctx, "u1", note{ID: "fixed", Text: "second"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := l.All(ctx, "u1")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2, got %d", len(all))
	}
	if all[0].ID != "fixed" || all[1].ID != first.ID {
		t.Errorf("expected newest first, got %+v", all)
	}
}

func TestScopedPerUser(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	l := newList(kv)

	_, _ = l.Add(ctx, "u1", note{Text: "a"})
	_, _ = l.Add(ctx, "u2", note{Text: "b"})

	u1, _ := l.All(ctx, "u1")
	if len(u1) != 1 || u1[0].Text != "a" {
		t.Errorf("u1 sees %+v", u1)
	}
	if _, err := kv.Get(ctx, "notes_u2"); err != nil {
		t.Errorf("expected scoped key notes_u2: %v", err)
	}
}

func TestEmptyOwnerRejected(t *testing.T) {
	l := newList(store.NewMemory())
	if _, err := l.Add(context.Background(), "", note{}); !errors.Is(err, collection.ErrNoOwner) {
		t.Fatalf("expected ErrNoOwner, got %v", err)
	}
	if _, err := l.All(context.Background(), " "); !errors.Is(err, collection.ErrNoOwner) {
		t.Fatalf("expected ErrNoOwner, got %v", err)
	}
}

func TestCorruptListReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	_ = kv.Set(ctx, "notes_u1", []byte("[{"))
	l := newList(kv)

	all, err := l.All(ctx, "u1")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", all)
	}
	if _, err := l.Add(ctx, "u1", note{Text: "fresh"}); err != nil {
		t.Fatalf("add over corrupt: %v", err)
	}
	all, _ = l.All(ctx, "u1")
	if len(all) != 1 {
		t.Fatalf("expected 1, got %d", len(all))
	}
}

func TestMergeSkipsKnownIDs(t *testing.T) {
	ctx := context.Background()
	l := newList(store.NewMemory())
	_, _ = l.Add(ctx, "u1", note{ID: "a", Text: "kept"})

	n, err := l.Merge(ctx, "u1", []note{{ID: "a", Text: "dup"}, {ID: "b", Text: "new"}, {Text: "no id"}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 merged, got %d", n)
	}
	all, _ := l.All(ctx, "u1")
	if len(all) != 3 || all[0].Text != "kept" || all[1].ID != "b" || all[2].ID == "" {
		t.Errorf("unexpected list %+v", all)
	}
}
