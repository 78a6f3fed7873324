package theme_test

import (
	"context"
	"testing"

	"patient-portal/internal/model"
	"patient-portal/internal/store"
	"patient-portal/internal/theme"
)

func TestDefaultDark(t *testing.T) {
	s, err := theme.Load(context.Background(), store.NewMemory(), store.KeyTheme)
	if err != nil {
		t.Fatal(err)
	}
	if s.Current() != model.ThemeDark || !s.IsDark() {
		t.Fatalf("expected dark default, got %s", s.Current())
	}
}

func TestStoredValues(t *testing.T) {
	tests := []struct {
		raw  string
		want model.Theme
	}{
		{"light", model.ThemeLight},
		{`"light"`, model.ThemeLight},
		{"dark", model.ThemeDark},
		{"purple", model.ThemeDark},
		{"", model.ThemeDark},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			kv := store.NewMemory()
			_ = kv.Set(context.Background(), store.KeyTheme, []byte(tt.raw))
			s, err := theme.Load(context.Background(), kv, store.KeyTheme)
			if err != nil {
				t.Fatal(err)
			}
			if s.Current() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, s.Current())
			}
		})
	}
}

func TestTogglePersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s, _ := theme.Load(ctx, kv, store.KeyTheme)

	var seen []model.Theme
	s.Subscribe(func(th model.Theme) { seen = append(seen, th) })

	got, err := s.Toggle(ctx)
	if err != nil || got != model.ThemeLight {
		t.Fatalf("expected light, got %s %v", got, err)
	}
	reloaded, _ := theme.Load(ctx, kv, store.KeyTheme)
	if reloaded.Current() != model.ThemeLight {
		t.Errorf("toggle not persisted, reloaded %s", reloaded.Current())
	}
	raw, _ := kv.Get(ctx, store.KeyTheme)
	if string(raw) != "light" {
		t.Errorf("expected raw light, got %q", raw)
	}

	got, _ = s.Toggle(ctx)
	if got != model.ThemeDark {
		t.Errorf("expected dark, got %s", got)
	}
	if len(seen) != 2 || seen[0] != model.ThemeLight || seen[1] != model.ThemeDark {
		t.Errorf("unexpected notifications %v", seen)
	}
}
