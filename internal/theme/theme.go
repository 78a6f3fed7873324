package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"patient-portal/internal/model"
	"patient-portal/internal/store"
)

// State is the persisted dark/light preference. It defaults to dark.
type State struct {
	kv  store.KV
	key string

	mu      sync.Mutex
	current model.Theme
	subs    []func(model.Theme)
}

// Load reads the theme stored under key. Anything other than "light" is dark.
func Load(ctx context.Context, kv store.KV, key string) (*State, error) {
	s := &State{kv: kv, key: key, current: model.ThemeDark}
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	s.current = parse(raw)
	return s, nil
}

// values written as JSON strings are accepted too
func parse(raw []byte) model.Theme {
	if strings.Trim(strings.TrimSpace(string(raw)), `"`) == string(model.ThemeLight) {
		return model.ThemeLight
	}
	return model.ThemeDark
}

func (s *State) Current() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *State) IsDark() bool {
	return s.Current() == model.ThemeDark
}

// Toggle flips and persists the theme, then notifies subscribers.
func (s *State) Toggle(ctx context.Context) (model.Theme, error) {
	s.mu.Lock()
	next := model.ThemeLight
	if s.current == model.ThemeLight {
		next = model.ThemeDark
	}
	if err := s.kv.Set(ctx, s.key, []byte(next)); err != nil {
		s.mu.Unlock()
		return s.current, fmt.Errorf("save theme: %w", err)
	}
	s.current = next
	subs := append([]func(model.Theme){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next, nil
}

// Subscribe registers fn to be called with the new theme after each toggle.
func (s *State) Subscribe(fn func(model.Theme)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
