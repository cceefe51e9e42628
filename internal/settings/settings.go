// Package settings holds user preferences that outlive a session.
package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/store"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ThemeSetting persists the theme under the "theme" key.
type ThemeSetting struct {
	mu    sync.Mutex
	store store.Store
	theme Theme
}

// NewTheme loads the stored theme, defaulting to dark.
func NewTheme(ctx context.Context, s store.Store) (*ThemeSetting, error) {
	ts := &ThemeSetting{store: s, theme: ThemeDark}
	if err := ts.load(ctx); err != nil {
		return nil, err
	}
	return ts, nil
}

// load reads the stored theme. Unknown values fall back to dark. Callers hold ts.mu.
func (ts *ThemeSetting) load(ctx context.Context) error {
	var stored Theme
	found, err := store.GetJSON(ctx, ts.store, store.KeyTheme, &stored)
	if err != nil {
		return err
	}
	ts.theme = ThemeDark
	if found && (stored == ThemeDark || stored == ThemeLight) {
		ts.theme = stored
	}
	return nil
}

// Get returns the stored theme, or the last loaded one if the store is unreadable.
func (ts *ThemeSetting) Get() Theme {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	_ = ts.load(context.Background())
	return ts.theme
}

// Set stores theme.
func (ts *ThemeSetting) Set(ctx context.Context, theme Theme) error {
	if theme != ThemeDark && theme != ThemeLight {
		return errors.NewInvalidRequest(fmt.Sprintf("unknown theme %q", theme))
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.set(ctx, theme)
}

// Toggle flips between dark and light and returns the new theme.
func (ts *ThemeSetting) Toggle(ctx context.Context) (Theme, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if err := ts.load(ctx); err != nil {
		return ts.theme, err
	}

	next := ThemeLight
	if ts.theme == ThemeLight {
		next = ThemeDark
	}
	if err := ts.set(ctx, next); err != nil {
		return ts.theme, err
	}
	return next, nil
}

func (ts *ThemeSetting) set(ctx context.Context, theme Theme) error {
	if err := store.PutJSON(ctx, ts.store, store.KeyTheme, theme); err != nil {
		return err
	}
	ts.theme = theme
	return nil
}
