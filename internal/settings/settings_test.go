package settings

import (
	"context"
	"testing"

	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/store"
)

func TestTheme(t *testing.T) {
	s, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	ts, err := NewTheme(ctx, s)
	if err != nil {
		t.Fatalf("NewTheme() error = %v", err)
	}
	if ts.Get() != ThemeDark {
		t.Errorf("default theme = %q, want dark", ts.Get())
	}

	next, err := ts.Toggle(ctx)
	if err != nil || next != ThemeLight {
		t.Fatalf("Toggle() = %q, %v", next, err)
	}

	reloaded, _ := NewTheme(ctx, s)
	if reloaded.Get() != ThemeLight {
		t.Errorf("persisted theme = %q, want light", reloaded.Get())
	}

	if err := ts.Set(ctx, "sepia"); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Set(sepia) err = %v", err)
	}
	if err := ts.Set(ctx, ThemeDark); err != nil || ts.Get() != ThemeDark {
		t.Errorf("Set(dark) = %v, theme %q", err, ts.Get())
	}
}

func TestTheme_IgnoresUnknownStoredValue(t *testing.T) {
	s, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := store.PutJSON(ctx, s, store.KeyTheme, "neon"); err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}
	ts, err := NewTheme(ctx, s)
	if err != nil {
		t.Fatalf("NewTheme() error = %v", err)
	}
	if ts.Get() != ThemeDark {
		t.Errorf("theme = %q, want dark fallback", ts.Get())
	}
}

func TestTheme_SharedStore(t *testing.T) {
	s, err := store.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	ui, _ := NewTheme(ctx, s)
	cli, _ := NewTheme(ctx, s)
	if err := cli.Set(ctx, ThemeLight); err != nil {
		t.Fatalf("Set(light) error = %v", err)
	}
	if ui.Get() != ThemeLight {
		t.Errorf("Get() = %q, want light written by the other setting", ui.Get())
	}
	next, err := ui.Toggle(ctx)
	if err != nil || next != ThemeDark {
		t.Errorf("Toggle() = %q, %v, want dark", next, err)
	}
}
