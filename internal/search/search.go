// Package search tracks the current search, a bounded history of executed
// searches and user-named presets.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hpungsan/jobdork/internal/catalog"
	"github.com/hpungsan/jobdork/internal/ids"
	"github.com/hpungsan/jobdork/internal/store"
)

// MaxHistory is the number of history entries kept, newest first.
const MaxHistory = 50

// Params are the inputs of one search.
type Params struct {
	Role       string             `json:"role"`
	Sites      []string           `json:"sites"`
	DateFilter catalog.DateFilter `json:"date_filter"`
	Location   string             `json:"location"`
}

func (p Params) clone() Params {
	p.Sites = append([]string{}, p.Sites...)
	return p
}

// HistoryEntry records one executed search.
type HistoryEntry struct {
	ID string `json:"id"`
	Params
	CreatedAt time.Time `json:"created_at"`
}

// Preset is a named snapshot of search params.
type Preset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Params
	CreatedAt time.Time `json:"created_at"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns the search session state. It is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	store   store.Store
	now     func() time.Time
	current *Params
	history []HistoryEntry
	presets []Preset
}

// NewManager loads history and presets from s. The current search starts empty.
func NewManager(ctx context.Context, s store.Store, opts ...Option) (*Manager, error) {
	m := &Manager{store: s, now: time.Now}
	for _, o := range opts {
		o(m)
	}

	if err := m.loadHistory(ctx); err != nil {
		return nil, err
	}
	if err := m.loadPresets(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// loadHistory replaces the cached history with the stored one, which
// other sessions may have changed. Callers hold m.mu.
func (m *Manager) loadHistory(ctx context.Context) error {
	var history []HistoryEntry
	if _, err := store.GetJSON(ctx, m.store, store.KeySearchHistory, &history); err != nil {
		return err
	}
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}
	m.history = history
	return nil
}

// loadPresets is loadHistory for presets. Callers hold m.mu.
func (m *Manager) loadPresets(ctx context.Context) error {
	var presets []Preset
	if _, err := store.GetJSON(ctx, m.store, store.KeySearchPresets, &presets); err != nil {
		return err
	}
	m.presets = presets
	return nil
}

// PerformSearch records p as the newest history entry and makes it current.
// The oldest entries beyond MaxHistory are evicted.
func (m *Manager) PerformSearch(ctx context.Context, p Params) (HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadHistory(ctx); err != nil {
		return HistoryEntry{}, err
	}

	now := m.now().UTC()
	entry := HistoryEntry{ID: ids.New(now), Params: p.clone(), CreatedAt: now}

	next := make([]HistoryEntry, 0, MaxHistory)
	next = append(next, entry)
	next = append(next, m.history...)
	if len(next) > MaxHistory {
		next = next[:MaxHistory]
	}

	if err := store.PutJSON(ctx, m.store, store.KeySearchHistory, next); err != nil {
		return HistoryEntry{}, err
	}
	m.history = next
	cur := p.clone()
	m.current = &cur
	return entry, nil
}

// SavePreset snapshots the current search under name.
// ok is false, with no error, when there is no current search or name is blank.
func (m *Manager) SavePreset(ctx context.Context, name string) (*Preset, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = strings.TrimSpace(name)
	if m.current == nil || name == "" {
		return nil, false, nil
	}
	if err := m.loadPresets(ctx); err != nil {
		return nil, false, err
	}

	now := m.now().UTC()
	preset := Preset{ID: ids.New(now), Name: name, Params: m.current.clone(), CreatedAt: now}

	next := make([]Preset, 0, len(m.presets)+1)
	next = append(next, m.presets...)
	next = append(next, preset)

	if err := store.PutJSON(ctx, m.store, store.KeySearchPresets, next); err != nil {
		return nil, false, err
	}
	m.presets = next
	return &preset, true, nil
}

// DeletePreset removes the preset with id. Missing ids are a no-op.
func (m *Manager) DeletePreset(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadPresets(ctx); err != nil {
		return false, err
	}

	next := make([]Preset, 0, len(m.presets))
	for _, p := range m.presets {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(m.presets) {
		return false, nil
	}

	if err := store.PutJSON(ctx, m.store, store.KeySearchPresets, next); err != nil {
		return false, err
	}
	m.presets = next
	return true, nil
}

// ClearHistory empties the history.
func (m *Manager) ClearHistory(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := store.PutJSON(ctx, m.store, store.KeySearchHistory, []HistoryEntry{}); err != nil {
		return err
	}
	m.history = nil
	return nil
}

// ApplyHistory makes the entry's params current.
func (m *Manager) ApplyHistory(e HistoryEntry) {
	m.setCurrent(e.Params)
}

// ApplyPreset makes the preset's params current.
func (m *Manager) ApplyPreset(p Preset) {
	m.setCurrent(p.Params)
}

// ApplyHistoryID applies the history entry with id, if present.
func (m *Manager) ApplyHistoryID(id string) (HistoryEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadHistory(context.Background())
	for _, e := range m.history {
		if e.ID == id {
			cur := e.Params.clone()
			m.current = &cur
			return e, true
		}
	}
	return HistoryEntry{}, false
}

// ApplyPresetID applies the preset with id, if present.
func (m *Manager) ApplyPresetID(id string) (Preset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadPresets(context.Background())
	for _, p := range m.presets {
		if p.ID == id {
			cur := p.Params.clone()
			m.current = &cur
			return p, true
		}
	}
	return Preset{}, false
}

func (m *Manager) setCurrent(p Params) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := p.clone()
	m.current = &cur
}

// Current returns a copy of the current params, or nil.
func (m *Manager) Current() *Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	cur := m.current.clone()
	return &cur
}

// History returns a copy of the stored history, newest first.
// A failed store read serves the last loaded history.
func (m *Manager) History() []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadHistory(context.Background())
	out := make([]HistoryEntry, len(m.history))
	for i, e := range m.history {
		e.Params = e.Params.clone()
		out[i] = e
	}
	return out
}

// Presets returns a copy of the stored presets in creation order.
func (m *Manager) Presets() []Preset {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.loadPresets(context.Background())
	out := make([]Preset, len(m.presets))
	for i, p := range m.presets {
		p.Params = p.Params.clone()
		out[i] = p
	}
	return out
}
