// Package app wires one instance of every state container over a store.
package app

import (
	"context"
	"fmt"

	"github.com/hpungsan/jobdork/internal/blocklist"
	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/config"
	"github.com/hpungsan/jobdork/internal/kanban"
	"github.com/hpungsan/jobdork/internal/search"
	"github.com/hpungsan/jobdork/internal/settings"
	"github.com/hpungsan/jobdork/internal/store"
)

// Session owns the managers for one process. Surfaces (CLI, web, MCP)
// reach state only through a Session.
type Session struct {
	BaseDir string
	Config  *config.Config
	Store   store.Store

	Search    *search.Manager
	Board     *board.Board
	Kanban    *kanban.Controller
	Blocklist *blocklist.List
	Theme     *settings.ThemeSetting
}

// Open opens the configured store under baseDir and loads a Session from it.
func Open(ctx context.Context, baseDir string, cfg *config.Config) (*Session, error) {
	s, err := store.Open(baseDir, cfg)
	if err != nil {
		return nil, err
	}
	sess, err := New(ctx, s, baseDir, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	return sess, nil
}

// New loads every manager from s.
func New(ctx context.Context, s store.Store, baseDir string, cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sm, err := search.NewManager(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("load search state: %w", err)
	}
	b, err := board.New(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("load job board: %w", err)
	}
	bl, err := blocklist.New(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("load blocklist: %w", err)
	}
	theme, err := settings.NewTheme(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}

	return &Session{
		BaseDir:   baseDir,
		Config:    cfg,
		Store:     s,
		Search:    sm,
		Board:     b,
		Kanban:    kanban.NewController(b),
		Blocklist: bl,
		Theme:     theme,
	}, nil
}

// Close releases the store.
func (s *Session) Close() error {
	return s.Store.Close()
}
