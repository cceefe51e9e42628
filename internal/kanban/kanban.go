// Package kanban turns drag gestures on the job board into status changes.
//
// A Controller is either idle or dragging one application. Hovering reports
// what a drop would do without touching state; dropping commits at most one
// status change through the Board and always returns to idle.
package kanban

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/errors"
)

// Board is the part of board.Board the controller needs.
type Board interface {
	Applications() []board.Application
	Update(ctx context.Context, fn func(apps []board.Application) ([]board.Application, bool)) error
}

// TargetKind says what a drag ended over.
type TargetKind string

const (
	TargetColumn TargetKind = "column"
	TargetCard   TargetKind = "card"
)

// Target is a drop target: a column (ID is a status) or a card (ID is an application id).
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id"`
}

// Column returns a column target.
func Column(s board.Status) Target { return Target{Kind: TargetColumn, ID: string(s)} }

// Card returns a card target.
func Card(id string) Target { return Target{Kind: TargetCard, ID: id} }

// ParseTarget accepts "column:<status>", "card:<id>", or a bare status name.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if kind, id, ok := strings.Cut(s, ":"); ok {
		switch TargetKind(kind) {
		case TargetColumn:
			st, err := board.ParseStatus(id)
			if err != nil {
				return Target{}, err
			}
			return Column(st), nil
		case TargetCard:
			if strings.TrimSpace(id) == "" {
				return Target{}, errors.NewInvalidRequest("card target needs an id")
			}
			return Card(strings.TrimSpace(id)), nil
		}
		return Target{}, errors.NewInvalidRequest(fmt.Sprintf("unknown target kind %q", kind))
	}
	st, err := board.ParseStatus(s)
	if err != nil {
		return Target{}, err
	}
	return Column(st), nil
}

// Preview describes what dropping the active card on a target would do.
type Preview struct {
	ActiveID  string       `json:"active_id"`
	Status    board.Status `json:"status"`
	WouldMove bool         `json:"would_move"`
}

// DropResult reports the outcome of a drop.
type DropResult struct {
	ActiveID string       `json:"active_id,omitempty"`
	From     board.Status `json:"from,omitempty"`
	To       board.Status `json:"to,omitempty"`
	Moved    bool         `json:"moved"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now for DateUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller is the drag state machine. It is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	board  Board
	now    func() time.Time
	active string
}

// NewController returns an idle controller over b.
func NewController(b Board, opts ...Option) *Controller {
	c := &Controller{board: b, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start begins dragging id. Unknown ids leave the controller idle.
func (c *Controller) Start(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := find(c.board.Applications(), id); !ok {
		c.active = ""
		return false
	}
	c.active = id
	return true
}

// ActiveID returns the dragged application id, or "" when idle.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.ActiveID() != ""
}

// Over previews a drop on t. ok is false when idle or t does not resolve.
func (c *Controller) Over(t Target) (Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == "" {
		return Preview{}, false
	}
	apps := c.board.Applications()
	app, ok := find(apps, c.active)
	if !ok {
		return Preview{}, false
	}
	status, ok := resolve(apps, t)
	if !ok {
		return Preview{}, false
	}
	return Preview{ActiveID: c.active, Status: status, WouldMove: status != app.Status}, true
}

// Drop ends the drag over t. A nil target cancels. Dropping on a column
// moves the card there; dropping on another card adopts that card's status.
// Drops that would not change the status leave the board untouched.
func (c *Controller) Drop(ctx context.Context, t *Target) (DropResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.active
	c.active = ""
	if active == "" || t == nil {
		return DropResult{}, nil
	}
	return c.commit(ctx, active, *t)
}

// Cancel abandons the drag.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = ""
}

// Move is a complete drag of id onto the status column, for non-pointer callers.
// It does not disturb an in-progress drag.
func (c *Controller) Move(ctx context.Context, id string, status board.Status) (DropResult, error) {
	if !status.Valid() {
		return DropResult{}, errors.NewInvalidRequest(fmt.Sprintf("unknown status %q", status))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.commit(ctx, id, Column(status))
	if err != nil {
		return DropResult{}, err
	}
	if res.ActiveID == "" {
		return DropResult{}, errors.NewNotFound("job", id)
	}
	return res, nil
}

// commit applies the drop of activeID on t in one board update. An
// activeID missing from the board yields a zero result. Callers hold c.mu.
func (c *Controller) commit(ctx context.Context, activeID string, t Target) (DropResult, error) {
	var res DropResult
	err := c.board.Update(ctx, func(apps []board.Application) ([]board.Application, bool) {
		i, ok := indexOf(apps, activeID)
		if !ok {
			return nil, false
		}
		res = DropResult{ActiveID: activeID, From: apps[i].Status, To: apps[i].Status}
		status, ok := resolve(apps, t)
		if !ok || status == apps[i].Status {
			return nil, false
		}

		res.To = status
		apps[i].Status = status
		apps[i].DateUpdated = c.now().UTC()
		res.Moved = true
		return apps, true
	})
	if err != nil {
		return DropResult{}, err
	}
	return res, nil
}

// resolve maps a target to the status a drop on it implies.
func resolve(apps []board.Application, t Target) (board.Status, bool) {
	switch t.Kind {
	case TargetColumn:
		s := board.Status(t.ID)
		return s, s.Valid()
	case TargetCard:
		if over, ok := find(apps, t.ID); ok {
			return over.Status, true
		}
	}
	return "", false
}

func find(apps []board.Application, id string) (board.Application, bool) {
	if i, ok := indexOf(apps, id); ok {
		return apps[i], true
	}
	return board.Application{}, false
}

func indexOf(apps []board.Application, id string) (int, bool) {
	for i, a := range apps {
		if a.ID == id {
			return i, true
		}
	}
	return -1, false
}
