// Package board tracks job applications and derives the kanban columns.
package board

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/ids"
	"github.com/hpungsan/jobdork/internal/store"
)

// Status is the kanban column of an application. Any status may follow any other.
type Status string

const (
	StatusSaved     Status = "saved"
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
)

// Statuses lists every status in column order.
var Statuses = []Status{StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Title is the column heading.
func (s Status) Title() string {
	switch s {
	case StatusSaved:
		return "Saved"
	case StatusApplied:
		return "Applied"
	case StatusInterview:
		return "Interview"
	case StatusOffer:
		return "Offer"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown status %q", s))
	}
	return st, nil
}

// Application is one tracked job.
type Application struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Link        *string   `json:"link,omitempty"`
	Status      Status    `json:"status"`
	Salary      *string   `json:"salary,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	DateAdded   time.Time `json:"date_added"`
	DateUpdated time.Time `json:"date_updated"`
}

func (a Application) clone() Application {
	a.Link = cloneStr(a.Link)
	a.Salary = cloneStr(a.Salary)
	a.Location = cloneStr(a.Location)
	a.Notes = cloneStr(a.Notes)
	return a
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NewApplication is the validated request to add a job.
type NewApplication struct {
	Role     string
	Company  string
	Status   Status // defaults to saved
	Link     string
	Salary   string
	Location string
	Notes    string
}

// Option configures a Board.
type Option func(*Board)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// Board owns the application list. It is safe for concurrent use.
type Board struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
	apps  []Application
}

// New loads applications from s.
func New(ctx context.Context, s store.Store, opts ...Option) (*Board, error) {
	b := &Board{store: s, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	if err := b.load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// load replaces the cached list with the stored one. Another session may
// have written since the last call. Callers hold b.mu.
func (b *Board) load(ctx context.Context) error {
	var apps []Application
	if _, err := store.GetJSON(ctx, b.store, store.KeyJobApplications, &apps); err != nil {
		return err
	}
	b.apps = apps
	return nil
}

// refresh reloads for readers without a context. On a store error the
// cached list is served. Callers hold b.mu.
func (b *Board) refresh() {
	_ = b.load(context.Background())
}

// Now returns the board clock's current time in UTC.
func (b *Board) Now() time.Time {
	return b.now().UTC()
}

// AddJob appends a new application. Role and company are required.
func (b *Board) AddJob(ctx context.Context, in NewApplication) (*Application, error) {
	role := strings.TrimSpace(in.Role)
	company := strings.TrimSpace(in.Company)
	if role == "" {
		return nil, errors.NewInvalidRequest("role is required")
	}
	if company == "" {
		return nil, errors.NewInvalidRequest("company is required")
	}
	status := in.Status
	if status == "" {
		status = StatusSaved
	}
	if !status.Valid() {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown status %q", status))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(ctx); err != nil {
		return nil, err
	}

	now := b.Now()
	app := Application{
		ID:          ids.New(now),
		Role:        role,
		Company:     company,
		Status:      status,
		Link:        optional(in.Link),
		Salary:      optional(in.Salary),
		Location:    optional(in.Location),
		Notes:       optional(in.Notes),
		DateAdded:   now,
		DateUpdated: now,
	}

	next := make([]Application, 0, len(b.apps)+1)
	next = append(next, b.apps...)
	next = append(next, app)
	if err := b.save(ctx, next); err != nil {
		return nil, err
	}
	out := app.clone()
	return &out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Update reloads the list, passes a copy to fn and saves what fn returns
// when it reports a change. The whole cycle holds the board lock, so no
// other Board method interleaves with it.
func (b *Board) Update(ctx context.Context, fn func(apps []Application) ([]Application, bool)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(ctx); err != nil {
		return err
	}

	next, changed := fn(b.snapshot())
	if !changed {
		return nil
	}
	return b.save(ctx, next)
}

// UpdateJobs replaces the whole application list.
func (b *Board) UpdateJobs(ctx context.Context, apps []Application) error {
	next := make([]Application, len(apps))
	for i, a := range apps {
		next[i] = a.clone()
	}
	return b.Update(ctx, func([]Application) ([]Application, bool) {
		return next, true
	})
}

// DeleteJob removes the application with id. Missing ids are a no-op.
func (b *Board) DeleteJob(ctx context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(ctx); err != nil {
		return false, err
	}

	next := make([]Application, 0, len(b.apps))
	for _, a := range b.apps {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(b.apps) {
		return false, nil
	}
	if err := b.save(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// EditJob replaces the notes of id and bumps DateUpdated.
// A nil notes pointer means the edit was cancelled and nothing changes.
func (b *Board) EditJob(ctx context.Context, id string, notes *string) (bool, error) {
	if notes == nil {
		return false, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.load(ctx); err != nil {
		return false, err
	}

	idx := b.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	next := make([]Application, len(b.apps))
	copy(next, b.apps)
	n := *notes
	next[idx].Notes = &n
	next[idx].DateUpdated = b.Now()

	if err := b.save(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Board) indexOf(id string) int {
	for i, a := range b.apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// save persists next and swaps it in. Callers hold b.mu.
func (b *Board) save(ctx context.Context, next []Application) error {
	if err := store.PutJSON(ctx, b.store, store.KeyJobApplications, next); err != nil {
		return err
	}
	b.apps = next
	return nil
}

// Applications returns a copy of every stored application in insertion order.
func (b *Board) Applications() []Application {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.snapshot()
}

// snapshot deep-copies the cached list. Callers hold b.mu.
func (b *Board) snapshot() []Application {
	out := make([]Application, len(b.apps))
	for i, a := range b.apps {
		out[i] = a.clone()
	}
	return out
}

// Get returns a copy of the application with id.
func (b *Board) Get(id string) (Application, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	if i := b.indexOf(id); i >= 0 {
		return b.apps[i].clone(), true
	}
	return Application{}, false
}

// Column is one kanban bucket.
type Column struct {
	Status       Status        `json:"status"`
	Title        string        `json:"title"`
	Applications []Application `json:"applications"`
}

// Columns partitions apps into the five status buckets, in column order,
// each sorted by DateUpdated newest first. Applications with an unknown
// status are dropped.
func Columns(apps []Application) []Column {
	sorted := make([]Application, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateUpdated.After(sorted[j].DateUpdated)
	})

	cols := make([]Column, len(Statuses))
	index := make(map[Status]int, len(Statuses))
	for i, s := range Statuses {
		cols[i] = Column{Status: s, Title: s.Title(), Applications: []Application{}}
		index[s] = i
	}
	for _, a := range sorted {
		if i, ok := index[a.Status]; ok {
			cols[i].Applications = append(cols[i].Applications, a)
		}
	}
	return cols
}

// Counts returns the number of applications per status.
func Counts(apps []Application) map[Status]int {
	out := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		out[s] = 0
	}
	for _, a := range apps {
		if a.Status.Valid() {
			out[a.Status]++
		}
	}
	return out
}
