// Package blocklist keeps the companies excluded from every generated query.
package blocklist

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/store"
)

// ExportFileName is the default name of an exported blocklist.
const ExportFileName = "jobtracker_blocklist.csv"

// List is the ordered, exact-match-unique company blocklist.
// It is safe for concurrent use.
type List struct {
	mu        sync.Mutex
	store     store.Store
	companies []string
}

// New loads the blocklist from s.
func New(ctx context.Context, s store.Store) (*List, error) {
	l := &List{store: s}
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// load picks up writes made by other sessions. Callers hold l.mu.
func (l *List) load(ctx context.Context) error {
	var companies []string
	if _, err := store.GetJSON(ctx, l.store, store.KeyBlocklist, &companies); err != nil {
		return err
	}
	l.companies = companies
	return nil
}

// Add appends company after trimming it.
func (l *List) Add(ctx context.Context, company string) (string, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return "", errors.NewInvalidRequest("company name is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return "", err
	}

	for _, c := range l.companies {
		if c == company {
			return "", errors.NewDuplicate(company)
		}
	}

	next := make([]string, 0, len(l.companies)+1)
	next = append(next, l.companies...)
	next = append(next, company)
	if err := l.save(ctx, next); err != nil {
		return "", err
	}
	return company, nil
}

// Remove drops every exact match of company. Missing names are a no-op.
func (l *List) Remove(ctx context.Context, company string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return false, err
	}

	next := make([]string, 0, len(l.companies))
	for _, c := range l.companies {
		if c != company {
			next = append(next, c)
		}
	}
	if len(next) == len(l.companies) {
		return false, nil
	}
	if err := l.save(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Merge unions companies into the list, keeping first-seen order.
// It returns how many names were new.
func (l *List) Merge(ctx context.Context, companies []string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.load(ctx); err != nil {
		return 0, err
	}

	next := union(l.companies, companies)
	added := len(next) - len(l.companies)
	if added == 0 {
		return 0, nil
	}
	if err := l.save(ctx, next); err != nil {
		return 0, err
	}
	return added, nil
}

func union(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, c := range list {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func (l *List) save(ctx context.Context, next []string) error {
	if err := store.PutJSON(ctx, l.store, store.KeyBlocklist, next); err != nil {
		return err
	}
	l.companies = next
	return nil
}

// Companies returns a copy of the stored list in insertion order.
// A failed store read serves the last loaded list.
func (l *List) Companies() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.load(context.Background())
	return append([]string{}, l.companies...)
}

// ParseLines reads one company per line, trimming and dropping blank lines.
func ParseLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteCSV writes companies one per line with no trailing newline.
func WriteCSV(w io.Writer, companies []string) error {
	_, err := io.WriteString(w, strings.Join(companies, "\n"))
	return err
}
