package ops

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/catalog"
	"github.com/hpungsan/jobdork/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// paginate clamps limit/offset and returns the [start, end) window over total items.
func paginate(limit, offset, total int) (start, end int, p Pagination) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	start = min(offset, total)
	end = min(start+limit, total)
	return start, end, Pagination{Limit: limit, Offset: offset, HasMore: end < total, Total: total}
}

// validateSites rejects site ids that are not in the catalog.
func validateSites(ids []string) error {
	if unknown := catalog.Unknown(ids); len(unknown) > 0 {
		return errors.NewInvalidRequest(fmt.Sprintf("unknown site ids: %s", strings.Join(unknown, ", ")))
	}
	return nil
}

func parseDateFilter(s string) (catalog.DateFilter, error) {
	df, err := catalog.ParseDateFilter(s)
	if err != nil {
		return catalog.DateAny, errors.NewInvalidRequest(err.Error())
	}
	return df, nil
}

// cleanSites trims ids and drops blanks and repeats, keeping order.
func cleanSites(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func sortByUpdated(apps []board.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].DateUpdated.After(apps[j].DateUpdated)
	})
}
