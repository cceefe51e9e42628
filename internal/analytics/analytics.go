// Package analytics summarizes search history.
package analytics

import (
	"sort"
	"strings"

	"github.com/hpungsan/jobdork/internal/search"
)

const (
	// MinEntries is the history size below which a summary is not worth showing.
	MinEntries = 3
	topRoles   = 5
)

// RoleCount is how often a normalized role was searched.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// Summary aggregates a history.
type Summary struct {
	TotalSearches int         `json:"total_searches"`
	UniqueSites   int         `json:"unique_sites"`
	TopRoles      []RoleCount `json:"top_roles"`
	Ready         bool        `json:"ready"`
}

// TopRole returns the most searched role, or "".
func (s Summary) TopRole() string {
	if len(s.TopRoles) == 0 {
		return ""
	}
	return s.TopRoles[0].Role
}

// Summarize counts searches, distinct site ids and the five most searched
// roles. Roles are lower-cased and trimmed; ties keep first-seen order.
func Summarize(history []search.HistoryEntry) Summary {
	sites := map[string]bool{}
	counts := map[string]int{}
	var order []string

	for _, e := range history {
		for _, s := range e.Sites {
			sites[s] = true
		}
		role := strings.ToLower(strings.TrimSpace(e.Role))
		if role == "" {
			continue
		}
		if counts[role] == 0 {
			order = append(order, role)
		}
		counts[role]++
	}

	roles := make([]RoleCount, 0, len(order))
	for _, r := range order {
		roles = append(roles, RoleCount{Role: r, Count: counts[r]})
	}
	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Count > roles[j].Count })
	if len(roles) > topRoles {
		roles = roles[:topRoles]
	}

	return Summary{
		TotalSearches: len(history),
		UniqueSites:   len(sites),
		TopRoles:      roles,
		Ready:         len(history) >= MinEntries,
	}
}
