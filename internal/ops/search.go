package ops

import (
	"context"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/search"
)

// PerformSearchInput contains parameters for the PerformSearch operation.
type PerformSearchInput = BuildDorkInput

// PerformSearchOutput contains the result of the PerformSearch operation.
type PerformSearchOutput struct {
	HistoryID string        `json:"history_id"`
	Params    search.Params `json:"params"`
	Query     string        `json:"query"`
	URL       string        `json:"url"`
}

// PerformSearch validates the params, records them in history and makes
// them the current search.
func PerformSearch(ctx context.Context, sess *app.Session, input PerformSearchInput) (*PerformSearchOutput, error) {
	params, err := validateParams(input)
	if err != nil {
		return nil, err
	}

	entry, err := sess.Search.PerformSearch(ctx, params)
	if err != nil {
		return nil, err
	}

	out := render(sess, entry.Params)
	return &PerformSearchOutput{
		HistoryID: entry.ID,
		Params:    entry.Params,
		Query:     out.Query,
		URL:       out.URL,
	}, nil
}

// CurrentSearchOutput contains the current search, if any.
type CurrentSearchOutput struct {
	Current *search.Params `json:"current"`
	Query   string         `json:"query,omitempty"`
	URL     string         `json:"url,omitempty"`
}

// CurrentSearch returns the session's current search params.
func CurrentSearch(ctx context.Context, sess *app.Session) (*CurrentSearchOutput, error) {
	cur := sess.Search.Current()
	if cur == nil {
		return &CurrentSearchOutput{}, nil
	}
	out := render(sess, *cur)
	return &CurrentSearchOutput{Current: cur, Query: out.Query, URL: out.URL}, nil
}
