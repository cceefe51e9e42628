package ops

import (
	"context"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/search"
)

// ListHistoryInput contains parameters for the ListHistory operation.
type ListHistoryInput struct {
	Limit  int
	Offset int
}

// ListHistoryOutput contains the result of the ListHistory operation.
type ListHistoryOutput struct {
	Items      []search.HistoryEntry `json:"items"`
	Pagination Pagination            `json:"pagination"`
}

// ListHistory returns history entries, newest first.
func ListHistory(ctx context.Context, sess *app.Session, input ListHistoryInput) (*ListHistoryOutput, error) {
	all := sess.Search.History()
	start, end, p := paginate(input.Limit, input.Offset, len(all))
	return &ListHistoryOutput{Items: all[start:end], Pagination: p}, nil
}

// ClearHistoryOutput contains the result of the ClearHistory operation.
type ClearHistoryOutput struct {
	Cleared int `json:"cleared"`
}

// ClearHistory removes every history entry.
func ClearHistory(ctx context.Context, sess *app.Session) (*ClearHistoryOutput, error) {
	n := len(sess.Search.History())
	if err := sess.Search.ClearHistory(ctx); err != nil {
		return nil, err
	}
	return &ClearHistoryOutput{Cleared: n}, nil
}

// ApplyOutput is returned by the apply operations. Applied is false when
// the id was not found.
type ApplyOutput struct {
	Applied bool           `json:"applied"`
	ID      string         `json:"id"`
	Params  *search.Params `json:"params,omitempty"`
	Query   string         `json:"query,omitempty"`
	URL     string         `json:"url,omitempty"`
}

// ApplyHistory makes a history entry the current search.
func ApplyHistory(ctx context.Context, sess *app.Session, id string) (*ApplyOutput, error) {
	entry, ok := sess.Search.ApplyHistoryID(id)
	if !ok {
		return &ApplyOutput{ID: id}, nil
	}
	return applied(sess, id, entry.Params), nil
}

func applied(sess *app.Session, id string, p search.Params) *ApplyOutput {
	out := render(sess, p)
	return &ApplyOutput{Applied: true, ID: id, Params: &p, Query: out.Query, URL: out.URL}
}
