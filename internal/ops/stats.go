package ops

import (
	"context"

	"github.com/hpungsan/jobdork/internal/analytics"
	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/board"
)

// StatsOutput summarizes search history and the job board.
type StatsOutput struct {
	Search analytics.Summary    `json:"search"`
	Jobs   map[board.Status]int `json:"jobs"`
	Total  int                  `json:"total_jobs"`
}

// Stats returns search analytics and per-column job counts.
func Stats(ctx context.Context, sess *app.Session) (*StatsOutput, error) {
	apps := sess.Board.Applications()
	return &StatsOutput{
		Search: analytics.Summarize(sess.Search.History()),
		Jobs:   board.Counts(apps),
		Total:  len(apps),
	}, nil
}
