package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/catalog"
	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/query"
	"github.com/hpungsan/jobdork/internal/search"
)

// BuildDorkInput contains parameters for the BuildDork operation.
type BuildDorkInput struct {
	Role       string   // required
	Location   string   // optional
	Sites      []string // catalog site ids, in selection order
	DateFilter string   // "", d/w/m/y or none/day/week/month/year
}

// BuildDorkOutput contains the result of the BuildDork operation.
type BuildDorkOutput struct {
	Query     string   `json:"query"`
	URL       string   `json:"url"`
	Domains   []string `json:"domains"`
	Blocklist []string `json:"blocklist"`
}

// BuildDork builds the query and search URL without recording anything.
// The session blocklist is always applied.
func BuildDork(ctx context.Context, sess *app.Session, input BuildDorkInput) (*BuildDorkOutput, error) {
	params, err := validateParams(input)
	if err != nil {
		return nil, err
	}
	return render(sess, params), nil
}

func validateParams(input BuildDorkInput) (search.Params, error) {
	if strings.TrimSpace(input.Role) == "" {
		return search.Params{}, errors.NewInvalidRequest("role is required")
	}
	sites := cleanSites(input.Sites)
	if err := validateSites(sites); err != nil {
		return search.Params{}, err
	}
	df, err := parseDateFilter(input.DateFilter)
	if err != nil {
		return search.Params{}, err
	}
	return search.Params{
		Role:       strings.TrimSpace(input.Role),
		Sites:      sites,
		DateFilter: df,
		Location:   strings.TrimSpace(input.Location),
	}, nil
}

func render(sess *app.Session, p search.Params) *BuildDorkOutput {
	domains := catalog.Domains(p.Sites)
	blocked := sess.Blocklist.Companies()
	q := query.Build(query.Input{
		Role:      p.Role,
		Location:  p.Location,
		Domains:   domains,
		Blocklist: blocked,
	})
	return &BuildDorkOutput{
		Query:     q,
		URL:       query.SearchURL(q, p.DateFilter),
		Domains:   domains,
		Blocklist: blocked,
	}
}
