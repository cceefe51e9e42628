// Package catalog holds the immutable list of job boards that searches can
// target, their display grouping and the recency filters understood by the
// search engine.
package catalog

import (
	"fmt"
	"strings"
)

// Category tags a site for grouping.
type Category string

const (
	CategoryATSGlobal Category = "ats-global"
	CategoryBrasil    Category = "brasil"
	CategoryStartups  Category = "startups"
	CategoryLinkedIn  Category = "linkedin"
	CategoryContext   Category = "context"
)

// Region is informational only.
type Region string

const (
	RegionGlobal Region = "Global"
	RegionBrazil Region = "Brazil"
	RegionRemote Region = "Remote"
)

// JobSite is a searchable job board.
type JobSite struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Domain   string   `json:"domain"`
	Category Category `json:"category"`
	Region   Region   `json:"region"`
}

// Group is a titled set of sites shown together.
type Group struct {
	Title      string     `json:"title"`
	Categories []Category `json:"categories"`
	Sites      []JobSite  `json:"sites"`
}

var sites = []JobSite{
	{"greenhouse", "Greenhouse", "boards.greenhouse.io", CategoryATSGlobal, RegionGlobal},
	{"lever", "Lever", "jobs.lever.co", CategoryATSGlobal, RegionGlobal},
	{"workable", "Workable", "apply.workable.com", CategoryATSGlobal, RegionGlobal},
	{"ashby", "Ashby", "jobs.ashbyhq.com", CategoryATSGlobal, RegionGlobal},
	{"smartrecruiters", "SmartRecruiters", "jobs.smartrecruiters.com", CategoryATSGlobal, RegionGlobal},
	{"breezyhr", "Breezy HR", "breezyhr.com", CategoryATSGlobal, RegionGlobal},
	{"teamtailor", "TeamTailor", "jobs.teamtailor.com", CategoryATSGlobal, RegionGlobal},
	{"bamboohr", "BambooHR", "bamboohr.com/careers", CategoryATSGlobal, RegionGlobal},
	{"recruitee", "Recruitee", "careers.recruitee.com", CategoryATSGlobal, RegionGlobal},

	{"gupy", "Gupy", "gupy.io", CategoryBrasil, RegionBrazil},
	{"99jobs", "99jobs", "99jobs.com", CategoryBrasil, RegionBrazil},
	{"vagas", "Vagas.com", "vagas.com.br", CategoryBrasil, RegionBrazil},
	{"remotar", "Remotar", "remotar.com.br", CategoryBrasil, RegionBrazil},
	{"catho", "Catho", "catho.com.br", CategoryBrasil, RegionBrazil},
	{"infojobs", "InfoJobs", "infojobs.com.br", CategoryBrasil, RegionBrazil},
	{"trampos", "Trampos.co", "trampos.co", CategoryBrasil, RegionBrazil},
	{"revelo", "Revelo", "revelo.com.br", CategoryBrasil, RegionBrazil},

	{"wellfound", "Wellfound (AngelList)", "wellfound.com", CategoryStartups, RegionRemote},
	{"ycombinator", "Y Combinator Jobs", "ycombinator.com/jobs", CategoryStartups, RegionRemote},
	{"himalayas", "Himalayas", "himalayas.app", CategoryStartups, RegionRemote},
	{"weworkremotely", "WeWorkRemotely", "weworkremotely.com", CategoryStartups, RegionRemote},
	{"remoteok", "RemoteOK", "remoteok.com", CategoryStartups, RegionRemote},

	{"linkedin", "LinkedIn Jobs", "linkedin.com/jobs", CategoryLinkedIn, RegionGlobal},
	{"stackoverflow", "Stack Overflow", "stackoverflow.com/jobs", CategoryContext, RegionGlobal},
	{"hired", "Hired", "hired.com", CategoryContext, RegionGlobal},
	{"levels", "Levels.fyi", "levels.fyi/jobs", CategoryContext, RegionGlobal},
	{"glassdoor", "Glassdoor", "glassdoor.com/Job", CategoryContext, RegionGlobal},
}

// Built once at init; never mutated afterwards.
var (
	byID   map[string]JobSite
	groups []Group
)

func init() {
	byID = make(map[string]JobSite, len(sites))
	for _, s := range sites {
		byID[s.ID] = s
	}

	layout := []struct {
		title string
		cats  []Category
	}{
		{"ATS Globais", []Category{CategoryATSGlobal}},
		{"Brasil", []Category{CategoryBrasil}},
		{"Startups & Remoto", []Category{CategoryStartups}},
		{"Big Tech & Context", []Category{CategoryLinkedIn, CategoryContext}},
	}
	for _, l := range layout {
		g := Group{Title: l.title, Categories: l.cats}
		for _, s := range sites {
			for _, c := range l.cats {
				if s.Category == c {
					g.Sites = append(g.Sites, s)
				}
			}
		}
		groups = append(groups, g)
	}
}

// Sites returns the full catalog in display order.
func Sites() []JobSite {
	out := make([]JobSite, len(sites))
	copy(out, sites)
	return out
}

// Lookup returns the site with the given id.
func Lookup(id string) (JobSite, bool) {
	s, ok := byID[id]
	return s, ok
}

// Groups returns the precomputed display grouping.
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{
			Title:      g.Title,
			Categories: append([]Category(nil), g.Categories...),
			Sites:      append([]JobSite(nil), g.Sites...),
		}
	}
	return out
}

// Domains maps site ids to their domains in the given order.
// Unknown ids are skipped.
func Domains(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s.Domain)
		}
	}
	return out
}

// Unknown returns the ids that are not in the catalog.
func Unknown(ids []string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// ToggleGroup selects every site of g when any is unselected, otherwise
// deselects them all. Existing selection order is kept and new ids are appended.
func ToggleGroup(selected []string, g Group) []string {
	inGroup := make(map[string]bool, len(g.Sites))
	for _, s := range g.Sites {
		inGroup[s.ID] = true
	}
	have := make(map[string]bool, len(selected))
	for _, id := range selected {
		have[id] = true
	}

	all := true
	for _, s := range g.Sites {
		if !have[s.ID] {
			all = false
			break
		}
	}

	out := make([]string, 0, len(selected)+len(g.Sites))
	if all {
		for _, id := range selected {
			if !inGroup[id] {
				out = append(out, id)
			}
		}
		return out
	}
	out = append(out, selected...)
	for _, s := range g.Sites {
		if !have[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

// DateFilter restricts results by recency. The zero value means no filter.
type DateFilter string

const (
	DateAny   DateFilter = ""
	DateDay   DateFilter = "d"
	DateWeek  DateFilter = "w"
	DateMonth DateFilter = "m"
	DateYear  DateFilter = "y"
)

// DateFilters lists every filter in display order.
var DateFilters = []DateFilter{DateAny, DateDay, DateWeek, DateMonth, DateYear}

// Label is the human-readable name.
func (f DateFilter) Label() string {
	switch f {
	case DateDay:
		return "Last 24 hours"
	case DateWeek:
		return "Last week"
	case DateMonth:
		return "Last month"
	case DateYear:
		return "Last year"
	default:
		return "Any time"
	}
}

// ParseDateFilter accepts the short codes and the words none/any/day/week/month/year.
func ParseDateFilter(s string) (DateFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "any":
		return DateAny, nil
	case "d", "day":
		return DateDay, nil
	case "w", "week":
		return DateWeek, nil
	case "m", "month":
		return DateMonth, nil
	case "y", "year":
		return DateYear, nil
	}
	return DateAny, fmt.Errorf("unknown date filter %q", s)
}
