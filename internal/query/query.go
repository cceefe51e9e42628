// Package query builds search-engine "dork" queries and the URLs that open them.
package query

import (
	"strings"

	"github.com/hpungsan/jobdork/internal/catalog"
)

// SearchBase is the search endpoint queries are sent to.
const SearchBase = "https://www.google.com/search?q="

// Input holds everything a query is built from.
type Input struct {
	Role      string
	Location  string
	Domains   []string
	Blocklist []string
}

// Build renders
//
//	"<role>" ["<location>"] (site:<d1> OR site:<d2> ...) -"<blocked1>" -"<blocked2>" ...
//
// It returns "" when the role is blank. Quotes inside user text are not escaped.
func Build(in Input) string {
	if strings.TrimSpace(in.Role) == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(`"` + in.Role + `"`)

	if strings.TrimSpace(in.Location) != "" {
		b.WriteString(` "` + in.Location + `"`)
	}

	if len(in.Domains) > 0 {
		b.WriteString(" (")
		for i, d := range in.Domains {
			if i > 0 {
				b.WriteString(" OR ")
			}
			b.WriteString("site:" + d)
		}
		b.WriteString(")")
	}

	for _, company := range in.Blocklist {
		b.WriteString(` -"` + company + `"`)
	}

	return b.String()
}

// SearchURL returns the URL that runs q, restricted by df when set.
func SearchURL(q string, df catalog.DateFilter) string {
	u := SearchBase + EncodeComponent(q)
	if df != catalog.DateAny {
		u += "&tbs=qdr:" + string(df)
	}
	return u
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way browsers encode a URI component:
// everything except A-Z a-z 0-9 and -_.!~*'() is escaped, spaces become %20.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
