package catalog

import (
	"testing"
)

func TestSites_Count(t *testing.T) {
	if got := len(Sites()); got != 27 {
		t.Errorf("len(Sites()) = %d, want 27", got)
	}
}

func TestSites_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Sites() {
		if seen[s.ID] {
			t.Errorf("duplicate id %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestGroups_CoverCatalogOnce(t *testing.T) {
	count := map[string]int{}
	for _, g := range Groups() {
		for _, s := range g.Sites {
			count[s.ID]++
		}
	}
	for _, s := range Sites() {
		if count[s.ID] != 1 {
			t.Errorf("site %q appears in %d groups, want 1", s.ID, count[s.ID])
		}
	}
}

func TestGroups_Layout(t *testing.T) {
	gs := Groups()
	want := []struct {
		title string
		n     int
	}{
		{"ATS Globais", 9},
		{"Brasil", 8},
		{"Startups & Remoto", 5},
		{"Big Tech & Context", 5},
	}
	if len(gs) != len(want) {
		t.Fatalf("len(Groups()) = %d, want %d", len(gs), len(want))
	}
	for i, w := range want {
		if gs[i].Title != w.title || len(gs[i].Sites) != w.n {
			t.Errorf("group %d = %q (%d sites), want %q (%d)", i, gs[i].Title, len(gs[i].Sites), w.title, w.n)
		}
	}
}

func TestGroups_ReturnsCopy(t *testing.T) {
	gs := Groups()
	gs[0].Sites[0].Domain = "evil.example"
	if Groups()[0].Sites[0].Domain == "evil.example" {
		t.Error("Groups() exposed internal state")
	}
}

func TestDomains(t *testing.T) {
	got := Domains([]string{"lever", "nope", "greenhouse"})
	want := []string{"jobs.lever.co", "boards.greenhouse.io"}
	if len(got) != len(want) {
		t.Fatalf("Domains() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Domains()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnknown(t *testing.T) {
	got := Unknown([]string{"lever", "nope", "also-nope"})
	if len(got) != 2 || got[0] != "nope" || got[1] != "also-nope" {
		t.Errorf("Unknown() = %v", got)
	}
	if Unknown([]string{"gupy"}) != nil {
		t.Error("Unknown() should be nil when all ids resolve")
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("linkedin")
	if !ok || s.Domain != "linkedin.com/jobs" || s.Category != CategoryLinkedIn {
		t.Errorf("Lookup(linkedin) = %+v, %v", s, ok)
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}

func TestToggleGroup(t *testing.T) {
	startups := Groups()[2]

	selected := ToggleGroup([]string{"lever", "wellfound"}, startups)
	want := []string{"lever", "wellfound", "ycombinator", "himalayas", "weworkremotely", "remoteok"}
	if len(selected) != len(want) {
		t.Fatalf("select all = %v, want %v", selected, want)
	}
	for i := range want {
		if selected[i] != want[i] {
			t.Errorf("select all [%d] = %q, want %q", i, selected[i], want[i])
		}
	}

	cleared := ToggleGroup(selected, startups)
	if len(cleared) != 1 || cleared[0] != "lever" {
		t.Errorf("deselect all = %v, want [lever]", cleared)
	}
}

func TestParseDateFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    DateFilter
		wantErr bool
	}{
		{"", DateAny, false},
		{"none", DateAny, false},
		{"d", DateDay, false},
		{"Week", DateWeek, false},
		{" m ", DateMonth, false},
		{"year", DateYear, false},
		{"fortnight", DateAny, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDateFilter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
