package esdsl

import (
	"strings"
	"testing"
)

func TestSortMarshal(t *testing.T) {
	s := Sort{Field: "comment_date_gmt", Order: SortDesc}

	got := mustJSON(t, s)
	want := `{"comment_date_gmt":{"order":"desc"}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestQueryMarshal_Minimal(t *testing.T) {
	q := &Query{Size: 10000, Query: MatchAll{Boost: 1}}

	got := mustJSON(t, q)
	want := `{"from":0,"size":10000,"query":{"match_all":{"boost":1}}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestQueryMarshal_FullEnvelope(t *testing.T) {
	q := &Query{
		From: 5,
		Size: 10,
		Sort: []Sort{{Field: "comment_date_gmt", Order: SortAsc}},
		Query: MultiMatch{
			Query:  "hi",
			Fields: []string{"comment_content"},
		},
		PostFilter: &Bool{Must: []Node{Term{Field: "comment_parent", Value: 0}}},
		Source:     &Source{Includes: []string{"comment_ID"}},
	}

	got := mustJSON(t, q)
	want := `{"from":5,"size":10,` +
		`"sort":[{"comment_date_gmt":{"order":"asc"}}],` +
		`"query":{"multi_match":{"fields":["comment_content"],"query":"hi"}},` +
		`"post_filter":{"bool":{"must":[{"term":{"comment_parent":0}}]}},` +
		`"_source":{"includes":["comment_ID"]}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestQueryMarshal_NoFilterOmitsPostFilter(t *testing.T) {
	q := &Query{Size: 20, Query: MatchAll{Boost: 1}}

	got := mustJSON(t, q)
	for _, absent := range []string{"post_filter", "_source", "sort"} {
		if strings.Contains(got, absent) {
			t.Errorf("envelope should omit %q, got %s", absent, got)
		}
	}
}
