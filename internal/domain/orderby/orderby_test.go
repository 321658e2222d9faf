package orderby

import (
	"testing"

	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		raw  string
		want esdsl.SortOrder
	}{
		{"asc", esdsl.SortAsc},
		{"ASC", esdsl.SortAsc},
		{"Asc", esdsl.SortAsc},
		{"desc", esdsl.SortDesc},
		{"DESC", esdsl.SortDesc},
		{"", esdsl.SortDesc},
		{"sideways", esdsl.SortDesc},
	}
	for _, tt := range tests {
		if got := ParseDirection(tt.raw); got != tt.want {
			t.Errorf("ParseDirection(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestResolve_AliasTable(t *testing.T) {
	tests := []struct {
		alias string
		field string
	}{
		{"comment_agent", "comment_agent.raw"},
		{"comment_approved", "comment_approved"},
		{"comment_author", "comment_author.raw"},
		{"comment_author_email", "comment_author_email.raw"},
		{"comment_author_IP", "comment_author_IP.raw"},
		{"comment_author_url", "comment_author_url.raw"},
		{"comment_content", "comment_content.raw"},
		{"comment_date", "comment_date"},
		{"comment_date_gmt", "comment_date_gmt"},
		{"comment_ID", "comment_ID"},
		{"comment_karma", "comment_karma"},
		{"comment_parent", "comment_parent"},
		{"comment_post_ID", "comment_post_ID"},
		{"comment_type", "comment_type.raw"},
		{"user_id", "user_id"},
	}

	req := filter.New(nil)
	for _, tt := range tests {
		got := Resolve(tt.alias, esdsl.SortAsc, req)
		if len(got) != 1 {
			t.Fatalf("Resolve(%q) returned %d clauses, want 1", tt.alias, len(got))
		}
		if got[0].Field != tt.field {
			t.Errorf("Resolve(%q) field = %q, want %q", tt.alias, got[0].Field, tt.field)
		}
		if got[0].Order != esdsl.SortAsc {
			t.Errorf("Resolve(%q) order = %q, want asc", tt.alias, got[0].Order)
		}
	}
}

func TestResolve_MetaValue(t *testing.T) {
	req := filter.New(map[string]any{"meta_key": "color"})

	got := Resolve("meta_value", esdsl.SortDesc, req)
	if len(got) != 1 || got[0].Field != "meta.color.value" {
		t.Errorf("meta_value resolved to %v, want meta.color.value", got)
	}

	got = Resolve("meta_value_num", esdsl.SortDesc, req)
	if len(got) != 1 || got[0].Field != "meta.color.long" {
		t.Errorf("meta_value_num resolved to %v, want meta.color.long", got)
	}
}

func TestResolve_MetaValueWithoutKey(t *testing.T) {
	req := filter.New(nil)

	if got := Resolve("meta_value", esdsl.SortAsc, req); len(got) != 0 {
		t.Errorf("meta_value without meta_key should resolve to nothing, got %v", got)
	}
	if got := Resolve("meta_value_num", esdsl.SortAsc, req); len(got) != 0 {
		t.Errorf("meta_value_num without meta_key should resolve to nothing, got %v", got)
	}
}

func TestResolve_UnknownAliasPassesThrough(t *testing.T) {
	req := filter.New(nil)

	got := Resolve("some_custom_field", esdsl.SortDesc, req)
	if len(got) != 1 || got[0].Field != "some_custom_field" {
		t.Errorf("unknown alias should sort literally, got %v", got)
	}
}
