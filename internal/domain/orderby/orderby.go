// Package orderby resolves logical sort aliases to concrete sortable index
// fields.
package orderby

import (
	"strings"

	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
)

// DefaultAlias is the sort alias applied when a request names none.
const DefaultAlias = "comment_date_gmt"

// sortable is the closed alias table. Analyzed text fields sort on their
// non-analyzed .raw sibling.
var sortable = map[string]string{
	"comment_agent":        "comment_agent.raw",
	"comment_approved":     "comment_approved",
	"comment_author":       "comment_author.raw",
	"comment_author_email": "comment_author_email.raw",
	"comment_author_IP":    "comment_author_IP.raw",
	"comment_author_url":   "comment_author_url.raw",
	"comment_content":      "comment_content.raw",
	"comment_date":         "comment_date",
	"comment_date_gmt":     "comment_date_gmt",
	"comment_ID":           "comment_ID",
	"comment_karma":        "comment_karma",
	"comment_parent":       "comment_parent",
	"comment_post_ID":      "comment_post_ID",
	"comment_type":         "comment_type.raw",
	"user_id":              "user_id",
}

// ParseDirection normalizes a raw order value: asc in any case sorts
// ascending, everything else (including empty) descending.
func ParseDirection(raw string) esdsl.SortOrder {
	if strings.ToLower(raw) == "asc" {
		return esdsl.SortAsc
	}
	return esdsl.SortDesc
}

// Resolve maps a sort alias to its sort clauses. The meta_value and
// meta_value_num aliases address the request's meta key and resolve to
// nothing when no meta_key is given; an alias outside the table sorts on
// the alias itself as a literal field name.
func Resolve(alias string, order esdsl.SortOrder, req filter.Request) []esdsl.Sort {
	var field string
	switch alias {
	case "meta_value":
		if req.Empty("meta_key") {
			return nil
		}
		field = "meta." + req.String("meta_key") + ".value"
	case "meta_value_num":
		if req.Empty("meta_key") {
			return nil
		}
		field = "meta." + req.String("meta_key") + ".long"
	default:
		if mapped, ok := sortable[alias]; ok {
			field = mapped
		} else {
			field = alias
		}
	}
	return []esdsl.Sort{{Field: field, Order: order}}
}
