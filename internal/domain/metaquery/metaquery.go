// Package metaquery compiles metadata predicates into filter fragments
// over per-key namespaced index fields (meta.<key>.<subfield>).
package metaquery

import (
	"sort"
	"strings"

	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
)

// Clause is one metadata predicate, or a nested group when Clauses is
// non-empty.
type Clause struct {
	Key      string
	Value    any
	Compare  string
	Type     string
	Relation string
	Clauses  []Clause
}

// Query is a full metadata sub-query: top-level clauses plus the relation
// that joins them (AND unless OR is named).
type Query struct {
	Relation string
	Clauses  []Clause
}

// Empty reports whether the query carries no clauses.
func (q Query) Empty() bool { return len(q.Clauses) == 0 }

// Compiler compiles metadata sub-queries. Stateless and safe for
// concurrent use.
type Compiler struct{}

// New returns a Compiler.
func New() *Compiler { return &Compiler{} }

// Compile returns the filter fragment for q, or nil when nothing compiles.
// Malformed clauses (no key, missing required values) are skipped, never
// reported.
func (c *Compiler) Compile(q Query) *esdsl.Bool {
	return compileGroup(q.Relation, q.Clauses)
}

func compileGroup(relation string, clauses []Clause) *esdsl.Bool {
	var children []esdsl.Node
	for _, cl := range clauses {
		if len(cl.Clauses) > 0 {
			if g := compileGroup(cl.Relation, cl.Clauses); g != nil {
				children = append(children, g)
			}
			continue
		}
		if leaf := compileLeaf(cl); leaf != nil {
			children = append(children, leaf)
		}
	}
	if len(children) == 0 {
		return nil
	}
	if strings.EqualFold(relation, "or") {
		return &esdsl.Bool{Should: children}
	}
	return &esdsl.Bool{Must: children}
}

func compileLeaf(cl Clause) esdsl.Node {
	if cl.Key == "" {
		return nil
	}

	compare := strings.ToUpper(strings.TrimSpace(cl.Compare))
	if compare == "" {
		compare = "="
	}
	field := "meta." + cl.Key + "." + subfieldFor(cl.Type)
	values := valueList(cl.Value)

	switch compare {
	case "EXISTS":
		return esdsl.Exists{Field: "meta." + cl.Key}
	case "NOT EXISTS":
		return &esdsl.Bool{MustNot: []esdsl.Node{esdsl.Exists{Field: "meta." + cl.Key}}}
	}

	// Every remaining comparison needs a value.
	if len(values) == 0 {
		return nil
	}

	switch compare {
	case "!=":
		return &esdsl.Bool{MustNot: []esdsl.Node{esdsl.Terms{Field: field, Values: values}}}
	case ">":
		return esdsl.Range{Field: field, GT: values[0]}
	case ">=":
		return esdsl.Range{Field: field, GTE: values[0]}
	case "<":
		return esdsl.Range{Field: field, LT: values[0]}
	case "<=":
		return esdsl.Range{Field: field, LTE: values[0]}
	case "BETWEEN":
		if len(values) < 2 {
			return nil
		}
		return esdsl.Range{Field: field, GTE: values[0], LTE: values[1]}
	case "NOT BETWEEN":
		if len(values) < 2 {
			return nil
		}
		return &esdsl.Bool{MustNot: []esdsl.Node{
			esdsl.Range{Field: field, GTE: values[0], LTE: values[1]},
		}}
	case "IN":
		return esdsl.Terms{Field: field, Values: values}
	case "NOT IN":
		return &esdsl.Bool{MustNot: []esdsl.Node{esdsl.Terms{Field: field, Values: values}}}
	case "LIKE":
		return esdsl.Match{Field: "meta." + cl.Key + ".value", Query: values[0]}
	case "NOT LIKE":
		return &esdsl.Bool{MustNot: []esdsl.Node{
			esdsl.Match{Field: "meta." + cl.Key + ".value", Query: values[0]},
		}}
	default:
		// Includes "=" and any operator this engine does not know.
		return esdsl.Terms{Field: field, Values: values}
	}
}

// subfieldFor maps a clause type to the per-key sub-field holding that
// representation of the value.
func subfieldFor(typ string) string {
	switch strings.ToUpper(strings.TrimSpace(typ)) {
	case "NUMERIC", "SIGNED", "UNSIGNED":
		return "long"
	case "DECIMAL":
		return "double"
	case "BINARY":
		return "boolean"
	case "CHAR":
		return "raw"
	case "DATE":
		return "date"
	case "DATETIME":
		return "datetime"
	case "TIME":
		return "time"
	default:
		return "value"
	}
}

func valueList(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []any{val}
	}
	return []any{v}
}

// ParseQuery reads a request's raw meta_query value. Accepted shapes: a
// list of clause objects, or an object carrying a relation plus either a
// clauses list or named clause objects. Anything else yields an empty
// query.
func ParseQuery(raw any) Query {
	switch v := raw.(type) {
	case []any:
		return Query{Clauses: parseClauseList(v)}
	case map[string]any:
		sub := filter.New(v)
		q := Query{Relation: sub.String("relation")}
		if list, ok := v["clauses"].([]any); ok {
			q.Clauses = parseClauseList(list)
			return q
		}
		// Named clause objects; sorted for deterministic output.
		names := make([]string, 0, len(v))
		for name, val := range v {
			if name == "relation" {
				continue
			}
			if _, ok := val.(map[string]any); ok {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			q.Clauses = append(q.Clauses, parseClause(v[name].(map[string]any)))
		}
		return q
	}
	return Query{}
}

func parseClauseList(list []any) []Clause {
	var out []Clause
	for _, elem := range list {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, parseClause(m))
	}
	return out
}

func parseClause(m map[string]any) Clause {
	sub := filter.New(m)
	cl := Clause{
		Key:      sub.String("key"),
		Value:    m["value"],
		Compare:  sub.String("compare"),
		Type:     sub.String("type"),
		Relation: sub.String("relation"),
	}
	if list, ok := m["clauses"].([]any); ok {
		cl.Clauses = parseClauseList(list)
	}
	return cl
}
