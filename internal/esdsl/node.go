// Package esdsl models the subset of the Elasticsearch query DSL this
// engine emits: term-level filters, bool composition, full-text scoring
// clauses, and the top-level search request envelope. Every node marshals
// to its exact wire shape, so a compiled query can be handed to the
// backend byte-for-byte.
package esdsl

import "encoding/json"

// Node is one query-DSL clause. The set of clause shapes is closed: only
// types in this package satisfy it.
type Node interface {
	node()
}

// Term matches documents where Field equals Value exactly.
type Term struct {
	Field string
	Value any
}

func (Term) node() {}

// MarshalJSON emits {"term": {"<field>": <value>}}.
func (t Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"term": map[string]any{t.Field: t.Value}})
}

// Terms matches documents where Field equals any of Values.
type Terms struct {
	Field  string
	Values []any
}

func (Terms) node() {}

// MarshalJSON emits {"terms": {"<field>": [<values>]}}. A nil value set
// marshals as an empty array, never as null.
func (t Terms) MarshalJSON() ([]byte, error) {
	vals := t.Values
	if vals == nil {
		vals = []any{}
	}
	return json.Marshal(map[string]any{"terms": map[string]any{t.Field: vals}})
}

// Bool combines child clauses: Must entries are ANDed, Should entries are
// ORed, MustNot entries are negated.
type Bool struct {
	Must    []Node
	Should  []Node
	MustNot []Node
}

func (*Bool) node() {}

// Empty reports whether no clause group holds any child.
func (b *Bool) Empty() bool {
	return len(b.Must) == 0 && len(b.Should) == 0 && len(b.MustNot) == 0
}

// MarshalJSON emits {"bool": {...}} with empty clause groups left out.
func (b *Bool) MarshalJSON() ([]byte, error) {
	groups := make(map[string]any, 3)
	if len(b.Must) > 0 {
		groups["must"] = b.Must
	}
	if len(b.Should) > 0 {
		groups["should"] = b.Should
	}
	if len(b.MustNot) > 0 {
		groups["must_not"] = b.MustNot
	}
	return json.Marshal(map[string]any{"bool": groups})
}

// Range matches documents where Field falls within the given bounds.
// Nil bounds are omitted from the clause.
type Range struct {
	Field string
	GT    any
	GTE   any
	LT    any
	LTE   any
}

func (Range) node() {}

// MarshalJSON emits {"range": {"<field>": {"gte": ..., "lt": ...}}}.
func (r Range) MarshalJSON() ([]byte, error) {
	bounds := make(map[string]any, 4)
	if r.GT != nil {
		bounds["gt"] = r.GT
	}
	if r.GTE != nil {
		bounds["gte"] = r.GTE
	}
	if r.LT != nil {
		bounds["lt"] = r.LT
	}
	if r.LTE != nil {
		bounds["lte"] = r.LTE
	}
	return json.Marshal(map[string]any{"range": map[string]any{r.Field: bounds}})
}

// Exists matches documents that carry Field at all.
type Exists struct {
	Field string
}

func (Exists) node() {}

// MarshalJSON emits {"exists": {"field": "<field>"}}.
func (e Exists) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"exists": map[string]string{"field": e.Field}})
}

// Match runs an analyzed full-text match against one field.
type Match struct {
	Field string
	Query any
}

func (Match) node() {}

// MarshalJSON emits {"match": {"<field>": <query>}}.
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"match": map[string]any{m.Field: m.Query}})
}

// MultiMatch runs one query string against several fields. Zero-valued
// options are left out of the emitted clause; Fuzziness is a pointer so an
// explicit zero survives.
type MultiMatch struct {
	Query     string
	Fields    []string
	Type      string
	Operator  string
	Boost     float64
	Fuzziness *int
}

func (MultiMatch) node() {}

// MarshalJSON emits {"multi_match": {...}}.
func (m MultiMatch) MarshalJSON() ([]byte, error) {
	clause := map[string]any{
		"query":  m.Query,
		"fields": m.Fields,
	}
	if m.Type != "" {
		clause["type"] = m.Type
	}
	if m.Operator != "" {
		clause["operator"] = m.Operator
	}
	if m.Boost != 0 {
		clause["boost"] = m.Boost
	}
	if m.Fuzziness != nil {
		clause["fuzziness"] = *m.Fuzziness
	}
	return json.Marshal(map[string]any{"multi_match": clause})
}

// Int returns a pointer to n, for optional integer clause options.
func Int(n int) *int { return &n }

// MatchAll matches every document with a constant score.
type MatchAll struct {
	Boost float64
}

func (MatchAll) node() {}

// MarshalJSON emits {"match_all": {"boost": <boost>}}, or an empty object
// when no boost is set.
func (m MatchAll) MarshalJSON() ([]byte, error) {
	inner := map[string]any{}
	if m.Boost != 0 {
		inner["boost"] = m.Boost
	}
	return json.Marshal(map[string]any{"match_all": inner})
}
