// Package datequery compiles temporal sub-queries into filter fragments:
// range bounds on a date column plus term predicates on the indexed
// date_terms components.
package datequery

import (
	"fmt"
	"strings"
	"time"

	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
)

// DefaultColumn is the date column queried when a clause names none.
const DefaultColumn = "comment_date"

// Clause is one temporal predicate group. After/Before accept a date
// string or a component mapping; the unit fields accept a number or a
// number list, compared with Compare (default =).
type Clause struct {
	Column       string
	After        any
	Before       any
	Inclusive    bool
	Compare      string
	Year         any
	Month        any
	Week         any
	Day          any
	DayOfWeek    any
	DayOfWeekISO any
	DayOfYear    any
	Hour         any
	Minute       any
	Second       any
}

// Query is a full temporal sub-query.
type Query struct {
	Relation string
	Clauses  []Clause
}

// Empty reports whether the query carries no clauses.
func (q Query) Empty() bool { return len(q.Clauses) == 0 }

// Filter is the compiled output, split by join key. Consumers that AND
// the fragment into a larger filter read And and ignore Or.
type Filter struct {
	And *esdsl.Bool
	Or  *esdsl.Bool
}

// Compiler compiles temporal sub-queries. Stateless and safe for
// concurrent use.
type Compiler struct{}

// New returns a Compiler.
func New() *Compiler { return &Compiler{} }

// Compile returns the filter fragments for q. Clauses that contribute no
// predicate are skipped; an entirely empty query yields a zero Filter.
func (c *Compiler) Compile(q Query) Filter {
	var children []esdsl.Node
	for _, cl := range q.Clauses {
		if node := compileClause(cl); node != nil {
			children = append(children, node)
		}
	}
	if len(children) == 0 {
		return Filter{}
	}
	if strings.EqualFold(q.Relation, "or") {
		return Filter{Or: &esdsl.Bool{Should: children}}
	}
	return Filter{And: &esdsl.Bool{Must: children}}
}

func compileClause(cl Clause) esdsl.Node {
	column := cl.Column
	if column != "comment_date" && column != "comment_date_gmt" {
		column = DefaultColumn
	}

	var nodes []esdsl.Node

	bounds := esdsl.Range{Field: column}
	if endpoint, ok := parseEndpoint(cl.After, true); ok {
		if cl.Inclusive {
			bounds.GTE = endpoint
		} else {
			bounds.GT = endpoint
		}
	}
	if endpoint, ok := parseEndpoint(cl.Before, false); ok {
		if cl.Inclusive {
			bounds.LTE = endpoint
		} else {
			bounds.LT = endpoint
		}
	}
	if bounds.GT != nil || bounds.GTE != nil || bounds.LT != nil || bounds.LTE != nil {
		nodes = append(nodes, bounds)
	}

	units := []struct {
		name  string
		value any
	}{
		{"year", cl.Year},
		{"month", cl.Month},
		{"week", cl.Week},
		{"day", cl.Day},
		{"dayofweek", cl.DayOfWeek},
		{"dayofweek_iso", cl.DayOfWeekISO},
		{"dayofyear", cl.DayOfYear},
		{"hour", cl.Hour},
		{"minute", cl.Minute},
		{"second", cl.Second},
	}
	for _, unit := range units {
		if unit.value == nil {
			continue
		}
		if node := compileUnit("date_terms."+unit.name, unit.value, cl.Compare); node != nil {
			nodes = append(nodes, node)
		}
	}

	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	default:
		return &esdsl.Bool{Must: nodes}
	}
}

func compileUnit(field string, value any, compare string) esdsl.Node {
	values := intList(value)
	if len(values) == 0 {
		return nil
	}

	switch strings.ToUpper(strings.TrimSpace(compare)) {
	case "", "=":
		if len(values) == 1 {
			return esdsl.Term{Field: field, Value: values[0]}
		}
		return esdsl.Terms{Field: field, Values: values}
	case "!=":
		if len(values) == 1 {
			return &esdsl.Bool{MustNot: []esdsl.Node{esdsl.Term{Field: field, Value: values[0]}}}
		}
		return &esdsl.Bool{MustNot: []esdsl.Node{esdsl.Terms{Field: field, Values: values}}}
	case ">":
		return esdsl.Range{Field: field, GT: values[0]}
	case ">=":
		return esdsl.Range{Field: field, GTE: values[0]}
	case "<":
		return esdsl.Range{Field: field, LT: values[0]}
	case "<=":
		return esdsl.Range{Field: field, LTE: values[0]}
	case "IN":
		return esdsl.Terms{Field: field, Values: values}
	case "NOT IN":
		return &esdsl.Bool{MustNot: []esdsl.Node{esdsl.Terms{Field: field, Values: values}}}
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
	default:
		if len(values) == 1 {
			return esdsl.Term{Field: field, Value: values[0]}
		}
		return esdsl.Terms{Field: field, Values: values}
	}
}

func intList(v any) []any {
	req := filter.New(map[string]any{"v": v})
	elems := req.List("v")
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		out = append(out, filter.New(map[string]any{"n": e}).Int("n"))
	}
	return out
}

// components is a partially specified timestamp; -1 marks an unset part.
type components struct {
	year, month, day, hour, minute, second int
}

// parseEndpoint turns a raw after/before value into a comparable
// timestamp string. Missing components fill toward the endpoint's open
// side: an after endpoint fills with the latest value (so "2024" means
// after the end of 2024), a before endpoint with the earliest.
func parseEndpoint(raw any, after bool) (string, bool) {
	comp, ok := parseComponents(raw)
	if !ok || comp.year <= 0 {
		return "", false
	}

	if comp.month < 1 {
		if after {
			comp.month = 12
		} else {
			comp.month = 1
		}
	}
	if comp.day < 1 {
		if after {
			comp.day = lastDay(comp.year, comp.month)
		} else {
			comp.day = 1
		}
	}
	if comp.hour < 0 {
		if after {
			comp.hour = 23
		} else {
			comp.hour = 0
		}
	}
	if comp.minute < 0 {
		if after {
			comp.minute = 59
		} else {
			comp.minute = 0
		}
	}
	if comp.second < 0 {
		if after {
			comp.second = 59
		} else {
			comp.second = 0
		}
	}

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		comp.year, comp.month, comp.day, comp.hour, comp.minute, comp.second), true
}

func parseComponents(raw any) (components, bool) {
	unset := components{year: -1, month: -1, day: -1, hour: -1, minute: -1, second: -1}

	switch v := raw.(type) {
	case nil:
		return unset, false
	case map[string]any:
		sub := filter.New(v)
		comp := unset
		if sub.Present("year") {
			comp.year = sub.Int("year")
		}
		if sub.Present("month") {
			comp.month = sub.Int("month")
		}
		if sub.Present("day") {
			comp.day = sub.Int("day")
		}
		if sub.Present("hour") {
			comp.hour = sub.Int("hour")
		}
		if sub.Present("minute") {
			comp.minute = sub.Int("minute")
		}
		if sub.Present("second") {
			comp.second = sub.Int("second")
		}
		return comp, comp.year > 0
	case string:
		return parseDateString(strings.TrimSpace(v))
	case int, int32, int64, float32, float64:
		comp := unset
		comp.year = filter.New(map[string]any{"y": v}).Int("y")
		return comp, comp.year > 0
	}
	return unset, false
}

func parseDateString(s string) (components, bool) {
	layouts := []struct {
		layout string
		depth  int // how many components the layout pins, year first
	}{
		{"2006-01-02 15:04:05", 6},
		{"2006-01-02T15:04:05", 6},
		{"2006-01-02 15:04", 5},
		{"2006-01-02", 3},
		{"2006-01", 2},
		{"2006", 1},
	}
	for _, l := range layouts {
		ts, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		comp := components{year: -1, month: -1, day: -1, hour: -1, minute: -1, second: -1}
		comp.year = ts.Year()
		if l.depth >= 2 {
			comp.month = int(ts.Month())
		}
		if l.depth >= 3 {
			comp.day = ts.Day()
		}
		if l.depth >= 4 {
			comp.hour = ts.Hour()
		}
		if l.depth >= 5 {
			comp.minute = ts.Minute()
		}
		if l.depth >= 6 {
			comp.second = ts.Second()
		}
		return comp, true
	}
	return components{}, false
}

func lastDay(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseQuery reads a request's raw date_query value. Accepted shapes: a
// list of clause objects, a single clause object, or an object carrying a
// relation plus a clauses list.
func ParseQuery(raw any) Query {
	switch v := raw.(type) {
	case []any:
		return Query{Clauses: parseClauseList(v)}
	case map[string]any:
		sub := filter.New(v)
		if list, ok := v["clauses"].([]any); ok {
			return Query{Relation: sub.String("relation"), Clauses: parseClauseList(list)}
		}
		if cl, ok := parseClause(v); ok {
			return Query{Clauses: []Clause{cl}}
		}
		return Query{Relation: sub.String("relation")}
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
		if cl, parsed := parseClause(m); parsed {
			out = append(out, cl)
		}
	}
	return out
}

func parseClause(m map[string]any) (Clause, bool) {
	sub := filter.New(m)
	cl := Clause{
		Column:       sub.String("column"),
		After:        m["after"],
		Before:       m["before"],
		Inclusive:    !sub.Empty("inclusive"),
		Compare:      sub.String("compare"),
		Year:         m["year"],
		Week:         firstSet(m, "week", "w"),
		Month:        firstSet(m, "month", "monthnum"),
		Day:          m["day"],
		DayOfWeek:    m["dayofweek"],
		DayOfWeekISO: m["dayofweek_iso"],
		DayOfYear:    m["dayofyear"],
		Hour:         m["hour"],
		Minute:       m["minute"],
		Second:       m["second"],
	}

	parsed := cl.After != nil || cl.Before != nil ||
		cl.Year != nil || cl.Month != nil || cl.Week != nil || cl.Day != nil ||
		cl.DayOfWeek != nil || cl.DayOfWeekISO != nil || cl.DayOfYear != nil ||
		cl.Hour != nil || cl.Minute != nil || cl.Second != nil
	return cl, parsed
}

func firstSet(m map[string]any, names ...string) any {
	for _, name := range names {
		if v, ok := m[name]; ok && v != nil {
			return v
		}
	}
	return nil
}
