// Package compiler translates a flat filter/sort request into the search
// engine's query document. Every filter dimension is independent and
// additive; malformed values degrade to "dimension not requested" rather
// than erroring.
package compiler

import (
	"strconv"

	"github.com/commentdex/commentdex/internal/domain/datequery"
	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/domain/metaquery"
	"github.com/commentdex/commentdex/internal/domain/orderby"
	"github.com/commentdex/commentdex/internal/domain/relevance"
	"github.com/commentdex/commentdex/internal/esdsl"
)

// DefaultMaxResultWindow is the page size used when the request names
// none. Backends are expected to reject anything larger.
const DefaultMaxResultWindow = 10000

// Compiler holds the translation settings. Stateless across calls and
// safe for concurrent use.
type Compiler struct {
	window    int
	relevance *relevance.Builder
	meta      MetaCompiler
	date      DateCompiler
}

// Option adjusts a Compiler.
type Option func(*Compiler)

// WithMaxResultWindow overrides the default page size ceiling.
func WithMaxResultWindow(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.window = n
		}
	}
}

// WithRelevance replaces the relevance query builder.
func WithRelevance(b *relevance.Builder) Option {
	return func(c *Compiler) {
		if b != nil {
			c.relevance = b
		}
	}
}

// WithMetaCompiler replaces the meta sub-query collaborator.
func WithMetaCompiler(m MetaCompiler) Option {
	return func(c *Compiler) {
		if m != nil {
			c.meta = m
		}
	}
}

// WithDateCompiler replaces the temporal sub-query collaborator.
func WithDateCompiler(d DateCompiler) Option {
	return func(c *Compiler) {
		if d != nil {
			c.date = d
		}
	}
}

// New returns a Compiler with the default collaborators and settings.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		window:    DefaultMaxResultWindow,
		relevance: relevance.New(),
		meta:      metaquery.New(),
		date:      datequery.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// clauseKind selects how a dimension's value becomes a filter clause.
type clauseKind int

const (
	// kindTermString emits a single term on a raw string field.
	kindTermString clauseKind = iota
	// kindTermInt emits a single term on an integer field.
	kindTermInt
	// kindTermsIDs emits a terms clause over an absolute-integer id list.
	kindTermsIDs
	// kindTermsStrings emits a terms clause over a trimmed string list.
	kindTermsStrings
	// kindStringsAuto emits term for one element, terms for more.
	kindStringsAuto
	// The remaining kinds mark dimensions with dedicated handlers.
	kindProjection
	kindKarma
	kindParent
	kindMeta
	kindStatus
	kindDate
)

// dimension is one entry of the filter dimension table.
type dimension struct {
	param   string
	field   string
	kind    clauseKind
	exclude bool
}

// dimensions lists every filter dimension in compile order. Exclude
// entries nest their clause under must_not.
var dimensions = []dimension{
	{param: "author_email", field: "comment_author_email.raw", kind: kindTermString},
	{param: "author_url", field: "comment_author_url.raw", kind: kindTermString},
	{param: "user_id", field: "user_id", kind: kindTermInt},
	{param: "author__in", field: "user_id", kind: kindTermsIDs},
	{param: "author__not_in", field: "user_id", kind: kindTermsIDs, exclude: true},
	{param: "comment__in", field: "comment_ID", kind: kindTermsIDs},
	{param: "comment__not_in", field: "comment_ID", kind: kindTermsIDs, exclude: true},
	{param: "fields", kind: kindProjection},
	{param: "karma", field: "comment_karma", kind: kindKarma},
	{param: "meta_query", kind: kindMeta},
	{param: "parent", field: "comment_parent", kind: kindParent},
	{param: "parent__in", field: "comment_parent", kind: kindTermsIDs},
	{param: "parent__not_in", field: "comment_parent", kind: kindTermsIDs, exclude: true},
	{param: "post_author", field: "comment_post_author_id", kind: kindTermInt},
	{param: "post_author__in", field: "comment_post_author_id", kind: kindTermsIDs},
	{param: "post_author__not_in", field: "comment_post_author_id", kind: kindTermsIDs, exclude: true},
	{param: "post_id", field: "comment_post_ID", kind: kindTermInt},
	{param: "post__in", field: "comment_post_ID", kind: kindTermsIDs},
	{param: "post__not_in", field: "comment_post_ID", kind: kindTermsIDs, exclude: true},
	{param: "post_name", field: "comment_post_name.raw", kind: kindTermString},
	{param: "post_parent", field: "comment_post_parent", kind: kindTermInt},
	{param: "post_status", field: "comment_post_status", kind: kindStringsAuto},
	{param: "post_type", field: "comment_post_type.raw", kind: kindStringsAuto},
	{param: "status", field: "comment_approved", kind: kindStatus},
	{param: "type", field: "comment_type.raw", kind: kindStringsAuto},
	{param: "type__in", field: "comment_type.raw", kind: kindTermsStrings},
	{param: "type__not_in", field: "comment_type.raw", kind: kindTermsStrings, exclude: true},
	{param: "date_query", kind: kindDate},
}

// state accumulates one compilation pass.
type state struct {
	must   []esdsl.Node
	source *esdsl.Source
}

func (st *state) add(node esdsl.Node, exclude bool) {
	if exclude {
		node = &esdsl.Bool{MustNot: []esdsl.Node{node}}
	}
	st.must = append(st.must, node)
}

// Compile resolves pagination, sort, every filter dimension, and the
// relevance query for req. It never fails and never mutates req.
func (c *Compiler) Compile(req filter.Request) *esdsl.Query {
	size := c.window
	if !req.Empty("number") {
		size = req.Int("number")
	}
	if size < 0 {
		size = 0
	}

	from := 0
	switch {
	case req.NotBlank("offset"):
		from = req.Int("offset")
	case req.Int("page") > 1:
		from = size * (req.Int("page") - 1)
	}
	if from < 0 {
		from = 0
	}

	st := &state{}
	for _, dim := range dimensions {
		c.appendDimension(st, req, dim)
	}

	alias := orderby.DefaultAlias
	if !req.Empty("order_by") {
		alias = req.String("order_by")
	}

	q := &esdsl.Query{
		From: from,
		Size: size,
		Sort: orderby.Resolve(alias, orderby.ParseDirection(req.String("order")), req),
	}

	if req.Empty("search") {
		q.Query = esdsl.MatchAll{Boost: 1}
	} else {
		q.Query = c.relevance.Build(req.String("search"), req)
	}

	if len(st.must) > 0 {
		q.PostFilter = &esdsl.Bool{Must: st.must}
	}
	q.Source = st.source
	return q
}

// appendDimension processes one table entry against the request.
func (c *Compiler) appendDimension(st *state, req filter.Request, dim dimension) {
	switch dim.kind {
	case kindTermString:
		if req.Empty(dim.param) {
			return
		}
		st.add(esdsl.Term{Field: dim.field, Value: req.String(dim.param)}, dim.exclude)
	case kindTermInt:
		if req.Empty(dim.param) {
			return
		}
		st.add(esdsl.Term{Field: dim.field, Value: req.Int(dim.param)}, dim.exclude)
	case kindTermsIDs:
		if req.Empty(dim.param) {
			return
		}
		st.add(esdsl.Terms{Field: dim.field, Values: intValues(req.Ints(dim.param))}, dim.exclude)
	case kindTermsStrings:
		values := req.Strings(dim.param)
		if len(values) == 0 {
			return
		}
		st.add(esdsl.Terms{Field: dim.field, Values: stringValues(values)}, dim.exclude)
	case kindStringsAuto:
		values := req.Strings(dim.param)
		switch len(values) {
		case 0:
		case 1:
			st.add(esdsl.Term{Field: dim.field, Value: values[0]}, dim.exclude)
		default:
			st.add(esdsl.Terms{Field: dim.field, Values: stringValues(values)}, dim.exclude)
		}
	case kindProjection:
		c.appendProjection(st, req, dim)
	case kindKarma:
		c.appendKarma(st, req, dim)
	case kindParent:
		c.appendParent(st, req, dim)
	case kindMeta:
		c.appendMeta(st, req)
	case kindStatus:
		c.appendStatus(st, req, dim)
	case kindDate:
		c.appendDate(st, req)
	}
}

// appendProjection narrows the result projection to the identifier field
// when the caller asked for ids only.
func (c *Compiler) appendProjection(st *state, req filter.Request, _ dimension) {
	if req.String("fields") == "ids" {
		st.source = &esdsl.Source{Includes: []string{"comment_ID"}}
	}
}

// appendKarma activates on any numeric value, zero included, or on a
// non-empty string other than "0".
func (c *Compiler) appendKarma(st *state, req filter.Request, dim dimension) {
	if req.Empty(dim.param) && !req.ZeroNumber(dim.param) {
		return
	}
	st.add(esdsl.Term{Field: dim.field, Value: req.Int(dim.param)}, false)
}

// appendParent emits the parent filter. The hierarchical flag pins the
// parent to the root value only when no explicit parent is supplied.
func (c *Compiler) appendParent(st *state, req filter.Request, dim dimension) {
	active := req.NotBlank(dim.param)
	if !active && !req.Empty("hierarchical") {
		active = true
	}
	if !active {
		return
	}
	st.add(esdsl.Term{Field: dim.field, Value: req.Int(dim.param)}, false)
}

// appendMeta merges the {meta_key, meta_value} shorthand with the
// structured meta_query list, shorthand first, and delegates to the meta
// collaborator. A key-only shorthand compiles as an existence test.
func (c *Compiler) appendMeta(st *state, req filter.Request) {
	var clauses []metaquery.Clause
	if !req.Empty("meta_key") {
		clause := metaquery.Clause{Key: req.String("meta_key")}
		if req.NotBlank("meta_value") {
			clause.Value = req.Raw("meta_value")
		} else {
			clause.Compare = "EXISTS"
		}
		clauses = append(clauses, clause)
	}

	parsed := metaquery.ParseQuery(req.Raw("meta_query"))
	clauses = append(clauses, parsed.Clauses...)
	if len(clauses) == 0 {
		return
	}

	node := c.meta.Compile(metaquery.Query{Relation: parsed.Relation, Clauses: clauses})
	if node == nil || node.Empty() {
		return
	}
	st.must = append(st.must, node)
}

// appendStatus maps moderation literals to their integer encoding and
// applies the unapproved-identifier override when requested. The "all"
// literal disables the dimension.
func (c *Compiler) appendStatus(st *state, req filter.Request, dim dimension) {
	raw := req.Strings(dim.param)
	if len(raw) == 0 {
		return
	}
	for _, status := range raw {
		if status == "all" {
			return
		}
	}

	values := make([]any, 0, len(raw))
	for _, status := range raw {
		switch status {
		case "hold":
			values = append(values, 0)
		case "approve":
			values = append(values, 1)
		default:
			values = append(values, status)
		}
	}

	var node esdsl.Node
	if len(values) == 1 {
		node = esdsl.Term{Field: dim.field, Value: values[0]}
	} else {
		node = esdsl.Terms{Field: dim.field, Values: values}
	}

	if !req.Empty("include_unapproved") {
		ids, emails := splitIdentifiers(req.Strings("include_unapproved"))
		node = &esdsl.Bool{Should: []esdsl.Node{
			node,
			esdsl.Terms{Field: "user_id", Values: ids},
			esdsl.Terms{Field: "comment_author_email.raw", Values: emails},
		}}
	}
	st.must = append(st.must, node)
}

// appendDate hands the temporal sub-query to the date collaborator and
// keeps only its And fragment.
func (c *Compiler) appendDate(st *state, req filter.Request) {
	if req.Empty("date_query") {
		return
	}
	parsed := datequery.ParseQuery(req.Raw("date_query"))
	if parsed.Empty() {
		return
	}
	compiled := c.date.Compile(parsed)
	if compiled.And == nil || compiled.And.Empty() {
		return
	}
	st.must = append(st.must, compiled.And)
}

// splitIdentifiers classifies unapproved identifiers: numeric-looking
// entries become user ids, everything else is kept as an author email.
func splitIdentifiers(list []string) (ids, emails []any) {
	for _, ident := range list {
		if parsed, err := strconv.ParseFloat(ident, 64); err == nil {
			ids = append(ids, int(parsed))
		} else {
			emails = append(emails, ident)
		}
	}
	return ids, emails
}

func intValues(in []int) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func stringValues(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
