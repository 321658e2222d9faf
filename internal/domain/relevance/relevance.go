// Package relevance builds the free-text scoring query: a fixed cascade of
// phrase, conjunctive, and fuzzy matches so exact phrases rank highest,
// strict term matches next, and typo-tolerant matches last.
package relevance

import (
	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
)

// DefaultFields returns the textual fields searched when a request
// supplies none, in rank order.
func DefaultFields() []string {
	return []string{
		"comment_author",
		"comment_author_email",
		"comment_author_url",
		"comment_author_IP",
		"comment_content",
	}
}

// Builder constructs scoring queries with configured tier weights.
type Builder struct {
	phraseBoost float64
	termBoost   float64
	fuzziness   int
	fields      []string
}

// Option overrides one relevance knob.
type Option func(*Builder)

// WithPhraseBoost overrides the phrase-tier weight.
func WithPhraseBoost(boost float64) Option {
	return func(b *Builder) { b.phraseBoost = boost }
}

// WithTermBoost overrides the conjunctive-tier weight.
func WithTermBoost(boost float64) Option {
	return func(b *Builder) { b.termBoost = boost }
}

// WithFuzziness overrides the fuzzy-tier edit distance.
func WithFuzziness(fuzziness int) Option {
	return func(b *Builder) { b.fuzziness = fuzziness }
}

// WithFields overrides the default search-field set.
func WithFields(fields []string) Option {
	return func(b *Builder) {
		if len(fields) > 0 {
			b.fields = append([]string(nil), fields...)
		}
	}
}

// New returns a Builder with the default weights: phrase 4, conjunctive 2,
// fuzziness 1.
func New(opts ...Option) *Builder {
	b := &Builder{
		phraseBoost: 4,
		termBoost:   2,
		fuzziness:   1,
		fields:      DefaultFields(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Fields resolves the search-field set for req. A search_fields list is
// used as given; a search_fields mapping may carry explicit fields plus a
// meta key list, each meta key rewritten to its value sub-field and
// appended after the explicit fields. Absent search_fields yields the
// configured default set.
func (b *Builder) Fields(req filter.Request) []string {
	if req.Empty("search_fields") {
		return append([]string(nil), b.fields...)
	}

	if m := req.Map("search_fields"); m != nil {
		sub := filter.New(m)
		fields := sub.Strings("fields")
		for _, key := range sub.Strings("meta") {
			fields = append(fields, "meta."+key+".value")
		}
		return fields
	}
	return req.Strings("search_fields")
}

// Build returns the three-tier scoring query for term.
func (b *Builder) Build(term string, req filter.Request) esdsl.Node {
	fields := b.Fields(req)
	return &esdsl.Bool{
		Should: []esdsl.Node{
			esdsl.MultiMatch{
				Query:  term,
				Fields: fields,
				Type:   "phrase",
				Boost:  b.phraseBoost,
			},
			esdsl.MultiMatch{
				Query:     term,
				Fields:    fields,
				Operator:  "and",
				Fuzziness: esdsl.Int(0),
				Boost:     b.termBoost,
			},
			esdsl.MultiMatch{
				Query:     term,
				Fields:    fields,
				Fuzziness: esdsl.Int(b.fuzziness),
			},
		},
	}
}
