package compiler

import (
	"github.com/commentdex/commentdex/internal/domain/datequery"
	"github.com/commentdex/commentdex/internal/domain/metaquery"
	"github.com/commentdex/commentdex/internal/esdsl"
)

// MetaCompiler turns a structured meta sub-query into one boolean filter
// fragment. A nil result means nothing compiled.
type MetaCompiler interface {
	Compile(q metaquery.Query) *esdsl.Bool
}

// DateCompiler turns a temporal sub-query into filter fragments keyed by
// join mode. Only the And fragment feeds the filter tree here.
type DateCompiler interface {
	Compile(q datequery.Query) datequery.Filter
}
