package translate

import (
	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
)

// QueryCompiler turns a filter request into an engine query.
type QueryCompiler interface {
	Compile(req filter.Request) *esdsl.Query
}
