package compiler

import (
	"github.com/commentdex/commentdex/internal/domain/datequery"
	"github.com/commentdex/commentdex/internal/domain/metaquery"
	"github.com/commentdex/commentdex/internal/esdsl"
)

type fakeMetaCompiler struct {
	compileFunc func(q metaquery.Query) *esdsl.Bool
}

func (f *fakeMetaCompiler) Compile(q metaquery.Query) *esdsl.Bool {
	return f.compileFunc(q)
}

type fakeDateCompiler struct {
	compileFunc func(q datequery.Query) datequery.Filter
}

func (f *fakeDateCompiler) Compile(q datequery.Query) datequery.Filter {
	return f.compileFunc(q)
}
