// Package commentdex compiles flat comment query arguments into search
// engine JSON requests and serves the index mapping artifacts those
// requests assume.
package commentdex

import (
	"encoding/json"
	"fmt"

	"github.com/commentdex/commentdex/internal/domain/compiler"
	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/domain/relevance"
	"github.com/commentdex/commentdex/internal/schema"
)

// Translator is the commentdex SDK entry point. Stateless and safe for
// concurrent use.
type Translator struct {
	compiler *compiler.Compiler
}

// New creates a Translator.
func New(opts ...Option) *Translator {
	cfg := &translatorConfig{}
	for _, o := range opts {
		o(cfg)
	}

	relOpts := []relevance.Option{relevance.WithFields(cfg.fields)}
	if cfg.phraseBoost > 0 {
		relOpts = append(relOpts, relevance.WithPhraseBoost(cfg.phraseBoost))
	}
	if cfg.termBoost > 0 {
		relOpts = append(relOpts, relevance.WithTermBoost(cfg.termBoost))
	}
	if cfg.fuzziness > 0 {
		relOpts = append(relOpts, relevance.WithFuzziness(cfg.fuzziness))
	}

	return &Translator{
		compiler: compiler.New(
			compiler.WithMaxResultWindow(cfg.maxResultWindow),
			compiler.WithRelevance(relevance.New(relOpts...)),
		),
	}
}

// Translate compiles args into the search request body. Compilation is
// permissive: malformed values deactivate their dimension instead of
// failing.
func (t *Translator) Translate(args map[string]any) (json.RawMessage, error) {
	q := t.compiler.Compile(filter.New(args))
	raw, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("commentdex: encode request: %w", err)
	}
	return raw, nil
}

// TranslateQuery compiles a fluently built request.
func (t *Translator) TranslateQuery(r *Request) (json.RawMessage, error) {
	return t.Translate(r.Args())
}

// Mapping returns the index mapping artifact for a backend version. An
// empty version selects the default.
func Mapping(version string) (json.RawMessage, error) {
	raw, err := schema.Mapping(version)
	if err != nil {
		return nil, fmt.Errorf("commentdex: %w", err)
	}
	return raw, nil
}

// MappingVersions lists the mapping versions this build carries.
func MappingVersions() []string {
	return schema.Versions()
}
