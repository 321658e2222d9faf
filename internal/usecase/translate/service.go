// Package translate drives the query compiler and instruments each
// translation.
package translate

import (
	"context"

	"go.uber.org/zap"

	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
	"github.com/commentdex/commentdex/internal/logger"
	"github.com/commentdex/commentdex/internal/metrics"
)

// Service handles filter-request translation.
type Service struct {
	compiler QueryCompiler
}

// New creates a translate service.
func New(compiler QueryCompiler) *Service {
	return &Service{compiler: compiler}
}

// Translate compiles a flat parameter map into an engine query.
// Compilation is permissive and never fails; unusable parameters are
// skipped rather than rejected.
func (s *Service) Translate(ctx context.Context, params map[string]any) *esdsl.Query {
	req := filter.New(params)
	q := s.compiler.Compile(req)

	kind := "match_all"
	if req.String("search") != "" {
		kind = "search"
	}
	dims := 0
	if q.PostFilter != nil {
		dims = len(q.PostFilter.Must)
	}

	metrics.TranslationsTotal.WithLabelValues(kind).Inc()
	metrics.TranslationDimensions.Observe(float64(dims))

	logger.FromContext(ctx).Debug("translated filter request",
		zap.String("query", kind),
		zap.Int("dimensions", dims),
		zap.Int("from", q.From),
		zap.Int("size", q.Size),
	)

	return q
}
