package translate

import (
	"context"
	"testing"

	"github.com/commentdex/commentdex/internal/domain/compiler"
	"github.com/commentdex/commentdex/internal/domain/filter"
	"github.com/commentdex/commentdex/internal/esdsl"
)

type mockCompiler struct {
	result   *esdsl.Query
	captured filter.Request
}

func (m *mockCompiler) Compile(req filter.Request) *esdsl.Query {
	m.captured = req
	return m.result
}

func TestTranslate_DelegatesToCompiler(t *testing.T) {
	want := &esdsl.Query{Size: 42, Query: esdsl.MatchAll{Boost: 1}}
	mock := &mockCompiler{result: want}
	svc := New(mock)

	got := svc.Translate(context.Background(), map[string]any{"post_id": 7})
	if got != want {
		t.Fatal("expected the compiler result to pass through unchanged")
	}
	if mock.captured.Int("post_id") != 7 {
		t.Errorf("expected post_id=7 in the captured request, got %d", mock.captured.Int("post_id"))
	}
}

func TestTranslate_RealCompilerRoundTrip(t *testing.T) {
	svc := New(compiler.New())

	q := svc.Translate(context.Background(), map[string]any{
		"status": "approve",
		"number": 5,
	})

	if q.Size != 5 {
		t.Errorf("expected size 5, got %d", q.Size)
	}
	if q.PostFilter == nil || len(q.PostFilter.Must) != 1 {
		t.Fatalf("expected one active filter dimension, got %+v", q.PostFilter)
	}
}

func TestTranslate_NilParams(t *testing.T) {
	svc := New(compiler.New())

	q := svc.Translate(context.Background(), nil)
	if q.PostFilter != nil {
		t.Errorf("expected no post filter for empty params, got %+v", q.PostFilter)
	}
}
