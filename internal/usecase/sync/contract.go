package sync

import (
	"context"

	"github.com/commentdex/commentdex/internal/bulk"
	"github.com/commentdex/commentdex/internal/domain/comment"
)

// Source reads comment records from the system of record.
type Source interface {
	Get(ctx context.Context, id int64) (*comment.Comment, error)
	FetchRange(ctx context.Context, afterID int64, limit int) ([]comment.Comment, error)
}

// Queue hands out comment ids awaiting re-index.
type Queue interface {
	Add(ctx context.Context, ids ...int64) error
	Pop(ctx context.Context, n int) ([]int64, error)
	Len(ctx context.Context) (int64, error)
}

// Sink receives assembled bulk payloads.
type Sink interface {
	Write(ctx context.Context, payload bulk.Payload) error
}
