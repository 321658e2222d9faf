// Package store defines the record-store contracts the engine consumes.
package store

import (
	"context"
	"errors"

	"github.com/commentdex/commentdex/internal/domain/comment"
)

// ErrNotFound marks a missing comment row.
var ErrNotFound = errors.New("store: comment not found")

// CommentSource reads stored comments for indexing.
type CommentSource interface {
	// FetchRange returns up to limit comments with ids greater than
	// afterID, ordered by id ascending.
	FetchRange(ctx context.Context, afterID int64, limit int) ([]comment.Comment, error)
	// Get returns one comment, or ErrNotFound.
	Get(ctx context.Context, id int64) (*comment.Comment, error)
	// Count returns the number of stored comments.
	Count(ctx context.Context) (int64, error)
}

// Pinger reports backend liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
