// Package queue defines the dirty-id queue contract: comment ids
// awaiting re-index after a write.
package queue

import "context"

// Op constants map to Redis command names for error context.
const (
	OpAdd  = "SADD"
	OpPop  = "SPOP"
	OpLen  = "SCARD"
	OpPing = "PING"
)

// Queue holds comment ids awaiting re-index. Duplicate ids collapse.
type Queue interface {
	// Add enqueues ids.
	Add(ctx context.Context, ids ...int64) error
	// Pop removes and returns up to n ids, in no particular order.
	Pop(ctx context.Context, n int) ([]int64, error)
	// Len returns the queue depth.
	Len(ctx context.Context) (int64, error)
	// Ping reports backend liveness.
	Ping(ctx context.Context) error
}

// Error wraps an underlying error with the command name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
