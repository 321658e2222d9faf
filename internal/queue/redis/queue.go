// Package redis implements the dirty-id queue on a single Redis set.
package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/commentdex/commentdex/internal/queue"
)

// Compile-time check: Queue implements queue.Queue.
var _ queue.Queue = (*Queue)(nil)

// Config holds connection parameters for the queue.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Queue keeps dirty comment ids in one Redis set.
type Queue struct {
	client rueidis.Client
	key    string
}

// NewQueue creates a Redis-backed queue via rueidis.
func NewQueue(cfg Config) (*Queue, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Queue{client: client, key: dirtyKey(cfg.KeyPrefix)}, nil
}

// dirtyKey namespaces the set under the configured prefix.
func dirtyKey(prefix string) string {
	if prefix == "" {
		prefix = "commentdex"
	}
	return prefix + ":dirty"
}

// Close shuts down the client.
func (q *Queue) Close() {
	q.client.Close()
}

// Add enqueues ids into the dirty set.
func (q *Queue) Add(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]string, len(ids))
	for i, id := range ids {
		members[i] = strconv.FormatInt(id, 10)
	}
	cmd := q.b().Sadd().Key(q.key).Member(members...).Build()
	if err := q.do(ctx, cmd).Error(); err != nil {
		return &queue.Error{Op: queue.OpAdd, Err: err}
	}
	return nil
}

// Pop removes and returns up to n ids. Members that are not numeric are
// discarded.
func (q *Queue) Pop(ctx context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return nil, nil
	}
	cmd := q.b().Spop().Key(q.key).Count(int64(n)).Build()
	members, err := q.do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &queue.Error{Op: queue.OpPop, Err: err}
	}

	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Len returns the dirty-set cardinality.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	cmd := q.b().Scard().Key(q.key).Build()
	n, err := q.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &queue.Error{Op: queue.OpLen, Err: err}
	}
	return n, nil
}

// Ping checks connectivity.
func (q *Queue) Ping(ctx context.Context) error {
	if err := q.do(ctx, q.b().Ping().Build()).Error(); err != nil {
		return &queue.Error{Op: queue.OpPing, Err: err}
	}
	return nil
}

func (q *Queue) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return q.client.Do(ctx, cmd)
}

func (q *Queue) b() rueidis.Builder {
	return q.client.B()
}
