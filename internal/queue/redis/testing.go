package redis

import "github.com/redis/rueidis"

// NewQueueForTest creates a Queue with the provided rueidis client and
// set key (test-only).
func NewQueueForTest(c rueidis.Client, key string) *Queue {
	return &Queue{client: c, key: key}
}
