package health

import "context"

// StorePinger checks record store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// QueuePinger checks dirty-queue availability.
type QueuePinger interface {
	Ping(ctx context.Context) error
}
