// Package sync moves comment records from the store into bulk index
// payloads, either by draining the dirty queue or by walking the whole
// store.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/commentdex/commentdex/internal/bulk"
	"github.com/commentdex/commentdex/internal/domain/comment"
	"github.com/commentdex/commentdex/internal/logger"
	"github.com/commentdex/commentdex/internal/metrics"
	"github.com/commentdex/commentdex/internal/queue"
	"github.com/commentdex/commentdex/internal/store"
)

// DefaultBatchSize bounds one bulk payload when the caller passes none.
const DefaultBatchSize = 500

// Options control a single sync run.
type Options struct {
	// BatchSize bounds one bulk payload; non-positive falls back to
	// DefaultBatchSize.
	BatchSize int
	// All walks the whole store instead of draining the dirty queue.
	All bool
}

// Report summarizes a sync run. Missing counts dirty ids with no backing
// record; those are emitted as deletes and so also counted in Deleted.
type Report struct {
	RunID   string `json:"run_id"`
	Indexed int    `json:"indexed"`
	Deleted int    `json:"deleted"`
	Missing int    `json:"missing"`
	Batches int    `json:"batches"`
}

// Service coordinates sync runs and dirty-queue bookkeeping.
type Service struct {
	source  Source
	queue   Queue
	index   string
	policy  comment.Policy
	limiter *rate.Limiter
}

// Option overrides one sync knob.
type Option func(*Service)

// WithIndex overrides the target index name.
func WithIndex(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.index = name
		}
	}
}

// WithPolicy sets the metadata indexing policy applied to documents.
func WithPolicy(p comment.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithRateLimit caps batch throughput at perSec batches per second.
// Non-positive perSec leaves the run unthrottled.
func WithRateLimit(perSec float64, burst int) Option {
	return func(s *Service) {
		if perSec <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// New creates a sync service.
func New(source Source, q Queue, opts ...Option) *Service {
	s := &Service{
		source: source,
		queue:  q,
		index:  "comments",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one sync pass, writing every assembled payload to sink,
// and reports what it wrote. The context is checked between batches, so
// cancellation loses at most one batch of progress.
func (s *Service) Run(ctx context.Context, sink Sink, opts Options) (Report, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	report := Report{RunID: uuid.NewString()}
	log := logger.FromContext(ctx).With(
		zap.String("run_id", report.RunID),
		zap.Bool("all", opts.All),
		zap.Int("batch_size", batchSize),
	)
	log.Info("sync run started")

	var err error
	if opts.All {
		err = s.runFull(ctx, sink, batchSize, &report)
	} else {
		err = s.runDirty(ctx, sink, batchSize, &report)
	}
	if err != nil {
		log.Error("sync run failed",
			zap.Error(err),
			zap.Int("indexed", report.Indexed),
			zap.Int("deleted", report.Deleted),
		)
		return report, err
	}

	log.Info("sync run finished",
		zap.Int("indexed", report.Indexed),
		zap.Int("deleted", report.Deleted),
		zap.Int("missing", report.Missing),
		zap.Int("batches", report.Batches),
	)
	return report, nil
}

// runFull pages the whole store by primary key and indexes every record.
func (s *Service) runFull(ctx context.Context, sink Sink, batchSize int, report *Report) error {
	var afterID int64
	for {
		if err := s.pace(ctx); err != nil {
			return err
		}

		comments, err := s.source.FetchRange(ctx, afterID, batchSize)
		if err != nil {
			return fmt.Errorf("fetch range after %d: %w", afterID, err)
		}
		if len(comments) == 0 {
			return nil
		}

		builder := bulk.NewBuilder(s.index)
		for i := range comments {
			builder.Index(comments[i].ID, comments[i].Document(s.policy))
			afterID = comments[i].ID
		}
		if err := s.flush(ctx, sink, builder, report); err != nil {
			return err
		}
		if len(comments) < batchSize {
			return nil
		}
	}
}

// runDirty drains the queue; ids with no backing record become deletes.
func (s *Service) runDirty(ctx context.Context, sink Sink, batchSize int, report *Report) error {
	for {
		if err := s.pace(ctx); err != nil {
			return err
		}

		ids, err := s.queue.Pop(ctx, batchSize)
		if err != nil {
			metrics.QueueOperationsTotal.WithLabelValues(queue.OpPop, "error").Inc()
			return fmt.Errorf("pop dirty ids: %w", err)
		}
		metrics.QueueOperationsTotal.WithLabelValues(queue.OpPop, "ok").Inc()
		if len(ids) == 0 {
			return nil
		}

		builder := bulk.NewBuilder(s.index)
		for _, id := range ids {
			c, err := s.source.Get(ctx, id)
			if errors.Is(err, store.ErrNotFound) {
				builder.Delete(id)
				report.Missing++
				continue
			}
			if err != nil {
				return fmt.Errorf("load comment %d: %w", id, err)
			}
			builder.Index(c.ID, c.Document(s.policy))
		}
		if err := s.flush(ctx, sink, builder, report); err != nil {
			return err
		}
	}
}

// Enqueue marks ids as dirty. Non-positive ids are dropped; the returned
// count is how many ids were actually queued.
func (s *Service) Enqueue(ctx context.Context, ids []int64) (int, error) {
	valid := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	if err := s.queue.Add(ctx, valid...); err != nil {
		metrics.QueueOperationsTotal.WithLabelValues(queue.OpAdd, "error").Inc()
		return 0, fmt.Errorf("enqueue ids: %w", err)
	}
	metrics.QueueOperationsTotal.WithLabelValues(queue.OpAdd, "ok").Inc()
	return len(valid), nil
}

// Depth returns the number of ids awaiting re-index.
func (s *Service) Depth(ctx context.Context) (int64, error) {
	n, err := s.queue.Len(ctx)
	if err != nil {
		metrics.QueueOperationsTotal.WithLabelValues(queue.OpLen, "error").Inc()
		return 0, fmt.Errorf("queue depth: %w", err)
	}
	metrics.QueueOperationsTotal.WithLabelValues(queue.OpLen, "ok").Inc()
	return n, nil
}

func (s *Service) flush(ctx context.Context, sink Sink, b *bulk.Builder, report *Report) error {
	payload, err := b.Payload()
	if err != nil {
		return fmt.Errorf("assemble bulk payload: %w", err)
	}
	if payload.Empty() {
		return nil
	}

	if err := sink.Write(ctx, payload); err != nil {
		return fmt.Errorf("write bulk payload: %w", err)
	}

	report.Indexed += payload.Indexed
	report.Deleted += payload.Deleted
	report.Batches++
	metrics.SyncBatchesTotal.Inc()
	metrics.SyncDocumentsTotal.WithLabelValues("index").Add(float64(payload.Indexed))
	metrics.SyncDocumentsTotal.WithLabelValues("delete").Add(float64(payload.Deleted))
	return nil
}

// pace blocks until the limiter admits the next batch, or the context
// ends.
func (s *Service) pace(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}
