// Package maintenance hosts the background upkeep routines for the token
// store: purging long-expired access token rows and keeping the access
// cache coherent while doing so.
package maintenance

import (
	"context"
	"fmt"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-oauth-store/core"
)

const (
	// JobIDTokenPurge is the queue job identifier for scheduled purges.
	JobIDTokenPurge = "oauth.tokens.purge"

	defaultPurgeBatchSize = 500
)

// Purger removes access token rows whose expiration lies further in the
// past than the retention window. Expired rows are invisible to reads
// already; purging only reclaims storage, so it always runs against the
// store first and treats cache invalidation as best effort.
type Purger struct {
	tokens    core.AccessTokenStore
	cache     core.AccessCache
	logger    glog.Logger
	retention time.Duration
	batchSize int
	enqueuer  core.JobEnqueuer
	clock     func() time.Time
}

type PurgerOption func(*Purger)

func WithPurgerLogger(logger glog.Logger) PurgerOption {
	return func(p *Purger) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithPurgerCache(cache core.AccessCache) PurgerOption {
	return func(p *Purger) {
		if cache != nil {
			p.cache = cache
		}
	}
}

func WithPurgerBatchSize(size int) PurgerOption {
	return func(p *Purger) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

func WithPurgerEnqueuer(enqueuer core.JobEnqueuer) PurgerOption {
	return func(p *Purger) {
		if enqueuer != nil {
			p.enqueuer = enqueuer
		}
	}
}

func WithPurgerClock(clock func() time.Time) PurgerOption {
	return func(p *Purger) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func NewPurger(tokens core.AccessTokenStore, retention time.Duration, opts ...PurgerOption) (*Purger, error) {
	if tokens == nil {
		return nil, fmt.Errorf("maintenance: access token store is required")
	}
	if retention <= 0 {
		return nil, fmt.Errorf("maintenance: retention must be positive")
	}
	purger := &Purger{
		tokens:    tokens,
		logger:    glog.Nop(),
		retention: retention,
		batchSize: defaultPurgeBatchSize,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(purger)
	}
	return purger, nil
}

// Run deletes every token that expired before now minus the retention
// window and evicts the matching cache entries. Returns the number of
// deleted rows.
func (p *Purger) Run(ctx context.Context) (int64, error) {
	if p == nil || p.tokens == nil {
		return 0, fmt.Errorf("maintenance: purger is not configured")
	}
	cutoff := p.clock().Add(-p.retention)

	if p.cache != nil {
		expired, err := p.tokens.ListExpiredBefore(ctx, cutoff, p.batchSize)
		if err != nil {
			return 0, err
		}
		for _, token := range expired {
			key := core.AccessTokenCacheKey(token.Token)
			if err := p.cache.Delete(ctx, key); err != nil {
				p.logger.Warn("purge cache eviction failed", "key", key, "error", err)
			}
		}
	}

	deleted, err := p.tokens.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		p.logger.Info("purged expired access tokens", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// Schedule enqueues a purge execution for the queue worker. The
// idempotency key pins one purge per cutoff hour so overlapping
// schedulers collapse into a single run.
func (p *Purger) Schedule(ctx context.Context) error {
	if p == nil {
		return fmt.Errorf("maintenance: purger is not configured")
	}
	if p.enqueuer == nil {
		return fmt.Errorf("maintenance: job enqueuer is not configured")
	}
	cutoff := p.clock().Add(-p.retention)
	return p.enqueuer.Enqueue(ctx, &core.JobExecutionMessage{
		JobID: JobIDTokenPurge,
		Parameters: map[string]any{
			"cutoff": cutoff.Format(time.RFC3339),
		},
		IdempotencyKey: fmt.Sprintf("%s:%s", JobIDTokenPurge, cutoff.Truncate(time.Hour).Format(time.RFC3339)),
		DedupPolicy:    "drop",
	})
}

// Handle processes one queue delivery: run the purge, ack on success,
// nack with requeue on failure.
func (p *Purger) Handle(ctx context.Context, delivery core.JobDelivery) error {
	if p == nil {
		return fmt.Errorf("maintenance: purger is not configured")
	}
	if delivery == nil {
		return fmt.Errorf("maintenance: job delivery is required")
	}

	if _, err := p.Run(ctx); err != nil {
		nackErr := delivery.Nack(ctx, core.JobNackOptions{
			Delay:   time.Minute,
			Requeue: true,
			Reason:  err.Error(),
		})
		if nackErr != nil {
			p.logger.Error("purge nack failed", "error", nackErr)
		}
		return err
	}
	return delivery.Ack(ctx)
}
