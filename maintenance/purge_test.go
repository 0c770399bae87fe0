package maintenance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-oauth-store/core"
)

type stubTokenStore struct {
	mu            sync.Mutex
	expired       []core.AccessToken
	deleted       int64
	listCalls     int
	deleteCalls   int
	listErr       error
	deleteErr     error
	deletedBefore time.Time
}

func (s *stubTokenStore) GetByToken(context.Context, string) (core.AccessToken, bool, error) {
	return core.AccessToken{}, false, nil
}

func (s *stubTokenStore) Create(_ context.Context, token core.AccessToken) (core.AccessToken, error) {
	return token, nil
}

func (s *stubTokenStore) ExpireByToken(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func (s *stubTokenStore) ListActiveByUser(context.Context, int64, time.Time) ([]core.AccessToken, error) {
	return nil, nil
}

func (s *stubTokenStore) ExpireByUser(context.Context, int64, time.Time) (int64, error) {
	return 0, nil
}

func (s *stubTokenStore) ListByUser(context.Context, int64) ([]core.AccessToken, error) {
	return nil, nil
}

func (s *stubTokenStore) DeleteByUser(context.Context, int64) (int64, error) {
	return 0, nil
}

func (s *stubTokenStore) FindValid(context.Context, time.Time) (core.AccessToken, bool, error) {
	return core.AccessToken{}, false, nil
}

func (s *stubTokenStore) ListExpiredBefore(_ context.Context, _ time.Time, _ int) ([]core.AccessToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]core.AccessToken(nil), s.expired...), nil
}

func (s *stubTokenStore) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	s.deletedBefore = cutoff
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	return s.deleted, nil
}

type recordingCache struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (c *recordingCache) GetOrFetch(ctx context.Context, _ string, fetch func(context.Context) (any, error)) (any, error) {
	return fetch(ctx)
}

func (c *recordingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *recordingCache) Clear(context.Context) error { return nil }

type stubEnqueuer struct {
	last *core.JobExecutionMessage
}

func (e *stubEnqueuer) Enqueue(_ context.Context, msg *core.JobExecutionMessage) error {
	e.last = msg
	return nil
}

type stubDelivery struct {
	msg      *core.JobExecutionMessage
	acked    bool
	nackOpts core.JobNackOptions
	nacked   bool
}

func (d *stubDelivery) Message() *core.JobExecutionMessage { return d.msg }

func (d *stubDelivery) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *stubDelivery) Nack(_ context.Context, opts core.JobNackOptions) error {
	d.nacked = true
	d.nackOpts = opts
	return nil
}

func TestPurger_RunDeletesAndEvictsCache(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubTokenStore{
		expired: []core.AccessToken{
			{Token: "old_1"},
			{Token: "old_2"},
		},
		deleted: 2,
	}
	cache := &recordingCache{}

	purger, err := NewPurger(store, 24*time.Hour,
		WithPurgerCache(cache),
		WithPurgerClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	deleted, err := purger.Run(context.Background())
	if err != nil {
		t.Fatalf("run purge: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted rows, got %d", deleted)
	}
	if store.listCalls != 1 || store.deleteCalls != 1 {
		t.Fatalf("expected one list and one delete call, got %d/%d", store.listCalls, store.deleteCalls)
	}
	wantCutoff := now.Add(-24 * time.Hour)
	if !store.deletedBefore.Equal(wantCutoff) {
		t.Fatalf("expected cutoff %s, got %s", wantCutoff, store.deletedBefore)
	}
	if len(cache.deleted) != 2 {
		t.Fatalf("expected 2 cache evictions, got %d", len(cache.deleted))
	}
	if cache.deleted[0] != core.AccessTokenCacheKey("old_1") {
		t.Fatalf("expected token cache key eviction, got %q", cache.deleted[0])
	}
}

func TestPurger_RunWithoutCacheSkipsListing(t *testing.T) {
	store := &stubTokenStore{deleted: 5}
	purger, err := NewPurger(store, time.Hour)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	deleted, err := purger.Run(context.Background())
	if err != nil {
		t.Fatalf("run purge: %v", err)
	}
	if deleted != 5 {
		t.Fatalf("expected 5 deleted rows, got %d", deleted)
	}
	if store.listCalls != 0 {
		t.Fatalf("expected no listing without a cache, got %d calls", store.listCalls)
	}
}

func TestPurger_CacheEvictionFailureDoesNotBlockDelete(t *testing.T) {
	store := &stubTokenStore{
		expired: []core.AccessToken{{Token: "old_1"}},
		deleted: 1,
	}
	cache := &recordingCache{err: errors.New("cache offline")}

	purger, err := NewPurger(store, time.Hour, WithPurgerCache(cache))
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	deleted, err := purger.Run(context.Background())
	if err != nil {
		t.Fatalf("expected purge to survive cache failure: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted row, got %d", deleted)
	}
}

func TestPurger_ScheduleEnqueuesIdempotentJob(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC)
	store := &stubTokenStore{}
	enqueuer := &stubEnqueuer{}

	purger, err := NewPurger(store, 24*time.Hour,
		WithPurgerEnqueuer(enqueuer),
		WithPurgerClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	if err := purger.Schedule(context.Background()); err != nil {
		t.Fatalf("schedule purge: %v", err)
	}
	if enqueuer.last == nil {
		t.Fatalf("expected enqueued message")
	}
	if enqueuer.last.JobID != JobIDTokenPurge {
		t.Fatalf("expected purge job id, got %q", enqueuer.last.JobID)
	}
	if enqueuer.last.IdempotencyKey == "" {
		t.Fatalf("expected idempotency key")
	}
	if enqueuer.last.Parameters["cutoff"] == "" {
		t.Fatalf("expected cutoff parameter")
	}
}

func TestPurger_HandleAcksOnSuccessNacksOnFailure(t *testing.T) {
	store := &stubTokenStore{deleted: 1}
	purger, err := NewPurger(store, time.Hour)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	delivery := &stubDelivery{msg: &core.JobExecutionMessage{JobID: JobIDTokenPurge}}
	if err := purger.Handle(context.Background(), delivery); err != nil {
		t.Fatalf("handle delivery: %v", err)
	}
	if !delivery.acked {
		t.Fatalf("expected delivery ack on success")
	}

	store.deleteErr = errors.New("db offline")
	failing := &stubDelivery{msg: &core.JobExecutionMessage{JobID: JobIDTokenPurge}}
	if err := purger.Handle(context.Background(), failing); err == nil {
		t.Fatalf("expected purge failure to propagate")
	}
	if !failing.nacked {
		t.Fatalf("expected delivery nack on failure")
	}
	if !failing.nackOpts.Requeue {
		t.Fatalf("expected requeue on failure")
	}
}
