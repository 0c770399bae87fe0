package maintenance

import (
	"context"
	"errors"
	"testing"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-oauth-store/adapters/gologger"
	"github.com/goliatone/go-oauth-store/core"
)

type queueEnqueuerStub struct {
	last *job.ExecutionMessage
}

func (s *queueEnqueuerStub) Enqueue(_ context.Context, msg *job.ExecutionMessage) error {
	s.last = msg
	return nil
}

type queueDequeuerStub struct {
	delivery queue.Delivery
	err      error
}

func (s *queueDequeuerStub) Dequeue(context.Context) (queue.Delivery, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.delivery, nil
}

type queueDeliveryStub struct {
	msg      *job.ExecutionMessage
	acked    bool
	nacked   bool
	nackOpts queue.NackOptions
}

func (s *queueDeliveryStub) Message() *job.ExecutionMessage { return s.msg }

func (s *queueDeliveryStub) Ack(context.Context) error {
	s.acked = true
	return nil
}

func (s *queueDeliveryStub) Nack(_ context.Context, opts queue.NackOptions) error {
	s.nacked = true
	s.nackOpts = opts
	return nil
}

type hookRecorder struct {
	started   []core.JobWorkerEvent
	succeeded []core.JobWorkerEvent
	failed    []core.JobWorkerEvent
	retried   []core.JobWorkerEvent
}

func (h *hookRecorder) OnStart(_ context.Context, event core.JobWorkerEvent) {
	h.started = append(h.started, event)
}

func (h *hookRecorder) OnSuccess(_ context.Context, event core.JobWorkerEvent) {
	h.succeeded = append(h.succeeded, event)
}

func (h *hookRecorder) OnFailure(_ context.Context, event core.JobWorkerEvent) {
	h.failed = append(h.failed, event)
}

func (h *hookRecorder) OnRetry(_ context.Context, event core.JobWorkerEvent) {
	h.retried = append(h.retried, event)
}

type namedProviderStub struct {
	lastName string
}

func (p *namedProviderStub) GetLogger(name string) glog.Logger {
	p.lastName = name
	return glog.Nop()
}

func TestWithPurgerQueue_SchedulePublishesThroughBroker(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC)
	broker := &queueEnqueuerStub{}
	purger, err := NewPurger(&stubTokenStore{}, 24*time.Hour,
		WithPurgerClock(func() time.Time { return now }),
		WithPurgerQueue(broker),
	)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	if err := purger.Schedule(context.Background()); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if broker.last == nil {
		t.Fatalf("expected job message on the queue")
	}
	if broker.last.JobID != JobIDTokenPurge {
		t.Fatalf("expected job id %q, got %q", JobIDTokenPurge, broker.last.JobID)
	}
	cutoff := now.Add(-24 * time.Hour)
	wantKey := JobIDTokenPurge + ":" + cutoff.Truncate(time.Hour).Format(time.RFC3339)
	if broker.last.IdempotencyKey != wantKey {
		t.Fatalf("expected idempotency key %q, got %q", wantKey, broker.last.IdempotencyKey)
	}
	if string(broker.last.DedupPolicy) != "drop" {
		t.Fatalf("expected drop dedup policy, got %q", broker.last.DedupPolicy)
	}
}

func TestQueueWorker_RunOncePurgesAndAcks(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubTokenStore{deleted: 3}
	purger, err := NewPurger(store, 24*time.Hour,
		WithPurgerClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	rawDelivery := &queueDeliveryStub{
		msg: &job.ExecutionMessage{JobID: JobIDTokenPurge},
	}
	hook := &hookRecorder{}
	provider := &namedProviderStub{}
	worker, err := NewQueueWorker(purger, QueueWorkerConfig{
		Dequeuer:       &queueDequeuerStub{delivery: rawDelivery},
		Hook:           hook,
		LoggerProvider: provider,
	})
	if err != nil {
		t.Fatalf("new queue worker: %v", err)
	}
	if provider.lastName != gologger.DefaultLoggerName {
		t.Fatalf("expected logger resolved under %q, got %q", gologger.DefaultLoggerName, provider.lastName)
	}
	if worker.JobLogger() == nil {
		t.Fatalf("expected go-job logger bridge")
	}

	if err := worker.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if store.deleteCalls != 1 {
		t.Fatalf("expected one delete pass, got %d", store.deleteCalls)
	}
	if !rawDelivery.acked {
		t.Fatalf("expected ack on the underlying queue delivery")
	}
	if len(hook.started) != 1 || len(hook.succeeded) != 1 || len(hook.failed) != 0 {
		t.Fatalf("expected start+success hooks, got %d/%d/%d",
			len(hook.started), len(hook.succeeded), len(hook.failed))
	}
	if hook.succeeded[0].Message == nil || hook.succeeded[0].Message.JobID != JobIDTokenPurge {
		t.Fatalf("expected purge message on the success event")
	}
}

func TestQueueWorker_RunOnceFailureNacksAndReports(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubTokenStore{deleteErr: errors.New("db unavailable")}
	purger, err := NewPurger(store, 24*time.Hour,
		WithPurgerClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}

	rawDelivery := &queueDeliveryStub{
		msg: &job.ExecutionMessage{JobID: JobIDTokenPurge},
	}
	hook := &hookRecorder{}
	worker, err := NewQueueWorker(purger, QueueWorkerConfig{
		Dequeuer: &queueDequeuerStub{delivery: rawDelivery},
		Hook:     hook,
	})
	if err != nil {
		t.Fatalf("new queue worker: %v", err)
	}

	if err := worker.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected purge failure to surface")
	}
	if !rawDelivery.nacked {
		t.Fatalf("expected nack on the underlying queue delivery")
	}
	if !rawDelivery.nackOpts.Requeue {
		t.Fatalf("expected failed purge to be requeued")
	}
	if rawDelivery.nackOpts.Delay != time.Minute {
		t.Fatalf("expected a one minute retry delay, got %s", rawDelivery.nackOpts.Delay)
	}
	if len(hook.failed) != 1 || hook.failed[0].Err == nil {
		t.Fatalf("expected failure hook with the purge error")
	}
}

func TestQueueWorker_RunOnceDequeueErrorSkipsHooks(t *testing.T) {
	purger, err := NewPurger(&stubTokenStore{}, 24*time.Hour)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}
	hook := &hookRecorder{}
	worker, err := NewQueueWorker(purger, QueueWorkerConfig{
		Dequeuer: &queueDequeuerStub{err: errors.New("queue closed")},
		Hook:     hook,
	})
	if err != nil {
		t.Fatalf("new queue worker: %v", err)
	}

	if err := worker.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected dequeue error to surface")
	}
	if len(hook.started) != 0 {
		t.Fatalf("expected no hook events on a dequeue error")
	}
}

func TestNewQueueWorker_Validation(t *testing.T) {
	purger, err := NewPurger(&stubTokenStore{}, time.Hour)
	if err != nil {
		t.Fatalf("new purger: %v", err)
	}
	if _, err := NewQueueWorker(nil, QueueWorkerConfig{Dequeuer: &queueDequeuerStub{}}); err == nil {
		t.Fatalf("expected error for nil purger")
	}
	if _, err := NewQueueWorker(purger, QueueWorkerConfig{}); err == nil {
		t.Fatalf("expected error for missing dequeuer")
	}
}
