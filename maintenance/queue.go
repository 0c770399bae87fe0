package maintenance

import (
	"context"
	"fmt"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-oauth-store/adapters/gojob"
	"github.com/goliatone/go-oauth-store/adapters/gologger"
	"github.com/goliatone/go-oauth-store/core"
)

// WithPurgerQueue points the purger's scheduler at a go-job queue, so
// Schedule publishes purge jobs through the shared broker instead of a
// host-provided enqueuer.
func WithPurgerQueue(enqueuer queue.Enqueuer) PurgerOption {
	return func(p *Purger) {
		if enqueuer != nil {
			p.enqueuer = gojob.NewEnqueuerAdapter(enqueuer)
		}
	}
}

// QueueWorkerConfig wires a purge worker onto a go-job queue. Dequeuer is
// required; everything else has a working default.
type QueueWorkerConfig struct {
	Dequeuer       queue.Dequeuer
	Retry          gojob.RetryPolicy
	Hook           core.JobWorkerHook
	LoggerProvider glog.LoggerProvider
	Logger         glog.Logger
	Clock          func() time.Time
}

// QueueWorker drains purge deliveries from a go-job queue and runs them
// through a Purger. Hook events fire around each run so hosts can observe
// attempts without reaching into the queue.
type QueueWorker struct {
	purger    *Purger
	dequeuer  core.JobDequeuer
	hook      core.JobWorkerHook
	logger    glog.Logger
	jobLogger job.Logger
	clock     func() time.Time
}

// NewQueueWorker binds a purger to a go-job dequeuer. Logging resolves under
// the store's component name with the usual provider > logger precedence.
func NewQueueWorker(purger *Purger, cfg QueueWorkerConfig) (*QueueWorker, error) {
	if purger == nil {
		return nil, fmt.Errorf("maintenance: purger is required")
	}
	if cfg.Dequeuer == nil {
		return nil, fmt.Errorf("maintenance: queue dequeuer is required")
	}
	_, logger, _, jobLogger := gologger.ResolveForJob(gologger.DefaultLoggerName, cfg.LoggerProvider, cfg.Logger)
	clock := cfg.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &QueueWorker{
		purger:    purger,
		dequeuer:  gojob.NewDequeuerAdapter(cfg.Dequeuer, cfg.Retry),
		hook:      cfg.Hook,
		logger:    logger,
		jobLogger: jobLogger,
		clock:     clock,
	}, nil
}

// JobLogger exposes the go-job logger bridge for hosts registering this
// worker with a go-job runner.
func (w *QueueWorker) JobLogger() job.Logger {
	if w == nil {
		return nil
	}
	return w.jobLogger
}

// RunOnce pulls one delivery and processes it. The purger acks or nacks the
// delivery itself; dequeue errors are returned untouched so callers can back
// off on an empty or failing queue.
func (w *QueueWorker) RunOnce(ctx context.Context) error {
	if w == nil || w.purger == nil || w.dequeuer == nil {
		return fmt.Errorf("maintenance: queue worker is not configured")
	}
	delivery, err := w.dequeuer.Dequeue(ctx)
	if err != nil {
		return err
	}

	started := w.clock()
	event := core.JobWorkerEvent{
		Message:   delivery.Message(),
		Attempt:   1,
		StartedAt: started,
	}
	if w.hook != nil {
		w.hook.OnStart(ctx, event)
	}

	err = w.purger.Handle(ctx, delivery)
	event.Duration = w.clock().Sub(started)
	event.Err = err
	if err != nil {
		w.logger.Error("token purge job failed", "job_id", JobIDTokenPurge, "error", err)
		if w.hook != nil {
			w.hook.OnFailure(ctx, event)
		}
		return err
	}
	if w.hook != nil {
		w.hook.OnSuccess(ctx, event)
	}
	return nil
}
