package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// ClientStore resolves client registrations. Absence is reported through
// the boolean, never as an error.
type ClientStore interface {
	GetByClientID(ctx context.Context, clientID string) (Client, bool, error)
}

// PublicKeyStore resolves the public key record registered for a client.
type PublicKeyStore interface {
	GetByClientID(ctx context.Context, clientID string) (PublicKey, bool, error)
}

// UserStore resolves users by email for the user-credential delegation
// contract.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, bool, error)
}

// AccessTokenStore is the persistent source of truth for access tokens.
// Create must surface the backing store's uniqueness violation for a
// duplicate token value; the service maps it to a conflict.
type AccessTokenStore interface {
	GetByToken(ctx context.Context, token string) (AccessToken, bool, error)
	Create(ctx context.Context, token AccessToken) (AccessToken, error)
	ExpireByToken(ctx context.Context, token string, at time.Time) (int64, error)
	ListActiveByUser(ctx context.Context, userID int64, now time.Time) ([]AccessToken, error)
	ExpireByUser(ctx context.Context, userID int64, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]AccessToken, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	FindValid(ctx context.Context, notBefore time.Time) (AccessToken, bool, error)
	ListExpiredBefore(ctx context.Context, cutoff time.Time, limit int) ([]AccessToken, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuthorizationCodeStore holds authorization codes. The default is the
// in-process MemoryAuthorizationCodeStore; multi-instance deployments must
// inject a shared implementation or codes set on one instance stay
// invisible to the others.
type AuthorizationCodeStore interface {
	Save(ctx context.Context, code AuthorizationCode) error
	Get(ctx context.Context, code string) (AuthorizationCode, bool, error)
}

// AccessCache is the group-scoped cache consumed by the token store. All
// keys written through it belong to one cache group so Clear flushes
// exactly this subsystem. Implementations must treat cache failures as
// soft: GetOrFetch falls back to the fetch function, Delete and Clear
// return the error for logging but never corrupt the store path.
type AccessCache interface {
	GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// StoreProvider exposes the persistent stores built by a repository
// factory.
type StoreProvider interface {
	ClientStore() ClientStore
	PublicKeyStore() PublicKeyStore
	AccessTokenStore() AccessTokenStore
	UserStore() UserStore
}

type JobExecutionMessage struct {
	JobID          string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}
