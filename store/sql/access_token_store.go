package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// AccessTokenStore is the relational source of truth for access tokens.
// The token column carries a unique index; Create surfaces the driver's
// uniqueness violation unchanged so the caller can map it to a conflict.
type AccessTokenStore struct {
	db   *bun.DB
	repo repository.Repository[*accessTokenRecord]
}

func NewAccessTokenStore(db *bun.DB) (*AccessTokenStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*accessTokenRecord](db, accessTokenHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid access token repository wiring: %w", err)
		}
	}
	return &AccessTokenStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *AccessTokenStore) GetByToken(ctx context.Context, token string) (core.AccessToken, bool, error) {
	if s == nil || s.db == nil {
		return core.AccessToken{}, false, fmt.Errorf("sqlstore: access token store is not configured")
	}
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return core.AccessToken{}, false, fmt.Errorf("sqlstore: token is required")
	}

	record := &accessTokenRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", trimmed).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.AccessToken{}, false, nil
		}
		return core.AccessToken{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *AccessTokenStore) Create(ctx context.Context, token core.AccessToken) (core.AccessToken, error) {
	if s == nil || s.repo == nil {
		return core.AccessToken{}, fmt.Errorf("sqlstore: access token store is not configured")
	}
	if strings.TrimSpace(token.Token) == "" {
		return core.AccessToken{}, fmt.Errorf("sqlstore: token is required")
	}
	if strings.TrimSpace(token.ClientID) == "" {
		return core.AccessToken{}, fmt.Errorf("sqlstore: client id is required")
	}
	if token.ExpiresAt.IsZero() {
		return core.AccessToken{}, fmt.Errorf("sqlstore: expiration is required")
	}
	record := newAccessTokenRecord(token, time.Now().UTC())
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.AccessToken{}, err
	}
	return created.toDomain(), nil
}

// ExpireByToken rewinds the token's expiration to at. Returns the number
// of rows touched; zero means the token value is unknown.
func (s *AccessTokenStore) ExpireByToken(ctx context.Context, token string, at time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: access token store is not configured")
	}
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return 0, fmt.Errorf("sqlstore: token is required")
	}

	res, err := s.db.NewUpdate().
		Model((*accessTokenRecord)(nil)).
		Set("expires_at = ?", at.UTC()).
		Where("?TableAlias.token = ?", trimmed).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccessTokenStore) ListActiveByUser(ctx context.Context, userID int64, now time.Time) ([]core.AccessToken, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: access token store is not configured")
	}
	records := []*accessTokenRecord{}
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.expires_at > ?", now.UTC()).
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainTokens(records), nil
}

// ExpireByUser rewinds every still-active token belonging to the user in a
// single statement.
func (s *AccessTokenStore) ExpireByUser(ctx context.Context, userID int64, at time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: access token store is not configured")
	}
	res, err := s.db.NewUpdate().
		Model((*accessTokenRecord)(nil)).
		Set("expires_at = ?", at.UTC()).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.expires_at > ?", at.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccessTokenStore) ListByUser(ctx context.Context, userID int64) ([]core.AccessToken, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: access token store is not configured")
	}
	records := []*accessTokenRecord{}
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainTokens(records), nil
}

func (s *AccessTokenStore) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: access token store is not configured")
	}
	res, err := s.db.NewDelete().
		Model((*accessTokenRecord)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindValid returns one token whose expiration is strictly after notBefore,
// preferring the longest-lived record. A token expiring exactly at notBefore
// does not qualify.
func (s *AccessTokenStore) FindValid(ctx context.Context, notBefore time.Time) (core.AccessToken, bool, error) {
	if s == nil || s.db == nil {
		return core.AccessToken{}, false, fmt.Errorf("sqlstore: access token store is not configured")
	}
	record := &accessTokenRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.expires_at > ?", notBefore.UTC()).
		OrderExpr("?TableAlias.expires_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.AccessToken{}, false, nil
		}
		return core.AccessToken{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *AccessTokenStore) ListExpiredBefore(ctx context.Context, cutoff time.Time, limit int) ([]core.AccessToken, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlstore: access token store is not configured")
	}
	records := []*accessTokenRecord{}
	query := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.expires_at < ?", cutoff.UTC()).
		OrderExpr("?TableAlias.expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return toDomainTokens(records), nil
}

func (s *AccessTokenStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: access token store is not configured")
	}
	res, err := s.db.NewDelete().
		Model((*accessTokenRecord)(nil)).
		Where("?TableAlias.expires_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func toDomainTokens(records []*accessTokenRecord) []core.AccessToken {
	out := make([]core.AccessToken, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out
}
