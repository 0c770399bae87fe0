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

type PublicKeyStore struct {
	db   *bun.DB
	repo repository.Repository[*publicKeyRecord]
}

func NewPublicKeyStore(db *bun.DB) (*PublicKeyStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*publicKeyRecord](db, publicKeyHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid public key repository wiring: %w", err)
		}
	}
	return &PublicKeyStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *PublicKeyStore) GetByClientID(ctx context.Context, clientID string) (core.PublicKey, bool, error) {
	if s == nil || s.db == nil {
		return core.PublicKey{}, false, fmt.Errorf("sqlstore: public key store is not configured")
	}
	trimmed := strings.TrimSpace(clientID)
	if trimmed == "" {
		return core.PublicKey{}, false, fmt.Errorf("sqlstore: client id is required")
	}

	record := &publicKeyRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.client_id = ?", trimmed).
		OrderExpr("?TableAlias.created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.PublicKey{}, false, nil
		}
		return core.PublicKey{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *PublicKeyStore) Create(ctx context.Context, key core.PublicKey) (core.PublicKey, error) {
	if s == nil || s.repo == nil {
		return core.PublicKey{}, fmt.Errorf("sqlstore: public key store is not configured")
	}
	if strings.TrimSpace(key.ClientID) == "" {
		return core.PublicKey{}, fmt.Errorf("sqlstore: client id is required")
	}
	if strings.TrimSpace(key.PublicKey) == "" {
		return core.PublicKey{}, fmt.Errorf("sqlstore: public key material is required")
	}
	record := newPublicKeyRecord(key, time.Now().UTC())
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.PublicKey{}, err
	}
	return created.toDomain(), nil
}
