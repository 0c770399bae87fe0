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

type ClientStore struct {
	db   *bun.DB
	repo repository.Repository[*clientRecord]
}

func NewClientStore(db *bun.DB) (*ClientStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*clientRecord](db, clientHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid client repository wiring: %w", err)
		}
	}
	return &ClientStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *ClientStore) GetByClientID(ctx context.Context, clientID string) (core.Client, bool, error) {
	if s == nil || s.db == nil {
		return core.Client{}, false, fmt.Errorf("sqlstore: client store is not configured")
	}
	trimmed := strings.TrimSpace(clientID)
	if trimmed == "" {
		return core.Client{}, false, fmt.Errorf("sqlstore: client id is required")
	}

	record := &clientRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.client_id = ?", trimmed).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Client{}, false, nil
		}
		return core.Client{}, false, err
	}
	return record.toDomain(), true, nil
}

// Create registers a client. Issued IDs are UUID strings; the client_id
// column carries a unique index, so re-registering an identifier fails.
func (s *ClientStore) Create(ctx context.Context, client core.Client) (core.Client, error) {
	if s == nil || s.repo == nil {
		return core.Client{}, fmt.Errorf("sqlstore: client store is not configured")
	}
	if strings.TrimSpace(client.ClientID) == "" {
		return core.Client{}, fmt.Errorf("sqlstore: client id is required")
	}
	record := newClientRecord(client, time.Now().UTC())
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return core.Client{}, err
	}
	return created.toDomain(), nil
}
