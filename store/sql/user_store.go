package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/uptrace/bun"
)

// UserStore reads account rows owned by the authentication subsystem. The
// users table carries a numeric primary key, so this store talks to bun
// directly instead of going through the UUID-keyed repository helpers.
type UserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) (*UserStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &UserStore{db: db}, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (core.User, bool, error) {
	if s == nil || s.db == nil {
		return core.User{}, false, fmt.Errorf("sqlstore: user store is not configured")
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return core.User{}, false, fmt.Errorf("sqlstore: email is required")
	}

	record := &userRecord{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", trimmed).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, false, nil
		}
		return core.User{}, false, err
	}
	return record.toDomain(), true, nil
}

func (s *UserStore) Create(ctx context.Context, user core.User) (core.User, error) {
	if s == nil || s.db == nil {
		return core.User{}, fmt.Errorf("sqlstore: user store is not configured")
	}
	if strings.TrimSpace(user.Email) == "" {
		return core.User{}, fmt.Errorf("sqlstore: email is required")
	}
	record := newUserRecord(user, time.Now().UTC())
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return core.User{}, err
	}
	return record.toDomain(), nil
}
