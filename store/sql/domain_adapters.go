package sqlstore

import (
	"strings"
	"time"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/google/uuid"
)

func newClientRecord(client core.Client, now time.Time) *clientRecord {
	id := strings.TrimSpace(client.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := client.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &clientRecord{
		ID:           id,
		ClientID:     strings.TrimSpace(client.ClientID),
		ClientSecret: client.ClientSecret,
		GrantTypes:   strings.TrimSpace(client.GrantTypes),
		RedirectURI:  strings.TrimSpace(client.RedirectURI),
		CreatedAt:    createdAt,
		UpdatedAt:    now,
	}
}

func (r *clientRecord) toDomain() core.Client {
	if r == nil {
		return core.Client{}
	}
	return core.Client{
		ID:           r.ID,
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		GrantTypes:   r.GrantTypes,
		RedirectURI:  r.RedirectURI,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func newPublicKeyRecord(key core.PublicKey, now time.Time) *publicKeyRecord {
	id := strings.TrimSpace(key.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := key.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &publicKeyRecord{
		ID:                  id,
		ClientID:            strings.TrimSpace(key.ClientID),
		PublicKey:           key.PublicKey,
		EncryptionAlgorithm: strings.TrimSpace(key.EncryptionAlgorithm),
		CreatedAt:           createdAt,
	}
}

func (r *publicKeyRecord) toDomain() core.PublicKey {
	if r == nil {
		return core.PublicKey{}
	}
	return core.PublicKey{
		ID:                  r.ID,
		ClientID:            r.ClientID,
		PublicKey:           r.PublicKey,
		EncryptionAlgorithm: r.EncryptionAlgorithm,
		CreatedAt:           r.CreatedAt,
	}
}

func newAccessTokenRecord(token core.AccessToken, now time.Time) *accessTokenRecord {
	id := strings.TrimSpace(token.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := token.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &accessTokenRecord{
		ID:        id,
		Token:     strings.TrimSpace(token.Token),
		ClientID:  strings.TrimSpace(token.ClientID),
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt.UTC(),
		Scope:     strings.TrimSpace(token.Scope),
		CreatedAt: createdAt,
	}
}

func (r *accessTokenRecord) toDomain() core.AccessToken {
	if r == nil {
		return core.AccessToken{}
	}
	return core.AccessToken{
		ID:        r.ID,
		Token:     r.Token,
		ClientID:  r.ClientID,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
		Scope:     r.Scope,
		CreatedAt: r.CreatedAt,
	}
}

func newUserRecord(user core.User, now time.Time) *userRecord {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	return &userRecord{
		ID:        user.ID,
		Email:     strings.TrimSpace(user.Email),
		Password:  user.Password,
		CreatedAt: createdAt,
	}
}

func (r *userRecord) toDomain() core.User {
	if r == nil {
		return core.User{}
	}
	return core.User{
		ID:        r.ID,
		UserID:    r.ID,
		Email:     r.Email,
		Password:  r.Password,
		CreatedAt: r.CreatedAt,
	}
}
