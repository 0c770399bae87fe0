package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateBearerToken generates a new opaque access token for the user and
// client, persists it through SetAccessToken and returns the issuance
// envelope. A non-positive lifetime falls back to the configured default.
func (s *Service) CreateBearerToken(ctx context.Context, userID int64, clientID string, lifetimeSeconds int) (BearerToken, error) {
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = s.config.AccessTokenLifetime
	}
	_, found, err := s.GetClientDetails(ctx, clientID)
	if err != nil {
		return BearerToken{}, err
	}
	if !found {
		return BearerToken{}, badInputError(fmt.Sprintf("core: invalid client id %q", clientID))
	}

	token := generateAccessTokenValue()
	if token == "" {
		return BearerToken{}, internalError("core: access token could not be generated")
	}

	expiresAt := s.now().Unix() + int64(lifetimeSeconds)
	if err := s.SetAccessToken(ctx, token, clientID, userID, expiresAt, ""); err != nil {
		return BearerToken{}, err
	}

	return BearerToken{
		AccessToken: token,
		TokenType:   bearerTokenType,
		ExpiresIn:   lifetimeSeconds,
	}, nil
}

// CheckUserAccessToken verifies that the token belongs to the user. It is
// an ownership check, not a validity check: expiration is ignored, and
// callers needing validity must call GetAccessToken separately.
func (s *Service) CheckUserAccessToken(ctx context.Context, userID int64, token string) error {
	record, found, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		return s.mapError(err)
	}
	if !found || record.UserID != userID {
		return unauthorizedError("core: invalid user credentials")
	}
	return nil
}

// generateAccessTokenValue returns an opaque 64-character hex value.
func generateAccessTokenValue() string {
	raw := uuid.NewString() + uuid.NewString()
	return strings.ReplaceAll(raw, "-", "")
}
