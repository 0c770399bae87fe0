package command

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	TypeSetAccessToken        = "oauth.command.token.set"
	TypeIssueBearerToken      = "oauth.command.token.issue_bearer"
	TypeExpireAccessToken     = "oauth.command.token.expire"
	TypeExpireUserTokens      = "oauth.command.token.expire_user"
	TypeDeleteUserTokens      = "oauth.command.token.delete_user"
	TypeSaveAuthorizationCode = "oauth.command.authorization_code.save"
	TypeFlushAccessCache      = "oauth.command.cache.flush"
)

type SetAccessTokenMessage struct {
	Token        string
	ClientID     string
	UserID       int64
	ExpiresEpoch int64
	Scope        string
}

func (SetAccessTokenMessage) Type() string { return TypeSetAccessToken }

func (m SetAccessTokenMessage) Validate() error {
	if strings.TrimSpace(m.Token) == "" {
		return fmt.Errorf("command: token is required")
	}
	if strings.TrimSpace(m.ClientID) == "" {
		return fmt.Errorf("command: client id is required")
	}
	if m.ExpiresEpoch <= 0 {
		return fmt.Errorf("command: expiration epoch is required")
	}
	return nil
}

type IssueBearerTokenMessage struct {
	UserID          int64
	ClientID        string
	LifetimeSeconds int
}

func (IssueBearerTokenMessage) Type() string { return TypeIssueBearerToken }

func (m IssueBearerTokenMessage) Validate() error {
	if strings.TrimSpace(m.ClientID) == "" {
		return fmt.Errorf("command: client id is required")
	}
	return nil
}

type ExpireAccessTokenMessage struct {
	Token string
}

func (ExpireAccessTokenMessage) Type() string { return TypeExpireAccessToken }

func (m ExpireAccessTokenMessage) Validate() error {
	if strings.TrimSpace(m.Token) == "" {
		return fmt.Errorf("command: token is required")
	}
	return nil
}

type ExpireUserTokensMessage struct {
	UserID int64
}

func (ExpireUserTokensMessage) Type() string { return TypeExpireUserTokens }

func (m ExpireUserTokensMessage) Validate() error {
	if m.UserID <= 0 {
		return fmt.Errorf("command: user id is required")
	}
	return nil
}

type DeleteUserTokensMessage struct {
	UserID string
}

func (DeleteUserTokensMessage) Type() string { return TypeDeleteUserTokens }

func (m DeleteUserTokensMessage) Validate() error {
	trimmed := strings.TrimSpace(m.UserID)
	if trimmed == "" {
		return fmt.Errorf("command: user id is required")
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || parsed <= 0 {
		return fmt.Errorf("command: user id must be a positive integer")
	}
	return nil
}

type SaveAuthorizationCodeMessage struct {
	Code         string
	ClientID     string
	UserID       int64
	RedirectURI  string
	ExpiresEpoch int64
	Scope        string
}

func (SaveAuthorizationCodeMessage) Type() string { return TypeSaveAuthorizationCode }

func (m SaveAuthorizationCodeMessage) Validate() error {
	if strings.TrimSpace(m.Code) == "" {
		return fmt.Errorf("command: authorization code is required")
	}
	if strings.TrimSpace(m.ClientID) == "" {
		return fmt.Errorf("command: client id is required")
	}
	return nil
}

type FlushAccessCacheMessage struct{}

func (FlushAccessCacheMessage) Type() string { return TypeFlushAccessCache }

func (FlushAccessCacheMessage) Validate() error { return nil }
