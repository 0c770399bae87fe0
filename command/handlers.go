package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-oauth-store/core"
)

// MutatingService is the slice of the token storage engine the command
// layer drives.
type MutatingService interface {
	SetAccessToken(ctx context.Context, token string, clientID string, userID int64, expiresEpoch int64, scope string) error
	CreateBearerToken(ctx context.Context, userID int64, clientID string, lifetimeSeconds int) (core.BearerToken, error)
	ExpireAccessToken(ctx context.Context, token string) error
	ExpireUserTokens(ctx context.Context, userID int64) error
	DeleteAccessTokensByUserID(ctx context.Context, userID string) error
	SetAuthorizationCode(ctx context.Context, code string, clientID string, userID int64, redirectURI string, expiresEpoch int64, scope string) error
	FlushAccessCache(ctx context.Context) error
}

type SetAccessTokenCommand struct {
	service MutatingService
}

func NewSetAccessTokenCommand(service MutatingService) *SetAccessTokenCommand {
	return &SetAccessTokenCommand{service: service}
}

func (c *SetAccessTokenCommand) Execute(ctx context.Context, msg SetAccessTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token service is required")
	}
	return c.service.SetAccessToken(ctx, msg.Token, msg.ClientID, msg.UserID, msg.ExpiresEpoch, msg.Scope)
}

type IssueBearerTokenCommand struct {
	service MutatingService
}

func NewIssueBearerTokenCommand(service MutatingService) *IssueBearerTokenCommand {
	return &IssueBearerTokenCommand{service: service}
}

func (c *IssueBearerTokenCommand) Execute(ctx context.Context, msg IssueBearerTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: bearer token service is required")
	}
	out, err := c.service.CreateBearerToken(ctx, msg.UserID, msg.ClientID, msg.LifetimeSeconds)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ExpireAccessTokenCommand struct {
	service MutatingService
}

func NewExpireAccessTokenCommand(service MutatingService) *ExpireAccessTokenCommand {
	return &ExpireAccessTokenCommand{service: service}
}

func (c *ExpireAccessTokenCommand) Execute(ctx context.Context, msg ExpireAccessTokenMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token service is required")
	}
	return c.service.ExpireAccessToken(ctx, msg.Token)
}

type ExpireUserTokensCommand struct {
	service MutatingService
}

func NewExpireUserTokensCommand(service MutatingService) *ExpireUserTokensCommand {
	return &ExpireUserTokensCommand{service: service}
}

func (c *ExpireUserTokensCommand) Execute(ctx context.Context, msg ExpireUserTokensMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token service is required")
	}
	return c.service.ExpireUserTokens(ctx, msg.UserID)
}

type DeleteUserTokensCommand struct {
	service MutatingService
}

func NewDeleteUserTokensCommand(service MutatingService) *DeleteUserTokensCommand {
	return &DeleteUserTokensCommand{service: service}
}

func (c *DeleteUserTokensCommand) Execute(ctx context.Context, msg DeleteUserTokensMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: token service is required")
	}
	return c.service.DeleteAccessTokensByUserID(ctx, msg.UserID)
}

type SaveAuthorizationCodeCommand struct {
	service MutatingService
}

func NewSaveAuthorizationCodeCommand(service MutatingService) *SaveAuthorizationCodeCommand {
	return &SaveAuthorizationCodeCommand{service: service}
}

func (c *SaveAuthorizationCodeCommand) Execute(ctx context.Context, msg SaveAuthorizationCodeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: authorization code service is required")
	}
	return c.service.SetAuthorizationCode(ctx, msg.Code, msg.ClientID, msg.UserID, msg.RedirectURI, msg.ExpiresEpoch, msg.Scope)
}

type FlushAccessCacheCommand struct {
	service MutatingService
}

func NewFlushAccessCacheCommand(service MutatingService) *FlushAccessCacheCommand {
	return &FlushAccessCacheCommand{service: service}
}

func (c *FlushAccessCacheCommand) Execute(ctx context.Context, _ FlushAccessCacheMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: cache service is required")
	}
	return c.service.FlushAccessCache(ctx)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
