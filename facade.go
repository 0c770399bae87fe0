package oauthstore

import (
	"fmt"

	oauthcommand "github.com/goliatone/go-oauth-store/command"
	"github.com/goliatone/go-oauth-store/core"
)

// CommandService is the mutating surface the facade wires commands over.
type CommandService = oauthcommand.MutatingService

type Commands struct {
	SetAccessToken        *oauthcommand.SetAccessTokenCommand
	IssueBearerToken      *oauthcommand.IssueBearerTokenCommand
	ExpireAccessToken     *oauthcommand.ExpireAccessTokenCommand
	ExpireUserTokens      *oauthcommand.ExpireUserTokensCommand
	DeleteUserTokens      *oauthcommand.DeleteUserTokensCommand
	SaveAuthorizationCode *oauthcommand.SaveAuthorizationCodeCommand
	FlushAccessCache      *oauthcommand.FlushAccessCacheCommand
}

// Facade bundles the command handlers over one service instance so hosts
// can register them with a dispatcher in a single pass.
type Facade struct {
	service  CommandService
	commands Commands
}

func NewFacade(service CommandService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("oauthstore: command service is required")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		SetAccessToken:        oauthcommand.NewSetAccessTokenCommand(service),
		IssueBearerToken:      oauthcommand.NewIssueBearerTokenCommand(service),
		ExpireAccessToken:     oauthcommand.NewExpireAccessTokenCommand(service),
		ExpireUserTokens:      oauthcommand.NewExpireUserTokensCommand(service),
		DeleteUserTokens:      oauthcommand.NewDeleteUserTokensCommand(service),
		SaveAuthorizationCode: oauthcommand.NewSaveAuthorizationCodeCommand(service),
		FlushAccessCache:      oauthcommand.NewFlushAccessCacheCommand(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Service() CommandService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandService = (*core.Service)(nil)
