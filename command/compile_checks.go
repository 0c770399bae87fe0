package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[SetAccessTokenMessage]        = (*SetAccessTokenCommand)(nil)
	_ gocmd.Commander[IssueBearerTokenMessage]      = (*IssueBearerTokenCommand)(nil)
	_ gocmd.Commander[ExpireAccessTokenMessage]     = (*ExpireAccessTokenCommand)(nil)
	_ gocmd.Commander[ExpireUserTokensMessage]      = (*ExpireUserTokensCommand)(nil)
	_ gocmd.Commander[DeleteUserTokensMessage]      = (*DeleteUserTokensCommand)(nil)
	_ gocmd.Commander[SaveAuthorizationCodeMessage] = (*SaveAuthorizationCodeCommand)(nil)
	_ gocmd.Commander[FlushAccessCacheMessage]      = (*FlushAccessCacheCommand)(nil)
)
