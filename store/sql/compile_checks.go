package sqlstore

import "github.com/goliatone/go-oauth-store/core"

var (
	_ core.ClientStore            = (*ClientStore)(nil)
	_ core.PublicKeyStore         = (*PublicKeyStore)(nil)
	_ core.AccessTokenStore       = (*AccessTokenStore)(nil)
	_ core.UserStore              = (*UserStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
