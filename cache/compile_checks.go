package cache

import "github.com/goliatone/go-oauth-store/core"

var _ core.AccessCache = (*KeyGroup)(nil)
