package oauthstore

import "github.com/goliatone/go-oauth-store/core"

type Config = core.Config

type CacheConfig = core.CacheConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type Client = core.Client
type PublicKey = core.PublicKey
type AccessToken = core.AccessToken
type AuthorizationCode = core.AuthorizationCode
type User = core.User
type BearerToken = core.BearerToken

type ClientStore = core.ClientStore
type PublicKeyStore = core.PublicKeyStore
type AccessTokenStore = core.AccessTokenStore
type UserStore = core.UserStore
type AuthorizationCodeStore = core.AuthorizationCodeStore
type AccessCache = core.AccessCache
type StoreProvider = core.StoreProvider

var (
	WithLogger                 = core.WithLogger
	WithLoggerProvider         = core.WithLoggerProvider
	WithErrorFactory           = core.WithErrorFactory
	WithErrorMapper            = core.WithErrorMapper
	WithPersistenceClient      = core.WithPersistenceClient
	WithRepositoryFactory      = core.WithRepositoryFactory
	WithConfigProvider         = core.WithConfigProvider
	WithOptionsResolver        = core.WithOptionsResolver
	WithAccessCache            = core.WithAccessCache
	WithAuthorizationCodeStore = core.WithAuthorizationCodeStore
	WithClientStore            = core.WithClientStore
	WithPublicKeyStore         = core.WithPublicKeyStore
	WithAccessTokenStore       = core.WithAccessTokenStore
	WithUserStore              = core.WithUserStore
	WithClock                  = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}
