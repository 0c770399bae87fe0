package core

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the token store: it orchestrates reads and writes across the
// access cache and the persistent stores, owns the in-memory authorization
// codes, and issues bearer tokens.
type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	cache             AccessCache
	codes             AuthorizationCodeStore
	clients           ClientStore
	publicKeys        PublicKeyStore
	tokens            AccessTokenStore
	users             UserStore
	clock             func() time.Time
}

type ServiceDependencies struct {
	Logger                 Logger
	LoggerProvider         LoggerProvider
	ErrorFactory           ErrorFactory
	ErrorMapper            ErrorMapper
	PersistenceClient      any
	RepositoryFactory      any
	ConfigProvider         ConfigProvider
	OptionsResolver        OptionsResolver
	Cache                  AccessCache
	AuthorizationCodeStore AuthorizationCodeStore
	ClientStore            ClientStore
	PublicKeyStore         PublicKeyStore
	AccessTokenStore       AccessTokenStore
	UserStore              UserStore
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("oauth-store", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("oauth-store"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.errorMapper == nil {
		builder.errorMapper = tokenErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.codes == nil {
		builder.codes = NewMemoryAuthorizationCodeStore()
	}
	if builder.cache == nil {
		builder.cache = passthroughCache{}
	}
	if builder.clock == nil {
		builder.clock = func() time.Time { return time.Now().UTC() }
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.repositoryFactory != nil && storesMissing(builder) {
		storeProvider, resolveErr := resolveStoreProvider(builder.repositoryFactory, builder.persistenceClient)
		if resolveErr != nil {
			return nil, mapBuildError(builder.errorMapper, resolveErr)
		}
		if storeProvider != nil {
			if builder.clients == nil {
				builder.clients = storeProvider.ClientStore()
			}
			if builder.publicKeys == nil {
				builder.publicKeys = storeProvider.PublicKeyStore()
			}
			if builder.tokens == nil {
				builder.tokens = storeProvider.AccessTokenStore()
			}
			if builder.users == nil {
				builder.users = storeProvider.UserStore()
			}
		}
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		cache:             builder.cache,
		codes:             builder.codes,
		clients:           builder.clients,
		publicKeys:        builder.publicKeys,
		tokens:            builder.tokens,
		users:             builder.users,
		clock:             builder.clock,
	}, nil
}

func storesMissing(builder serviceBuilder) bool {
	return builder.clients == nil || builder.publicKeys == nil ||
		builder.tokens == nil || builder.users == nil
}

func resolveStoreProvider(factory any, persistenceClient any) (StoreProvider, error) {
	if storeFactory, ok := factory.(RepositoryStoreFactory); ok {
		return storeFactory.BuildStores(persistenceClient)
	}
	if provider, ok := factory.(StoreProvider); ok {
		return provider, nil
	}
	return nil, nil
}

// Dependencies exposes the resolved collaborators, mostly for wiring
// assertions in tests and composition roots.
func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:                 s.logger,
		LoggerProvider:         s.loggerProvider,
		ErrorFactory:           s.errorFactory,
		ErrorMapper:            s.errorMapper,
		PersistenceClient:      s.persistenceClient,
		RepositoryFactory:      s.repositoryFactory,
		ConfigProvider:         s.configProvider,
		OptionsResolver:        s.optionsResolver,
		Cache:                  s.cache,
		AuthorizationCodeStore: s.codes,
		ClientStore:            s.clients,
		PublicKeyStore:         s.publicKeys,
		AccessTokenStore:       s.tokens,
		UserStore:              s.users,
	}
}

// Config returns the resolved service configuration.
func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) now() time.Time {
	if s == nil || s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock()
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper != nil {
		if mapped := mapper(err); mapped != nil {
			return mapped
		}
	}
	return err
}

// passthroughCache is the default when no cache is wired: every read goes
// straight to the fetch function. Correctness never depends on the cache.
type passthroughCache struct{}

func (passthroughCache) GetOrFetch(ctx context.Context, _ string, fetch func(context.Context) (any, error)) (any, error) {
	return fetch(ctx)
}

func (passthroughCache) Delete(context.Context, string) error { return nil }

func (passthroughCache) Clear(context.Context) error { return nil }

var _ AccessCache = passthroughCache{}
