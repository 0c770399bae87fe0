package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-oauth-store/core"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// RepositoryFactory builds the relational stores over a shared bun handle
// and exposes them through the core.StoreProvider contract.
type RepositoryFactory struct {
	db *bun.DB

	clientStore      *ClientStore
	publicKeyStore   *PublicKeyStore
	accessTokenStore *AccessTokenStore
	userStore        *UserStore
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory()
	if _, err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) (core.StoreProvider, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	if f.accessTokenStore != nil && f.clientStore != nil {
		return f, nil
	}
	if err := f.initStores(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *RepositoryFactory) ClientStore() core.ClientStore {
	if f == nil {
		return nil
	}
	return f.clientStore
}

func (f *RepositoryFactory) PublicKeyStore() core.PublicKeyStore {
	if f == nil {
		return nil
	}
	return f.publicKeyStore
}

func (f *RepositoryFactory) AccessTokenStore() core.AccessTokenStore {
	if f == nil {
		return nil
	}
	return f.accessTokenStore
}

func (f *RepositoryFactory) UserStore() core.UserStore {
	if f == nil {
		return nil
	}
	return f.userStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func (f *RepositoryFactory) initStores() error {
	clientStore, err := NewClientStore(f.db)
	if err != nil {
		return err
	}
	f.clientStore = clientStore

	publicKeyStore, err := NewPublicKeyStore(f.db)
	if err != nil {
		return err
	}
	f.publicKeyStore = publicKeyStore

	accessTokenStore, err := NewAccessTokenStore(f.db)
	if err != nil {
		return err
	}
	f.accessTokenStore = accessTokenStore

	userStore, err := NewUserStore(f.db)
	if err != nil {
		return err
	}
	f.userStore = userStore

	return nil
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
