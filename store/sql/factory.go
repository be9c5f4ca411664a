package sqlstore

import (
	"fmt"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// RepositoryFactory wires the SQL-backed stores from a shared bun handle.
type RepositoryFactory struct {
	db *bun.DB

	slotKey string
	codec   core.AuthCodec

	authStore        *AuthSlotStore
	ledgerEventStore *LedgerEventStore
	personaStore     *PersonaStore
}

type FactoryOption func(*RepositoryFactory)

func WithSlotKey(slotKey string) FactoryOption {
	return func(f *RepositoryFactory) { f.slotKey = slotKey }
}

func WithAuthCodec(codec core.AuthCodec) FactoryOption {
	return func(f *RepositoryFactory) { f.codec = codec }
}

func NewRepositoryFactory(options ...FactoryOption) *RepositoryFactory {
	f := &RepositoryFactory{
		slotKey: core.DefaultStoragePrefix + "_auth",
		codec:   core.JSONAuthCodec{},
	}
	for _, option := range options {
		if option != nil {
			option(f)
		}
	}
	return f
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, options ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(options...)
	if err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, options ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(options...)
	if err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) error {
	if f == nil {
		return fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return err
		}
		f.db = db
	}
	if f.authStore != nil && f.ledgerEventStore != nil && f.personaStore != nil {
		return nil
	}
	return f.initStores()
}

func (f *RepositoryFactory) initStores() error {
	authStore, err := NewAuthSlotStore(f.db, f.slotKey, f.codec)
	if err != nil {
		return err
	}
	f.authStore = authStore

	ledgerEventStore, err := NewLedgerEventStore(f.db)
	if err != nil {
		return err
	}
	f.ledgerEventStore = ledgerEventStore

	personaStore, err := NewPersonaStore(f.db)
	if err != nil {
		return err
	}
	f.personaStore = personaStore
	return nil
}

func (f *RepositoryFactory) AuthStore() core.AuthStore {
	if f == nil {
		return nil
	}
	return f.authStore
}

func (f *RepositoryFactory) LedgerEventStore() *LedgerEventStore {
	if f == nil {
		return nil
	}
	return f.ledgerEventStore
}

func (f *RepositoryFactory) PersonaStore() core.PersonaStore {
	if f == nil {
		return nil
	}
	return f.personaStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
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
