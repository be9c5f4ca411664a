package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AuthSlotStore persists one auth blob per slot key. Each controller instance
// owns exactly one slot; the slot key is the configured storage key so two
// deployments sharing a database never collide.
type AuthSlotStore struct {
	db      *bun.DB
	repo    repository.Repository[*authSlotRecord]
	slotKey string
	codec   core.AuthCodec
}

func NewAuthSlotStore(db *bun.DB, slotKey string, codec core.AuthCodec) (*AuthSlotStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	slotKey = strings.TrimSpace(slotKey)
	if slotKey == "" {
		return nil, fmt.Errorf("sqlstore: slot key is required")
	}
	if codec == nil {
		codec = core.JSONAuthCodec{}
	}
	return &AuthSlotStore{
		db:      db,
		repo:    repository.NewRepository[*authSlotRecord](db, authSlotHandlers()),
		slotKey: slotKey,
		codec:   codec,
	}, nil
}

func (s *AuthSlotStore) Load(ctx context.Context) (core.PersistedAuth, bool, error) {
	if s == nil || s.db == nil {
		return core.PersistedAuth{}, false, fmt.Errorf("sqlstore: auth slot store is not configured")
	}
	record := new(authSlotRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("slot_key = ?", s.slotKey).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.PersistedAuth{}, false, nil
		}
		return core.PersistedAuth{}, false, err
	}
	auth, err := s.codec.Decode(record.Payload)
	if err != nil {
		return core.PersistedAuth{}, false, err
	}
	return auth, true, nil
}

func (s *AuthSlotStore) Save(ctx context.Context, auth core.PersistedAuth) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: auth slot store is not configured")
	}
	payload, err := s.codec.Encode(auth)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	record := &authSlotRecord{
		ID:           uuid.NewString(),
		SlotKey:      s.slotKey,
		Payload:      payload,
		PayloadCodec: s.codec.Format(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = s.db.NewInsert().
		Model(record).
		On("CONFLICT (slot_key) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("payload_codec = EXCLUDED.payload_codec").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (s *AuthSlotStore) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: auth slot store is not configured")
	}
	_, err := s.db.NewDelete().
		Model((*authSlotRecord)(nil)).
		Where("slot_key = ?", s.slotKey).
		Exec(ctx)
	return err
}

var _ core.AuthStore = (*AuthSlotStore)(nil)
