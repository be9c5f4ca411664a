package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type authSlotRecord struct {
	bun.BaseModel `bun:"table:sdk_auth_slots,alias:sas"`

	ID           string    `bun:"id,pk"`
	SlotKey      string    `bun:"slot_key,notnull"`
	Payload      []byte    `bun:"payload,notnull"`
	PayloadCodec string    `bun:"payload_codec,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type ledgerEventRecord struct {
	bun.BaseModel `bun:"table:sdk_ledger_events,alias:sle"`

	ID              string    `bun:"id,pk"`
	Kind            string    `bun:"kind,notnull"`
	Amount          int64     `bun:"amount,notnull"`
	Description     string    `bun:"description"`
	PreviousBalance int64     `bun:"previous_balance,notnull"`
	NewBalance      int64     `bun:"new_balance,notnull"`
	OrganizationID  string    `bun:"organization_id"`
	OccurredAt      time.Time `bun:"occurred_at,notnull"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type personaRecord struct {
	bun.BaseModel `bun:"table:sdk_personas,alias:sp"`

	ID             string    `bun:"id,pk"`
	OrganizationID string    `bun:"organization_id,notnull"`
	Name           string    `bun:"name,notnull"`
	Role           string    `bun:"role"`
	Description    string    `bun:"description"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
