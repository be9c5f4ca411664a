package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func authSlotHandlers() repository.ModelHandlers[*authSlotRecord] {
	return repository.ModelHandlers[*authSlotRecord]{
		NewRecord: func() *authSlotRecord {
			return &authSlotRecord{}
		},
		GetID: func(record *authSlotRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *authSlotRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *authSlotRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func ledgerEventHandlers() repository.ModelHandlers[*ledgerEventRecord] {
	return repository.ModelHandlers[*ledgerEventRecord]{
		NewRecord: func() *ledgerEventRecord {
			return &ledgerEventRecord{}
		},
		GetID: func(record *ledgerEventRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *ledgerEventRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *ledgerEventRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func personaHandlers() repository.ModelHandlers[*personaRecord] {
	return repository.ModelHandlers[*personaRecord]{
		NewRecord: func() *personaRecord {
			return &personaRecord{}
		},
		GetID: func(record *personaRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *personaRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *personaRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
