package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// PersonaStore reads persona definitions scoped to an organization.
type PersonaStore struct {
	db   *bun.DB
	repo repository.Repository[*personaRecord]
}

func NewPersonaStore(db *bun.DB) (*PersonaStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &PersonaStore{
		db:   db,
		repo: repository.NewRepository[*personaRecord](db, personaHandlers()),
	}, nil
}

func (s *PersonaStore) List(ctx context.Context, organizationID string) ([]core.Persona, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: persona store is not configured")
	}
	organizationID = strings.TrimSpace(organizationID)
	if organizationID == "" {
		return nil, fmt.Errorf("sqlstore: organization id is required")
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectBy("organization_id", "=", organizationID),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, err
	}
	personas := make([]core.Persona, 0, len(records))
	for _, record := range records {
		personas = append(personas, core.Persona{
			ID:          record.ID,
			Name:        record.Name,
			Role:        record.Role,
			Description: record.Description,
		})
	}
	return personas, nil
}

var _ core.PersonaStore = (*PersonaStore)(nil)
