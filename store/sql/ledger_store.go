package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LedgerEventStore is the durable append-only record of balance mutations.
// It backs the history operation when the controller is wired for SQL.
type LedgerEventStore struct {
	db   *bun.DB
	repo repository.Repository[*ledgerEventRecord]
}

func NewLedgerEventStore(db *bun.DB) (*LedgerEventStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	return &LedgerEventStore{
		db:   db,
		repo: repository.NewRepository[*ledgerEventRecord](db, ledgerEventHandlers()),
	}, nil
}

func (s *LedgerEventStore) Append(ctx context.Context, entry core.LedgerEntry) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: ledger event store is not configured")
	}
	if entry.Amount <= 0 {
		return fmt.Errorf("sqlstore: ledger entry amount must be positive")
	}
	kind := strings.TrimSpace(string(entry.Kind))
	if kind == "" {
		return fmt.Errorf("sqlstore: ledger entry kind is required")
	}

	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	record := &ledgerEventRecord{
		ID:              id,
		Kind:            kind,
		Amount:          entry.Amount,
		Description:     strings.TrimSpace(entry.Description),
		PreviousBalance: entry.PreviousBalance,
		NewBalance:      entry.NewBalance,
		OrganizationID:  strings.TrimSpace(entry.OrganizationID),
		OccurredAt:      occurredAt.UTC(),
	}
	_, err := s.db.NewInsert().Model(record).Exec(ctx)
	return err
}

// History returns mutation entries newest first.
func (s *LedgerEventStore) History(ctx context.Context, page int, limit int) (core.HistoryPage, error) {
	if s == nil || s.repo == nil {
		return core.HistoryPage{}, fmt.Errorf("sqlstore: ledger event store is not configured")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	records, total, err := s.repo.List(ctx,
		repository.OrderBy("occurred_at DESC"),
		repository.SelectPaginate(limit, (page-1)*limit),
	)
	if err != nil {
		return core.HistoryPage{}, err
	}

	entries := make([]core.LedgerEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toDomain())
	}
	return core.HistoryPage{
		Entries: entries,
		Page:    page,
		Limit:   limit,
		Total:   total,
	}, nil
}

func (r *ledgerEventRecord) toDomain() core.LedgerEntry {
	if r == nil {
		return core.LedgerEntry{}
	}
	return core.LedgerEntry{
		ID:              r.ID,
		Kind:            core.LedgerEntryKind(r.Kind),
		Amount:          r.Amount,
		Description:     r.Description,
		PreviousBalance: r.PreviousBalance,
		NewBalance:      r.NewBalance,
		OrganizationID:  r.OrganizationID,
		OccurredAt:      r.OccurredAt.UTC(),
	}
}

var _ core.LedgerLog = (*LedgerEventStore)(nil)
