package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/google/uuid"
)

// MemoryAuthStore keeps the persisted auth slot in process memory. It is the
// standalone-mode default and the workhorse for tests; embedded deployments
// usually swap in the SQL-backed slot store.
type MemoryAuthStore struct {
	mu    sync.RWMutex
	codec core.AuthCodec
	blob  []byte
	set   bool
}

func NewMemoryAuthStore(codec core.AuthCodec) *MemoryAuthStore {
	if codec == nil {
		codec = core.JSONAuthCodec{}
	}
	return &MemoryAuthStore{codec: codec}
}

func (s *MemoryAuthStore) Load(ctx context.Context) (core.PersistedAuth, bool, error) {
	if s == nil {
		return core.PersistedAuth{}, false, fmt.Errorf("store: auth store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return core.PersistedAuth{}, false, nil
	}
	auth, err := s.codec.Decode(s.blob)
	if err != nil {
		return core.PersistedAuth{}, false, err
	}
	return auth, true, nil
}

func (s *MemoryAuthStore) Save(ctx context.Context, auth core.PersistedAuth) error {
	if s == nil {
		return fmt.Errorf("store: auth store is not configured")
	}
	blob, err := s.codec.Encode(auth)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = blob
	s.set = true
	return nil
}

func (s *MemoryAuthStore) Clear(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("store: auth store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = nil
	s.set = false
	return nil
}

// MemoryLedgerLog is an append-only in-memory mutation log with paged reads.
type MemoryLedgerLog struct {
	mu      sync.RWMutex
	entries []core.LedgerEntry
	Now     func() time.Time
}

func NewMemoryLedgerLog() *MemoryLedgerLog {
	return &MemoryLedgerLog{Now: time.Now}
}

func (l *MemoryLedgerLog) Append(ctx context.Context, entry core.LedgerEntry) error {
	if l == nil {
		return fmt.Errorf("store: ledger log is not configured")
	}
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	if entry.OccurredAt.IsZero() {
		now := l.Now
		if now == nil {
			now = time.Now
		}
		entry.OccurredAt = now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

// History returns entries newest first.
func (l *MemoryLedgerLog) History(ctx context.Context, page int, limit int) (core.HistoryPage, error) {
	if l == nil {
		return core.HistoryPage{}, fmt.Errorf("store: ledger log is not configured")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	l.mu.RLock()
	ordered := make([]core.LedgerEntry, len(l.entries))
	copy(ordered, l.entries)
	l.mu.RUnlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.After(ordered[j].OccurredAt)
	})

	total := len(ordered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return core.HistoryPage{
		Entries: ordered[start:end],
		Page:    page,
		Limit:   limit,
		Total:   total,
	}, nil
}

// MemoryPersonaStore serves a fixed persona set keyed by organization.
type MemoryPersonaStore struct {
	mu       sync.RWMutex
	personas map[string][]core.Persona
}

func NewMemoryPersonaStore() *MemoryPersonaStore {
	return &MemoryPersonaStore{personas: map[string][]core.Persona{}}
}

func (s *MemoryPersonaStore) Put(organizationID string, personas []core.Persona) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personas[strings.TrimSpace(organizationID)] = append([]core.Persona(nil), personas...)
}

func (s *MemoryPersonaStore) List(ctx context.Context, organizationID string) ([]core.Persona, error) {
	if s == nil {
		return nil, fmt.Errorf("store: persona store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Persona(nil), s.personas[strings.TrimSpace(organizationID)]...), nil
}

var _ core.AuthStore = (*MemoryAuthStore)(nil)
var _ core.LedgerLog = (*MemoryLedgerLog)(nil)
var _ core.PersonaStore = (*MemoryPersonaStore)(nil)
