package store

import (
	"context"
	"testing"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

func TestMemoryAuthStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAuthStore(nil)

	if _, found, err := store.Load(ctx); err != nil || found {
		t.Fatalf("expected empty store, found=%t err=%v", found, err)
	}

	auth := core.PersistedAuth{
		Token:        "t1",
		RefreshToken: "r1",
		User:         &core.Identity{ID: "u1"},
	}
	if err := store.Save(ctx, auth); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, found, err := store.Load(ctx)
	if err != nil || !found {
		t.Fatalf("load, found=%t err=%v", found, err)
	}
	if loaded.Token != "t1" || loaded.RefreshToken != "r1" || loaded.User == nil {
		t.Fatalf("unexpected auth %+v", loaded)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found, _ := store.Load(ctx); found {
		t.Fatalf("expected cleared store")
	}
}

func TestMemoryAuthStoreLegacyCodec(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryAuthStore(core.LegacyTokenAuthCodec{})
	if err := store.Save(ctx, core.PersistedAuth{Token: "legacy"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, found, err := store.Load(ctx)
	if err != nil || !found || loaded.Token != "legacy" {
		t.Fatalf("unexpected load %+v found=%t err=%v", loaded, found, err)
	}
}

func TestMemoryLedgerLogHistoryPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLedgerLog()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := log.Append(ctx, core.LedgerEntry{
			Kind:       core.LedgerEntrySpend,
			Amount:     int64(i + 1),
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	page, err := log.History(ctx, 1, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.Total != 5 || len(page.Entries) != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Entries[0].Amount != 5 || page.Entries[1].Amount != 4 {
		t.Fatalf("expected newest first, got %+v", page.Entries)
	}

	last, err := log.History(ctx, 3, 2)
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if len(last.Entries) != 1 || last.Entries[0].Amount != 1 {
		t.Fatalf("unexpected last page %+v", last.Entries)
	}

	beyond, err := log.History(ctx, 9, 2)
	if err != nil {
		t.Fatalf("beyond page: %v", err)
	}
	if len(beyond.Entries) != 0 {
		t.Fatalf("expected empty page beyond range, got %+v", beyond.Entries)
	}
}

func TestMemoryLedgerLogFillsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLedgerLog()
	if err := log.Append(ctx, core.LedgerEntry{Kind: core.LedgerEntryAdd, Amount: 10}); err != nil {
		t.Fatalf("append: %v", err)
	}
	page, err := log.History(ctx, 1, 1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	entry := page.Entries[0]
	if entry.ID == "" || entry.OccurredAt.IsZero() {
		t.Fatalf("expected generated id and timestamp, got %+v", entry)
	}
}

func TestMemoryPersonaStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPersonaStore()
	store.Put("org-1", []core.Persona{{ID: "p-1", Name: "Analyst"}})

	personas, err := store.List(ctx, "org-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(personas) != 1 || personas[0].ID != "p-1" {
		t.Fatalf("unexpected personas %+v", personas)
	}

	empty, err := store.List(ctx, "org-2")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no personas for unknown org")
	}
}
