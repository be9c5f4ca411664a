package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

func ledgerServer(t *testing.T, handler http.HandlerFunc) *LedgerClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(NewRESTAdapter(server.Client()), server.URL, staticToken("tok"))
	return NewLedgerClient(client)
}

func TestLedgerBalance(t *testing.T) {
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/balance" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("organization_id"); got != "org-1" {
			t.Errorf("expected organization scope, got %q", got)
		}
		w.Write([]byte(`{"success":true,"data":{"balance":250}}`))
	})

	balance, err := ledger.Balance(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 250 {
		t.Fatalf("unexpected balance %d", balance)
	}
}

func TestLedgerSpendPostsAmountAndDescription(t *testing.T) {
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/spend" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["amount"].(float64) != 50 || body["description"] != "report generation" {
			t.Errorf("unexpected body %v", body)
		}
		w.Write([]byte(`{"success":true,"data":{"amount":50,"description":"report generation","new_balance":200}}`))
	})

	receipt, err := ledger.Spend(context.Background(), 50, "report generation")
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if receipt.NewBalance != 200 || receipt.Amount != 50 {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
}

func TestLedgerSpendDecodesServerBalance(t *testing.T) {
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"amount":50,"new_balance":50}}`))
	})

	receipt, err := ledger.Spend(context.Background(), 50, "run")
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if receipt.NewBalance != 50 {
		t.Fatalf("server balance lost in decode: %+v", receipt)
	}
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	ledger := NewLedgerClient(NewClient(NewRESTAdapter(nil), "http://localhost:0", staticToken("tok")))
	for _, amount := range []int64{0, -5} {
		if _, err := ledger.Spend(context.Background(), amount, "x"); !core.IsInvalidInput(err) {
			t.Fatalf("expected invalid-input error for %d, got %v", amount, err)
		}
		if _, err := ledger.Add(context.Background(), amount, "x"); !core.IsInvalidInput(err) {
			t.Fatalf("expected invalid-input error for %d, got %v", amount, err)
		}
	}
}

func TestLedgerHistory(t *testing.T) {
	ledger := ledgerServer(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("page") != "2" || query.Get("limit") != "10" {
			t.Errorf("unexpected pagination %v", query)
		}
		w.Write([]byte(`{"success":true,"data":{` +
			`"entries":[{"id":"e1","kind":"spend","amount":50,"description":"run",` +
			`"previous_balance":250,"new_balance":200,"organization_id":"org-1","occurred_at":1722513600000}],` +
			`"page":2,"limit":10,"total":11}}`))
	})

	page, err := ledger.History(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if page.Total != 11 || len(page.Entries) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	entry := page.Entries[0]
	if entry.Kind != core.LedgerEntrySpend || entry.NewBalance != 200 || entry.PreviousBalance != 250 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.OccurredAt.IsZero() {
		t.Fatalf("expected occurred-at decoded")
	}
}
