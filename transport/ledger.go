package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
)

// LedgerClient is the REST implementation of the credits surface. It performs
// no retries and no balance caching; both belong to the session controller.
type LedgerClient struct {
	client *Client
}

func NewLedgerClient(client *Client) *LedgerClient {
	return &LedgerClient{client: client}
}

type balanceData struct {
	Balance int64 `json:"balance"`
}

type receiptData struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	NewBalance  int64  `json:"new_balance"`
}

type historyData struct {
	Entries []historyEntryData `json:"entries"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Total   int                `json:"total"`
}

type historyEntryData struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	Amount          int64  `json:"amount"`
	Description     string `json:"description"`
	PreviousBalance int64  `json:"previous_balance"`
	NewBalance      int64  `json:"new_balance"`
	OrganizationID  string `json:"organization_id"`
	OccurredAt      int64  `json:"occurred_at"`
}

func (l *LedgerClient) Balance(ctx context.Context, organizationID string) (int64, error) {
	if l == nil || l.client == nil {
		return 0, transportError("transport: ledger client is not configured", goerrors.CategoryInternal, http.StatusInternalServerError, nil)
	}
	query := map[string]string{}
	if strings.TrimSpace(organizationID) != "" {
		query["organization_id"] = strings.TrimSpace(organizationID)
	}
	var data balanceData
	if err := l.client.DoJSON(ctx, http.MethodGet, "/balance", query, nil, &data); err != nil {
		return 0, err
	}
	return data.Balance, nil
}

func (l *LedgerClient) Spend(ctx context.Context, amount int64, description string) (core.LedgerReceipt, error) {
	return l.mutate(ctx, "/spend", amount, description)
}

func (l *LedgerClient) Add(ctx context.Context, amount int64, description string) (core.LedgerReceipt, error) {
	return l.mutate(ctx, "/add", amount, description)
}

func (l *LedgerClient) mutate(ctx context.Context, path string, amount int64, description string) (core.LedgerReceipt, error) {
	if l == nil || l.client == nil {
		return core.LedgerReceipt{}, transportError("transport: ledger client is not configured", goerrors.CategoryInternal, http.StatusInternalServerError, nil)
	}
	if amount <= 0 {
		return core.LedgerReceipt{}, core.NewSDKError("amount must be a positive integer", goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	}
	body := map[string]any{
		"amount": amount,
	}
	if strings.TrimSpace(description) != "" {
		body["description"] = strings.TrimSpace(description)
	}
	var data receiptData
	if err := l.client.DoJSON(ctx, http.MethodPost, path, nil, body, &data); err != nil {
		return core.LedgerReceipt{}, err
	}
	return core.LedgerReceipt{
		Amount:      data.Amount,
		Description: data.Description,
		NewBalance:  data.NewBalance,
	}, nil
}

func (l *LedgerClient) History(ctx context.Context, page int, limit int) (core.HistoryPage, error) {
	if l == nil || l.client == nil {
		return core.HistoryPage{}, transportError("transport: ledger client is not configured", goerrors.CategoryInternal, http.StatusInternalServerError, nil)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	var data historyData
	query := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if err := l.client.DoJSON(ctx, http.MethodGet, "/history", query, nil, &data); err != nil {
		return core.HistoryPage{}, err
	}
	entries := make([]core.LedgerEntry, 0, len(data.Entries))
	for _, entry := range data.Entries {
		entries = append(entries, core.LedgerEntry{
			ID:              entry.ID,
			Kind:            core.LedgerEntryKind(entry.Kind),
			Amount:          entry.Amount,
			Description:     entry.Description,
			PreviousBalance: entry.PreviousBalance,
			NewBalance:      entry.NewBalance,
			OrganizationID:  entry.OrganizationID,
			OccurredAt:      time.UnixMilli(entry.OccurredAt).UTC(),
		})
	}
	return core.HistoryPage{
		Entries: entries,
		Page:    data.Page,
		Limit:   data.Limit,
		Total:   data.Total,
	}, nil
}

var _ core.LedgerService = (*LedgerClient)(nil)
