package session

import (
	"context"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
)

func (c *Controller) requireAuthenticated() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.Authenticated {
		return core.NewSDKError("not authenticated", goerrors.CategoryAuth, core.SDKErrorNotAuthenticated)
	}
	return nil
}

func (c *Controller) selectedOrgID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if org, ok := c.session.Identity.SelectedOrganization(); ok {
		return org.ID
	}
	return ""
}

// CheckBalance fetches the authoritative balance. A rejected credential gets
// exactly one refresh-and-retry; no other ledger operation retries. The
// returned value always comes from the server, never from the local cache.
func (c *Controller) CheckBalance(ctx context.Context) (int64, error) {
	if c == nil || c.ledger == nil {
		return 0, core.NewSDKError("ledger is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	if err := c.requireAuthenticated(); err != nil {
		return 0, err
	}

	orgID := c.selectedOrgID()
	balance, err := c.ledger.Balance(ctx, orgID)
	if err != nil {
		if !core.IsCredentialInvalid(err) {
			return 0, err
		}
		if refreshErr := c.Refresh(ctx); refreshErr != nil {
			return 0, err
		}
		balance, err = c.ledger.Balance(ctx, orgID)
		if err != nil {
			return 0, err
		}
	}

	c.applyBalance(balance)
	return balance, nil
}

// Spend debits credits. The amount is checked locally against the last known
// balance before any network call; the advisory check keeps obviously failing
// requests off the wire while the server stays authoritative.
func (c *Controller) Spend(ctx context.Context, amount int64, description string) (core.LedgerReceipt, error) {
	if c == nil || c.ledger == nil {
		return core.LedgerReceipt{}, core.NewSDKError("ledger is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	if err := c.requireAuthenticated(); err != nil {
		return core.LedgerReceipt{}, err
	}
	if amount <= 0 {
		return core.LedgerReceipt{}, core.NewSDKError("amount must be a positive integer", goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	}

	c.mu.Lock()
	previous := c.session.Balance
	c.mu.Unlock()
	if amount > previous {
		return core.LedgerReceipt{}, core.NewSDKError("insufficient credits", goerrors.CategoryValidation, core.SDKErrorInsufficientCredits)
	}

	receipt, err := c.ledger.Spend(ctx, amount, description)
	if err != nil {
		return core.LedgerReceipt{}, err
	}

	c.recordMutation(ctx, core.LedgerEntrySpend, receipt, previous)
	c.events.emit(Event{Name: EventCreditsSpent, Payload: CreditsChange{
		Amount:          receipt.Amount,
		Description:     receipt.Description,
		PreviousBalance: previous,
		NewBalance:      receipt.NewBalance,
	}})
	if c.Mode() == core.ModeEmbedded {
		c.notifyHost(core.EnvelopeCreditsSpent, core.CreditsChangedPayload{
			Amount:      receipt.Amount,
			Description: receipt.Description,
			NewBalance:  receipt.NewBalance,
		})
	}
	c.metrics.IncCounter(ctx, "sdk.ledger.spend", 1, nil)
	return receipt, nil
}

// Add credits credits. Like Spend it never retries on an auth failure.
func (c *Controller) Add(ctx context.Context, amount int64, description string) (core.LedgerReceipt, error) {
	if c == nil || c.ledger == nil {
		return core.LedgerReceipt{}, core.NewSDKError("ledger is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	if err := c.requireAuthenticated(); err != nil {
		return core.LedgerReceipt{}, err
	}
	if amount <= 0 {
		return core.LedgerReceipt{}, core.NewSDKError("amount must be a positive integer", goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	}

	c.mu.Lock()
	previous := c.session.Balance
	c.mu.Unlock()

	receipt, err := c.ledger.Add(ctx, amount, description)
	if err != nil {
		return core.LedgerReceipt{}, err
	}

	c.recordMutation(ctx, core.LedgerEntryAdd, receipt, previous)
	c.events.emit(Event{Name: EventCreditsAdded, Payload: CreditsChange{
		Amount:          receipt.Amount,
		Description:     receipt.Description,
		PreviousBalance: previous,
		NewBalance:      receipt.NewBalance,
	}})
	if c.Mode() == core.ModeEmbedded {
		c.notifyHost(core.EnvelopeCreditsAdded, core.CreditsChangedPayload{
			Amount:      receipt.Amount,
			Description: receipt.Description,
			NewBalance:  receipt.NewBalance,
		})
	}
	c.metrics.IncCounter(ctx, "sdk.ledger.add", 1, nil)
	return receipt, nil
}

// History pages through the ledger. Requires an authenticated session.
func (c *Controller) History(ctx context.Context, page int, limit int) (core.HistoryPage, error) {
	if c == nil || c.ledger == nil {
		return core.HistoryPage{}, core.NewSDKError("ledger is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	if err := c.requireAuthenticated(); err != nil {
		return core.HistoryPage{}, err
	}
	return c.ledger.History(ctx, page, limit)
}

// applyBalance stores the server balance and announces the change.
func (c *Controller) applyBalance(balance int64) {
	c.mu.Lock()
	changed := c.session.Balance != balance
	c.session.Balance = balance
	embedded := c.session.Mode == core.ModeEmbedded
	c.mu.Unlock()

	c.events.emit(Event{Name: EventBalanceUpdated, Payload: core.BalanceUpdatePayload{Balance: balance}})
	if changed && embedded {
		c.notifyHost(core.EnvelopeBalanceUpdate, core.BalanceUpdatePayload{Balance: balance})
	}
}

// recordMutation updates the cached balance and appends to the audit log.
// Audit failures are logged, never surfaced; the server already committed.
func (c *Controller) recordMutation(ctx context.Context, kind core.LedgerEntryKind, receipt core.LedgerReceipt, previous int64) {
	orgID := c.selectedOrgID()
	c.applyBalance(receipt.NewBalance)

	if c.audit == nil {
		return
	}
	entry := core.LedgerEntry{
		Kind:            kind,
		Amount:          receipt.Amount,
		Description:     receipt.Description,
		PreviousBalance: previous,
		NewBalance:      receipt.NewBalance,
		OrganizationID:  orgID,
		OccurredAt:      c.now().UTC(),
	}
	if err := c.audit.Append(ctx, entry); err != nil {
		c.log.Error("appending ledger entry failed", "error", err)
	}
}
