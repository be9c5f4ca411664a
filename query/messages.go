// Package query exposes the read side of the session controller as go-command
// queries: current balance, ledger history pages, and a session status
// snapshot.
package query

import (
	"fmt"
)

const (
	TypeBalance = "sdk.query.balance"
	TypeHistory = "sdk.query.history"
	TypeStatus  = "sdk.query.status"
)

type BalanceMessage struct{}

func (BalanceMessage) Type() string { return TypeBalance }

func (BalanceMessage) Validate() error { return nil }

type HistoryMessage struct {
	Page  int
	Limit int
}

func (HistoryMessage) Type() string { return TypeHistory }

func (m HistoryMessage) Validate() error {
	if m.Page < 1 {
		return fmt.Errorf("query: page must be >= 1")
	}
	if m.Limit < 1 {
		return fmt.Errorf("query: limit must be >= 1")
	}
	return nil
}

type StatusMessage struct{}

func (StatusMessage) Type() string { return TypeStatus }

func (StatusMessage) Validate() error { return nil }
