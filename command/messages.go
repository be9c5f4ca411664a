package command

import (
	"fmt"
	"strings"
)

const (
	TypeLogin        = "sdk.command.login"
	TypeLogout       = "sdk.command.logout"
	TypeRefresh      = "sdk.command.refresh"
	TypeCheckBalance = "sdk.command.credits.check"
	TypeSpend        = "sdk.command.credits.spend"
	TypeAdd          = "sdk.command.credits.add"
)

type LoginMessage struct {
	Email    string
	Password string
}

func (LoginMessage) Type() string { return TypeLogin }

func (m LoginMessage) Validate() error {
	if strings.TrimSpace(m.Email) == "" {
		return fmt.Errorf("command: email is required")
	}
	if m.Password == "" {
		return fmt.Errorf("command: password is required")
	}
	return nil
}

type LogoutMessage struct{}

func (LogoutMessage) Type() string { return TypeLogout }

func (LogoutMessage) Validate() error { return nil }

type RefreshMessage struct{}

func (RefreshMessage) Type() string { return TypeRefresh }

func (RefreshMessage) Validate() error { return nil }

type CheckBalanceMessage struct{}

func (CheckBalanceMessage) Type() string { return TypeCheckBalance }

func (CheckBalanceMessage) Validate() error { return nil }

type SpendMessage struct {
	Amount      int64
	Description string
}

func (SpendMessage) Type() string { return TypeSpend }

func (m SpendMessage) Validate() error {
	if m.Amount <= 0 {
		return fmt.Errorf("command: amount must be a positive integer")
	}
	return nil
}

type AddMessage struct {
	Amount      int64
	Description string
}

func (AddMessage) Type() string { return TypeAdd }

func (m AddMessage) Validate() error {
	if m.Amount <= 0 {
		return fmt.Errorf("command: amount must be a positive integer")
	}
	return nil
}
