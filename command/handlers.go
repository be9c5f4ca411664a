package command

import (
	"context"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	gocmd "github.com/goliatone/go-command"
)

// SessionService is the slice of the session controller the commands drive.
type SessionService interface {
	Login(ctx context.Context, email string, password string) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	CheckBalance(ctx context.Context) (int64, error)
	Spend(ctx context.Context, amount int64, description string) (core.LedgerReceipt, error)
	Add(ctx context.Context, amount int64, description string) (core.LedgerReceipt, error)
}

type LoginCommand struct {
	service SessionService
}

func NewLoginCommand(service SessionService) *LoginCommand {
	return &LoginCommand{service: service}
}

func (c *LoginCommand) Execute(ctx context.Context, msg LoginMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandInvalidInputError(err.Error())
	}
	return c.service.Login(ctx, msg.Email, msg.Password)
}

type LogoutCommand struct {
	service SessionService
}

func NewLogoutCommand(service SessionService) *LogoutCommand {
	return &LogoutCommand{service: service}
}

func (c *LogoutCommand) Execute(ctx context.Context, msg LogoutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	return c.service.Logout(ctx)
}

type RefreshCommand struct {
	service SessionService
}

func NewRefreshCommand(service SessionService) *RefreshCommand {
	return &RefreshCommand{service: service}
}

func (c *RefreshCommand) Execute(ctx context.Context, msg RefreshMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	return c.service.Refresh(ctx)
}

type CheckBalanceCommand struct {
	service SessionService
}

func NewCheckBalanceCommand(service SessionService) *CheckBalanceCommand {
	return &CheckBalanceCommand{service: service}
}

func (c *CheckBalanceCommand) Execute(ctx context.Context, msg CheckBalanceMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	balance, err := c.service.CheckBalance(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, balance)
	return nil
}

type SpendCommand struct {
	service SessionService
}

func NewSpendCommand(service SessionService) *SpendCommand {
	return &SpendCommand{service: service}
}

func (c *SpendCommand) Execute(ctx context.Context, msg SpendMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandInvalidInputError(err.Error())
	}
	out, err := c.service.Spend(ctx, msg.Amount, msg.Description)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type AddCommand struct {
	service SessionService
}

func NewAddCommand(service SessionService) *AddCommand {
	return &AddCommand{service: service}
}

func (c *AddCommand) Execute(ctx context.Context, msg AddMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: session service is required")
	}
	if err := msg.Validate(); err != nil {
		return commandInvalidInputError(err.Error())
	}
	out, err := c.service.Add(ctx, msg.Amount, msg.Description)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
