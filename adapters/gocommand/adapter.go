// Package gocommand wires the SDK's session commands into a go-command
// registry and dispatcher.
package gocommand

import (
	"context"
	"fmt"
	"strings"

	sdkcommand "github.com/developersupreme/supreme-ai-sdk-sub001/command"
	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// ValidateMessageContract enforces the Type() plus optional Validate()
// contract before a message reaches the dispatcher.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

// RegisterAndSubscribe registers a command and subscribes it on the
// dispatcher, unsubscribing again if registration fails.
func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// RegisterSessionCommands wires the full session command set for a service.
// The returned subscriptions detach the commands from the dispatcher.
func RegisterSessionCommands(adapter *RegistryAdapter, service sdkcommand.SessionService) ([]commanddispatcher.Subscription, error) {
	if service == nil {
		return nil, fmt.Errorf("gocommand: session service is required")
	}

	subs := []commanddispatcher.Subscription{}
	fail := func(err error) ([]commanddispatcher.Subscription, error) {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
		return nil, err
	}

	login, err := RegisterAndSubscribe(adapter, sdkcommand.NewLoginCommand(service))
	if err != nil {
		return fail(err)
	}
	subs = append(subs, login)

	logout, err := RegisterAndSubscribe(adapter, sdkcommand.NewLogoutCommand(service))
	if err != nil {
		return fail(err)
	}
	subs = append(subs, logout)

	refresh, err := RegisterAndSubscribe(adapter, sdkcommand.NewRefreshCommand(service))
	if err != nil {
		return fail(err)
	}
	subs = append(subs, refresh)

	check, err := RegisterAndSubscribe(adapter, sdkcommand.NewCheckBalanceCommand(service))
	if err != nil {
		return fail(err)
	}
	subs = append(subs, check)

	spend, err := RegisterAndSubscribe(adapter, sdkcommand.NewSpendCommand(service))
	if err != nil {
		return fail(err)
	}
	subs = append(subs, spend)

	add, err := RegisterAndSubscribe(adapter, sdkcommand.NewAddCommand(service))
	if err != nil {
		return fail(err)
	}
	subs = append(subs, add)

	return subs, nil
}
