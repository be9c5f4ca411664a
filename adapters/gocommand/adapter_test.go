package gocommand

import (
	"context"
	"testing"

	sdkcommand "github.com/developersupreme/supreme-ai-sdk-sub001/command"
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

type sessionStub struct {
	loginCalls int
	spendCalls int
}

func (s *sessionStub) Login(context.Context, string, string) error {
	s.loginCalls++
	return nil
}

func (s *sessionStub) Logout(context.Context) error  { return nil }
func (s *sessionStub) Refresh(context.Context) error { return nil }

func (s *sessionStub) CheckBalance(context.Context) (int64, error) { return 0, nil }

func (s *sessionStub) Spend(context.Context, int64, string) (core.LedgerReceipt, error) {
	s.spendCalls++
	return core.LedgerReceipt{}, nil
}

func (s *sessionStub) Add(context.Context, int64, string) (core.LedgerReceipt, error) {
	return core.LedgerReceipt{}, nil
}

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(sdkcommand.LoginMessage{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(struct{}{}); err == nil {
		t.Fatalf("expected contract violation for untyped message")
	}
}

func TestRegisterSessionCommandsDispatches(t *testing.T) {
	service := &sessionStub{}
	adapter := NewRegistryAdapter(nil)

	subs, err := RegisterSessionCommands(adapter, service)
	if err != nil {
		t.Fatalf("register session commands: %v", err)
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()
	if len(subs) != 6 {
		t.Fatalf("expected six subscriptions, got %d", len(subs))
	}

	if err := Dispatch(context.Background(), sdkcommand.LoginMessage{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("dispatch login: %v", err)
	}
	if service.loginCalls != 1 {
		t.Fatalf("expected login dispatched, got %d calls", service.loginCalls)
	}

	if err := Dispatch(context.Background(), sdkcommand.SpendMessage{Amount: 10, Description: "run"}); err != nil {
		t.Fatalf("dispatch spend: %v", err)
	}
	if service.spendCalls != 1 {
		t.Fatalf("expected spend dispatched, got %d calls", service.spendCalls)
	}
}

func TestRegisterSessionCommandsRequiresService(t *testing.T) {
	if _, err := RegisterSessionCommands(NewRegistryAdapter(nil), nil); err == nil {
		t.Fatalf("expected error without service")
	}
}
