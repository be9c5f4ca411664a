package sdk

import (
	"context"
	"testing"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/developersupreme/supreme-ai-sdk-sub001/session"
	"github.com/developersupreme/supreme-ai-sdk-sub001/store"
)

type credsStub struct{}

func (credsStub) Login(context.Context, string, string) (core.LoginResult, error) {
	return core.LoginResult{}, nil
}

func (credsStub) Validate(context.Context, string) (core.ValidateResult, error) {
	return core.ValidateResult{Valid: true}, nil
}

func (credsStub) Refresh(context.Context, string) (core.RefreshOutcome, error) {
	return core.RefreshOutcome{}, nil
}

func (credsStub) Logout(context.Context, string) error { return nil }

func TestNewResolvesRawConfig(t *testing.T) {
	client, err := New(context.Background(),
		WithRawConfig(map[string]any{
			"api_base_url": "https://api.example.test/credits",
			"auth_url":     "https://api.example.test/auth",
			"mode":         "standalone",
			"auto_init":    false,
		}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer client.Teardown()

	cfg := client.Config()
	if cfg.APIBaseURL != "https://api.example.test/credits" || cfg.Mode != "standalone" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.StoragePrefix != core.DefaultStoragePrefix {
		t.Fatalf("expected defaults layered under raw values, got %q", cfg.StoragePrefix)
	}
	if client.Commands().Spend == nil || client.Commands().Login == nil {
		t.Fatalf("expected commands wired")
	}
	if client.Queries().Balance == nil || client.Queries().Status == nil {
		t.Fatalf("expected queries wired")
	}
}

func TestNewRejectsInvalidMode(t *testing.T) {
	_, err := New(context.Background(),
		WithRawConfig(map[string]any{
			"auth_url": "https://api.example.test/auth",
			"mode":     "sideways",
		}),
	)
	if err == nil {
		t.Fatalf("expected config validation failure")
	}
}

func TestNewRequiresAuthURLWithoutCustomService(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatalf("expected error without auth_url")
	}
}

func quietStandaloneConfig(autoInit bool) map[string]any {
	return map[string]any{
		"mode":                        "standalone",
		"auto_init":                   autoInit,
		"token_refresh_interval_ms":   0,
		"balance_refresh_interval_ms": 0,
		"features": map[string]any{
			"credits":  false,
			"personas": false,
		},
	}
}

func TestStartHonorsAutoInit(t *testing.T) {
	client, err := New(context.Background(),
		WithRawConfig(quietStandaloneConfig(false)),
		WithCredentialService(credsStub{}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer client.Teardown()

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if phase := client.Controller().Phase(); phase != core.PhaseUnresolved {
		t.Fatalf("auto init disabled must not bootstrap, got phase %s", phase)
	}

	if err := client.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if phase := client.Controller().Phase(); phase == core.PhaseUnresolved {
		t.Fatalf("explicit initialize must bootstrap")
	}
}

func TestStartBootstrapsWhenAutoInitEnabled(t *testing.T) {
	authRequired := false
	client, err := New(context.Background(),
		WithRawConfig(quietStandaloneConfig(true)),
		WithCredentialService(credsStub{}),
		WithAuthStore(store.NewMemoryAuthStore(nil)),
		WithAuthRequiredCallback(func() { authRequired = true }),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer client.Teardown()

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !authRequired {
		t.Fatalf("expected auth-required callback without persisted credentials")
	}
	if phase := client.Controller().Phase(); phase != core.PhaseUnauthenticated {
		t.Fatalf("unexpected phase %s", phase)
	}
}

func TestControllerSatisfiesEventSurface(t *testing.T) {
	client, err := New(context.Background(),
		WithRawConfig(quietStandaloneConfig(false)),
		WithCredentialService(credsStub{}),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer client.Teardown()

	handle := client.Controller().On(session.EventReady, func(session.Event) {})
	if handle == nil {
		t.Fatalf("expected listener handle")
	}
	handle.Cancel()
}
