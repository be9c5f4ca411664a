package channel

import (
	"context"
	"testing"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

func wireForRequests(t *testing.T) (*Channel, *Channel) {
	t.Helper()
	host := New("https://host.example.com")
	guest := New("https://app.example.com",
		WithAllowedOrigins("https://host.example.com"),
	)
	toGuest, toHost := Wire(host, guest)
	guest.SetParent(toHost)
	host.SetParent(toGuest)
	return host, guest
}

func TestRoundTripResolvesWithResponse(t *testing.T) {
	host, guest := wireForRequests(t)

	host.On(core.EnvelopeRequestJWTToken, func(env core.Envelope, _ string) {
		response := core.NewEnvelope(core.EnvelopeJWTTokenResponse, core.TokenResponsePayload{
			Token:        "t1",
			RefreshToken: "r1",
		}, time.Now())
		if err := host.SendToParent(response); err != nil {
			t.Errorf("host reply: %v", err)
		}
	})

	request := core.NewEnvelope(core.EnvelopeRequestJWTToken, core.TokenRequestPayload{Origin: guest.Origin()}, time.Now())
	env, err := RoundTrip(context.Background(), guest, request, core.EnvelopeJWTTokenResponse, time.Second)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	payload, ok := env.Payload.(core.TokenResponsePayload)
	if !ok {
		t.Fatalf("expected token response payload, got %T", env.Payload)
	}
	if payload.Token != "t1" || payload.RefreshToken != "r1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestRoundTripTimesOutWhenHostSilent(t *testing.T) {
	_, guest := wireForRequests(t)

	request := core.NewEnvelope(core.EnvelopeRequestJWTToken, core.TokenRequestPayload{}, time.Now())
	_, err := RoundTrip(context.Background(), guest, request, core.EnvelopeJWTTokenResponse, 20*time.Millisecond)
	if err == nil {
		t.Fatalf("expected timeout")
	}
	if !core.IsTimeout(err) {
		t.Fatalf("expected timeout classification, got %v", err)
	}
}

func TestRoundTripFailsFastWithoutParent(t *testing.T) {
	guest := New("https://app.example.com")
	request := core.NewEnvelope(core.EnvelopeRequestJWTToken, core.TokenRequestPayload{}, time.Now())
	_, err := RoundTrip(context.Background(), guest, request, core.EnvelopeJWTTokenResponse, time.Second)
	if err == nil {
		t.Fatalf("expected error without parent pipe")
	}
	if mapped := core.MapSDKError(err); mapped.TextCode != core.SDKErrorHostUnavailable {
		t.Fatalf("expected host-unavailable, got %s", mapped.TextCode)
	}
}

func TestRoundTripHonorsContextCancellation(t *testing.T) {
	_, guest := wireForRequests(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	request := core.NewEnvelope(core.EnvelopeRequestJWTToken, core.TokenRequestPayload{}, time.Now())
	_, err := RoundTrip(ctx, guest, request, core.EnvelopeJWTTokenResponse, time.Second)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestRoundTripDiscardsLateDuplicateResponses(t *testing.T) {
	host, guest := wireForRequests(t)

	host.On(core.EnvelopeRequestJWTToken, func(core.Envelope, string) {
		for i := 0; i < 3; i++ {
			response := core.NewEnvelope(core.EnvelopeJWTTokenResponse, core.TokenResponsePayload{Token: "t1"}, time.Now())
			_ = host.SendToParent(response)
		}
	})

	request := core.NewEnvelope(core.EnvelopeRequestJWTToken, core.TokenRequestPayload{}, time.Now())
	env, err := RoundTrip(context.Background(), guest, request, core.EnvelopeJWTTokenResponse, time.Second)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if payload := env.Payload.(core.TokenResponsePayload); payload.Token != "t1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
