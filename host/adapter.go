// Package host is the parent-page counterpart of the embedded SDK. It
// answers the frame's token and user-state requests and exposes the control
// surface a host uses to steer the frame.
package host

import (
	"context"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/channel"
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/goliatone/go-logger/glog"
)

// Grant is what a host hands the frame when it asks for a token.
type Grant struct {
	Token         string
	RefreshToken  string
	User          *core.Identity
	Organization  *core.Organization
	Organizations []core.Organization
	Personas      []core.Persona
}

// TokenFunc produces a grant for the frame. Returning an error tells the
// frame the host has no signed-in user; the frame then falls back to its own
// login flow.
type TokenFunc func(ctx context.Context) (Grant, error)

type UserStateFunc func(ctx context.Context) (core.UserState, error)

type OrgsFunc func(ctx context.Context) ([]core.Organization, error)

type PersonasFunc func(ctx context.Context) ([]core.Persona, error)

// Adapter wires host-side callbacks to the channel. Every request envelope
// gets exactly one response: a data payload on success, an error payload on
// failure, never both, always timestamped.
type Adapter struct {
	ch  *channel.Channel
	log core.Logger
	now func() time.Time

	tokenFn    TokenFunc
	stateFn    UserStateFunc
	orgsFn     OrgsFunc
	personasFn PersonasFunc

	onReady   func(core.ReadyPayload)
	onBalance func(int64)
	onLogout  func()

	subs []channel.Subscription
}

type Option func(*Adapter)

func WithLogger(log core.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func WithTokenFunc(fn TokenFunc) Option {
	return func(a *Adapter) { a.tokenFn = fn }
}

func WithUserStateFunc(fn UserStateFunc) Option {
	return func(a *Adapter) { a.stateFn = fn }
}

func WithOrgsFunc(fn OrgsFunc) Option {
	return func(a *Adapter) { a.orgsFn = fn }
}

func WithPersonasFunc(fn PersonasFunc) Option {
	return func(a *Adapter) { a.personasFn = fn }
}

// WithReadyHandler observes the frame's ready announcement.
func WithReadyHandler(fn func(core.ReadyPayload)) Option {
	return func(a *Adapter) { a.onReady = fn }
}

// WithBalanceHandler observes balance updates pushed by the frame.
func WithBalanceHandler(fn func(int64)) Option {
	return func(a *Adapter) { a.onBalance = fn }
}

func WithLogoutHandler(fn func()) Option {
	return func(a *Adapter) { a.onLogout = fn }
}

func New(ch *channel.Channel, options ...Option) *Adapter {
	a := &Adapter{
		ch:  ch,
		now: time.Now,
	}
	for _, option := range options {
		if option != nil {
			option(a)
		}
	}
	a.log = glog.Ensure(a.log)
	return a
}

// Attach registers the request handlers. Call Detach to remove them.
func (a *Adapter) Attach() {
	if a == nil || a.ch == nil {
		return
	}
	a.subs = append(a.subs,
		a.ch.On(core.EnvelopeRequestJWTToken, a.handleTokenRequest),
		a.ch.On(core.EnvelopeRequestUserState, a.handleUserStateRequest),
		a.ch.On(core.EnvelopeRequestUserOrgs, a.handleOrgsRequest),
		a.ch.On(core.EnvelopeRequestUserPersonas, a.handlePersonasRequest),
		a.ch.On(core.EnvelopeCreditSystemReady, func(env core.Envelope, _ string) {
			if payload, ok := env.Payload.(core.ReadyPayload); ok && a.onReady != nil {
				a.onReady(payload)
			}
		}),
		a.ch.On(core.EnvelopeBalanceUpdate, func(env core.Envelope, _ string) {
			if payload, ok := env.Payload.(core.BalanceUpdatePayload); ok && a.onBalance != nil {
				a.onBalance(payload.Balance)
			}
		}),
		a.ch.On(core.EnvelopeLogout, func(core.Envelope, string) {
			if a.onLogout != nil {
				a.onLogout()
			}
		}),
	)
}

func (a *Adapter) Detach() {
	if a == nil {
		return
	}
	subs := a.subs
	a.subs = nil
	for _, sub := range subs {
		sub.Cancel()
	}
}

func (a *Adapter) handleTokenRequest(core.Envelope, string) {
	if a.tokenFn == nil {
		a.respond(core.EnvelopeJWTTokenResponse, core.TokenResponsePayload{
			Error: "no authenticated user is available",
		})
		return
	}
	grant, err := a.tokenFn(context.Background())
	if err != nil {
		a.respond(core.EnvelopeJWTTokenResponse, core.TokenResponsePayload{Error: err.Error()})
		return
	}
	a.respond(core.EnvelopeJWTTokenResponse, core.TokenResponsePayload{
		Token:         grant.Token,
		RefreshToken:  grant.RefreshToken,
		User:          grant.User,
		Organization:  grant.Organization,
		Organizations: grant.Organizations,
		Personas:      grant.Personas,
	})
}

func (a *Adapter) handleUserStateRequest(core.Envelope, string) {
	if a.stateFn == nil {
		a.respond(core.EnvelopeResponseUserState, core.UserStateResponsePayload{
			Error: "user state is not available",
		})
		return
	}
	state, err := a.stateFn(context.Background())
	if err != nil {
		a.respond(core.EnvelopeResponseUserState, core.UserStateResponsePayload{Error: err.Error()})
		return
	}
	a.respond(core.EnvelopeResponseUserState, core.UserStateResponsePayload{UserState: &state})
}

func (a *Adapter) handleOrgsRequest(core.Envelope, string) {
	if a.orgsFn == nil {
		a.respond(core.EnvelopeResponseUserOrgs, core.OrgsResponsePayload{
			Error: "organizations are not available",
		})
		return
	}
	orgs, err := a.orgsFn(context.Background())
	if err != nil {
		a.respond(core.EnvelopeResponseUserOrgs, core.OrgsResponsePayload{Error: err.Error()})
		return
	}
	a.respond(core.EnvelopeResponseUserOrgs, core.OrgsResponsePayload{
		Organizations: orgs,
		Count:         len(orgs),
	})
}

func (a *Adapter) handlePersonasRequest(core.Envelope, string) {
	if a.personasFn == nil {
		a.respond(core.EnvelopeResponseUserPersonas, core.PersonasResponsePayload{
			Error: "personas are not available",
		})
		return
	}
	personas, err := a.personasFn(context.Background())
	if err != nil {
		a.respond(core.EnvelopeResponseUserPersonas, core.PersonasResponsePayload{Error: err.Error()})
		return
	}
	a.respond(core.EnvelopeResponseUserPersonas, core.PersonasResponsePayload{
		Personas: personas,
		Count:    len(personas),
	})
}

func (a *Adapter) respond(envelopeType string, payload any) {
	env := core.NewEnvelope(envelopeType, payload, a.now())
	if err := a.ch.SendToParent(env); err != nil {
		a.log.Error("response not delivered to frame", "type", envelopeType, "error", err)
	}
}

// RequestBalanceRefresh asks the frame to re-fetch its balance.
func (a *Adapter) RequestBalanceRefresh() error {
	if a == nil || a.ch == nil {
		return nil
	}
	return a.ch.SendToParent(core.NewEnvelope(core.EnvelopeRefreshBalance, core.EmptyPayload{}, a.now()))
}

// RequestStatus probes the frame and waits for its status snapshot.
func (a *Adapter) RequestStatus(ctx context.Context, timeout time.Duration) (core.StatusResponsePayload, error) {
	request := core.NewEnvelope(core.EnvelopeGetStatus, core.EmptyPayload{}, a.now())
	response, err := channel.RoundTrip(ctx, a.ch, request, core.EnvelopeStatusResponse, timeout)
	if err != nil {
		return core.StatusResponsePayload{}, err
	}
	payload, _ := response.Payload.(core.StatusResponsePayload)
	return payload, nil
}

// ClearFrameStorage tells the frame to drop its persisted credentials.
func (a *Adapter) ClearFrameStorage() error {
	if a == nil || a.ch == nil {
		return nil
	}
	return a.ch.SendToParent(core.NewEnvelope(core.EnvelopeClearStorage, core.EmptyPayload{}, a.now()))
}
