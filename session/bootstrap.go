package session

import (
	"context"

	"github.com/developersupreme/supreme-ai-sdk-sub001/channel"
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
)

// Initialize resolves the operating mode and runs the matching bootstrap
// path. It is idempotent; a second call while the session is live is a no-op.
// Ending unauthenticated is a valid outcome, not an error: the auth-required
// event has already fired and the caller recovers through Login.
func (c *Controller) Initialize(ctx context.Context) error {
	if c == nil {
		return core.NewSDKError("session is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	mode := c.resolveModeLocked()
	c.session.Mode = mode
	c.mu.Unlock()

	if mode == core.ModeEmbedded {
		return c.bootstrapEmbedded(ctx)
	}
	return c.bootstrapStandalone(ctx)
}

// resolveModeLocked applies the configured mode, falling back to parent
// detection when the config says auto.
func (c *Controller) resolveModeLocked() core.Mode {
	mode := c.cfg.ResolvedMode()
	if mode != core.ModeAuto {
		return mode
	}
	if c.ch != nil && c.ch.Parent() != nil {
		return core.ModeEmbedded
	}
	return core.ModeStandalone
}

// bootstrapEmbedded asks the host for a token and waits up to the parent
// timeout. An explicit error payload or a timeout each fall back to
// standalone exactly once; the host is never asked again in this session.
func (c *Controller) bootstrapEmbedded(ctx context.Context) error {
	c.setPhase(core.PhaseEmbeddedBootstrap)

	origin := ""
	if c.ch != nil {
		origin = c.ch.Origin()
	}
	request := core.NewEnvelope(core.EnvelopeRequestJWTToken, core.TokenRequestPayload{Origin: origin}, c.now())
	response, err := channel.RoundTrip(ctx, c.ch, request, core.EnvelopeJWTTokenResponse, c.cfg.ParentWait())
	if err != nil {
		if core.IsTimeout(err) {
			c.log.Debug("host did not answer the token request in time")
			c.events.emit(Event{Name: EventParentTimeout})
			return c.fallbackToStandalone(ctx)
		}
		c.log.Debug("token request could not reach the host", "error", err)
		return c.fallbackToStandalone(ctx)
	}

	payload, ok := response.Payload.(core.TokenResponsePayload)
	if !ok || payload.Error != "" || payload.Token == "" {
		c.events.emit(Event{Name: EventHostAuthRequired})
		return c.fallbackToStandalone(ctx)
	}

	identity := payload.User.Clone()
	if len(payload.Organizations) > 0 || len(payload.Personas) > 0 || payload.Organization != nil {
		update := &core.Identity{
			Organizations: payload.Organizations,
			Personas:      payload.Personas,
		}
		if payload.Organization != nil {
			selected := *payload.Organization
			selected.Selected = true
			update.Organizations = append(update.Organizations, selected)
		}
		identity = core.MergeIdentity(identity, update)
	}

	auth := core.PersistedAuth{
		Token:        payload.Token,
		RefreshToken: payload.RefreshToken,
		User:         identity,
	}
	if err := c.store.Save(ctx, auth); err != nil {
		return err
	}

	c.mu.Lock()
	c.session.Authenticated = true
	c.session.Identity = identity
	c.mu.Unlock()

	if err := c.postAuthSetup(ctx); err != nil {
		return err
	}
	c.notifyHost(core.EnvelopeCreditSystemReady, core.ReadyPayload{
		User: identity,
		Mode: string(core.ModeEmbedded),
	})
	return nil
}

// fallbackToStandalone switches modes once per session. A second failure
// after the switch lands in unauthenticated instead of looping.
func (c *Controller) fallbackToStandalone(ctx context.Context) error {
	c.mu.Lock()
	if c.fellBack {
		c.session.Phase = core.PhaseUnauthenticated
		c.mu.Unlock()
		c.signalAuthRequired()
		return nil
	}
	c.fellBack = true
	c.session.Mode = core.ModeStandalone
	c.mu.Unlock()
	return c.bootstrapStandalone(ctx)
}

// bootstrapStandalone resumes from the persisted slot. No slot means
// interactive login is required; a stale token gets exactly one refresh
// attempt, and only when a refresh token is stored.
func (c *Controller) bootstrapStandalone(ctx context.Context) error {
	c.setPhase(core.PhaseStandaloneBootstrap)

	auth, ok, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if !ok || !auth.Credentials().HasAccessToken() {
		c.setPhase(core.PhaseUnauthenticated)
		c.signalAuthRequired()
		return nil
	}

	result, err := c.creds.Validate(ctx, auth.Token)
	if err != nil {
		return err
	}
	if result.Valid {
		identity := core.MergeIdentity(auth.User, result.User)
		if result.User != nil || auth.User == nil {
			auth.User = identity
			if err := c.store.Save(ctx, auth); err != nil {
				return err
			}
		}
		c.mu.Lock()
		c.session.Authenticated = true
		c.session.Identity = identity
		c.mu.Unlock()
		return c.postAuthSetup(ctx)
	}

	if !auth.Credentials().HasRefreshToken() {
		c.setPhase(core.PhaseUnauthenticated)
		c.signalAuthRequired()
		return nil
	}

	if err := c.refreshOnce(ctx); err != nil {
		c.setPhase(core.PhaseUnauthenticated)
		c.signalAuthRequired()
		return nil
	}

	c.mu.Lock()
	c.session.Authenticated = true
	c.session.Identity = auth.User.Clone()
	c.mu.Unlock()
	return c.postAuthSetup(ctx)
}

// postAuthSetup is the one-time transition into ready: periodic refresh,
// feature wiring, host enrichment, and the ready event. Safe to call again;
// the second call is a no-op.
func (c *Controller) postAuthSetup(ctx context.Context) error {
	c.mu.Lock()
	if c.setupDone {
		c.mu.Unlock()
		return nil
	}
	c.setupDone = true
	c.session.Initialized = true
	c.session.Phase = core.PhaseReady
	mode := c.session.Mode
	c.mu.Unlock()

	c.startRefreshLoop()

	if mode == core.ModeEmbedded {
		c.registerHostControls()
		c.enrichFromHost(ctx)
	}

	if c.cfg.Features.Credits {
		if _, err := c.CheckBalance(ctx); err != nil {
			c.log.Debug("initial balance fetch failed", "error", err)
		}
		c.startBalanceLoop()
	}

	if c.cfg.Features.Personas {
		c.loadPersonas(ctx)
	}

	c.mu.Lock()
	identity := c.session.Identity.Clone()
	c.mu.Unlock()
	c.events.emit(Event{Name: EventReady, Payload: core.ReadyPayload{
		User: identity,
		Mode: string(mode),
	}})
	c.metrics.IncCounter(ctx, "sdk.session.ready", 1, map[string]string{"mode": string(mode)})
	return nil
}

func (c *Controller) setPhase(phase core.SessionPhase) {
	c.mu.Lock()
	c.session.Phase = phase
	c.mu.Unlock()
}

// enrichFromHost asks the parent for the current user state. The merge never
// drops organizations the host did not mention; only the selected flag is
// recomputed. A silent host is not an error.
func (c *Controller) enrichFromHost(ctx context.Context) {
	request := core.NewEnvelope(core.EnvelopeRequestUserState, core.UserStateRequestPayload{Origin: c.ch.Origin()}, c.now())
	response, err := channel.RoundTrip(ctx, c.ch, request, core.EnvelopeResponseUserState, c.cfg.UserStateWait())
	if err != nil {
		c.log.Debug("user state enrichment skipped", "error", err)
		return
	}
	payload, ok := response.Payload.(core.UserStateResponsePayload)
	if !ok || payload.Error != "" || payload.UserState == nil {
		return
	}

	c.mu.Lock()
	c.session.Identity = core.ApplyUserState(c.session.Identity, *payload.UserState)
	identity := c.session.Identity.Clone()
	c.mu.Unlock()

	auth, found, err := c.store.Load(ctx)
	if err == nil && found {
		auth.User = identity
		if err := c.store.Save(ctx, auth); err != nil {
			c.log.Debug("persisting enriched identity failed", "error", err)
		}
	}
}

// loadPersonas prefers the local persona store over a host round-trip; the
// host is only asked when no cached list exists and a parent is attached.
func (c *Controller) loadPersonas(ctx context.Context) {
	orgID := ""
	c.mu.Lock()
	if org, ok := c.session.Identity.SelectedOrganization(); ok {
		orgID = org.ID
	}
	mode := c.session.Mode
	c.mu.Unlock()

	if c.personas != nil {
		personas, err := c.personas.List(ctx, orgID)
		if err == nil && len(personas) > 0 {
			c.mergePersonas(personas)
			return
		}
		if err != nil {
			c.log.Debug("persona store lookup failed", "error", err)
		}
	}

	if mode != core.ModeEmbedded {
		return
	}
	request := core.NewEnvelope(core.EnvelopeRequestUserPersonas, core.EmptyPayload{}, c.now())
	response, err := channel.RoundTrip(ctx, c.ch, request, core.EnvelopeResponseUserPersonas, c.cfg.UserStateWait())
	if err != nil {
		c.log.Debug("persona fetch from host skipped", "error", err)
		return
	}
	payload, ok := response.Payload.(core.PersonasResponsePayload)
	if !ok || payload.Error != "" {
		return
	}
	c.mergePersonas(payload.Personas)
}

func (c *Controller) mergePersonas(personas []core.Persona) {
	c.mu.Lock()
	c.session.Personas = core.MergePersonas(c.session.Personas, personas)
	if c.session.Identity != nil {
		c.session.Identity.Personas = core.MergePersonas(c.session.Identity.Personas, personas)
	}
	c.mu.Unlock()
}

// Organizations asks the host for the user's organizations. Embedded only.
func (c *Controller) Organizations(ctx context.Context) ([]core.Organization, error) {
	if c.Mode() != core.ModeEmbedded {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.session.Identity == nil {
			return nil, nil
		}
		return append([]core.Organization(nil), c.session.Identity.Organizations...), nil
	}
	request := core.NewEnvelope(core.EnvelopeRequestUserOrgs, core.EmptyPayload{}, c.now())
	response, err := channel.RoundTrip(ctx, c.ch, request, core.EnvelopeResponseUserOrgs, c.cfg.UserStateWait())
	if err != nil {
		return nil, err
	}
	payload, ok := response.Payload.(core.OrgsResponsePayload)
	if !ok {
		return nil, core.NewSDKError("unexpected organizations response", goerrors.CategoryExternal, core.SDKErrorRequestFailed)
	}
	if payload.Error != "" {
		return nil, core.NewSDKError(payload.Error, goerrors.CategoryExternal, core.SDKErrorRequestFailed)
	}

	c.mu.Lock()
	c.session.Identity = core.MergeIdentity(c.session.Identity, &core.Identity{Organizations: payload.Organizations})
	c.mu.Unlock()
	return payload.Organizations, nil
}

// registerHostControls wires the host-to-frame control surface: balance
// refresh on demand, status probes, and remote storage clears.
func (c *Controller) registerHostControls() {
	if c.ch == nil {
		return
	}
	subs := []channel.Subscription{
		c.ch.On(core.EnvelopeRefreshBalance, func(env core.Envelope, origin string) {
			if _, err := c.CheckBalance(context.Background()); err != nil {
				c.log.Debug("host requested balance refresh failed", "error", err)
			}
		}),
		c.ch.On(core.EnvelopeGetStatus, func(env core.Envelope, origin string) {
			snap := c.Snapshot()
			c.notifyHost(core.EnvelopeStatusResponse, core.StatusResponsePayload{
				Initialized: snap.Initialized,
				Mode:        string(snap.Mode),
				User:        snap.Identity,
				Balance:     snap.Balance,
			})
		}),
		c.ch.On(core.EnvelopeClearStorage, func(env core.Envelope, origin string) {
			if err := c.store.Clear(context.Background()); err != nil {
				c.log.Error("host requested storage clear failed", "error", err)
				return
			}
			c.stopPeriodicWork()
			c.mu.Lock()
			c.session.Authenticated = false
			c.session.Phase = core.PhaseUnauthenticated
			c.session.Identity = nil
			c.session.Balance = 0
			c.setupDone = false
			c.mu.Unlock()
			c.signalAuthRequired()
		}),
	}

	c.mu.Lock()
	c.hostSubs = append(c.hostSubs, subs...)
	c.mu.Unlock()
}
