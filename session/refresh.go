package session

import (
	"context"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Refresh runs one refresh cycle. A cycle that cannot start (no stored
// refresh token) or that the server rejects is fatal for the session: the
// controller drops to unauthenticated and fires the token-expired signal.
// There is no retry inside a cycle.
func (c *Controller) Refresh(ctx context.Context) error {
	if c == nil {
		return core.NewSDKError("session is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	c.setPhase(core.PhaseRefreshing)

	if err := c.refreshOnce(ctx); err != nil {
		c.stopPeriodicWork()
		c.mu.Lock()
		c.session.Authenticated = false
		c.session.Phase = core.PhaseUnauthenticated
		c.setupDone = false
		c.mu.Unlock()
		c.signalTokenExpired()
		c.metrics.IncCounter(ctx, "sdk.session.refresh_failed", 1, nil)
		return err
	}
	c.metrics.IncCounter(ctx, "sdk.session.refreshed", 1, nil)
	return nil
}

// refreshOnce exchanges the stored refresh token for a new access token and
// persists the result. The stored refresh token survives verbatim unless the
// server rotated it; an absent rotation never clears it. The network is not
// touched when no refresh token is stored.
func (c *Controller) refreshOnce(ctx context.Context) error {
	auth, ok, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if !ok || !auth.Credentials().HasRefreshToken() {
		return core.NewSDKError("no refresh token is stored", goerrors.CategoryAuth, core.SDKErrorCredentialInvalid)
	}

	outcome, err := c.creds.Refresh(ctx, auth.RefreshToken)
	if err != nil {
		return err
	}

	auth.Token = outcome.AccessToken
	if outcome.Rotated {
		auth.RefreshToken = outcome.RefreshToken
	}
	if err := c.store.Save(ctx, auth); err != nil {
		return err
	}

	embedded := false
	c.mu.Lock()
	if c.session.Phase == core.PhaseRefreshing {
		c.session.Phase = core.PhaseReady
	}
	embedded = c.session.Mode == core.ModeEmbedded
	c.mu.Unlock()

	if embedded {
		c.notifyHost(core.EnvelopeJWTTokenRefreshed, core.TokenRefreshedPayload{Token: outcome.AccessToken})
	}
	c.events.emit(Event{Name: EventTokenRefreshed})
	return nil
}

// startRefreshLoop arms the periodic refresh. With a job enqueuer attached
// the tick only enqueues work for an external fleet; otherwise the cycle runs
// in process. The loop exits when a cycle fails, because the session is
// unauthenticated at that point.
func (c *Controller) startRefreshLoop() {
	interval := c.cfg.RefreshInterval()
	if interval <= 0 {
		return
	}

	stop := make(chan struct{})
	c.mu.Lock()
	if c.stopRefresh != nil {
		c.mu.Unlock()
		close(stop)
		return
	}
	c.stopRefresh = stop
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if c.jobs != nil {
					msg := &core.JobExecutionMessage{
						JobID:          RefreshJobID,
						IdempotencyKey: uuid.NewString(),
						DedupPolicy:    "drop",
					}
					if err := c.jobs.Enqueue(context.Background(), msg); err != nil {
						c.log.Error("enqueue refresh job failed", "error", err)
					}
					continue
				}
				if err := c.Refresh(context.Background()); err != nil {
					return
				}
			}
		}
	}()
}

// startBalanceLoop arms the periodic balance poll for the credits feature.
func (c *Controller) startBalanceLoop() {
	interval := c.cfg.BalancePollInterval()
	if interval <= 0 {
		return
	}

	stop := make(chan struct{})
	c.mu.Lock()
	if c.stopBalance != nil {
		c.mu.Unlock()
		close(stop)
		return
	}
	c.stopBalance = stop
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if _, err := c.CheckBalance(context.Background()); err != nil {
					c.log.Debug("periodic balance poll failed", "error", err)
				}
			}
		}
	}()
}
