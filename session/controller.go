package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/channel"
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/developersupreme/supreme-ai-sdk-sub001/transport"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
)

// RefreshJobID names the enqueued job that asks an external worker fleet to
// drive one refresh cycle instead of the in-process ticker.
const RefreshJobID = "sdk.session.refresh"

// Controller owns the session record: mode, phase, identity, balance. It is
// the only writer of both the record and the persisted auth slot; every other
// component reads through it.
type Controller struct {
	cfg      core.Config
	ch       *channel.Channel
	creds    core.CredentialService
	ledger   core.LedgerService
	store    core.AuthStore
	personas core.PersonaStore
	audit    core.LedgerLog
	jobs     core.JobEnqueuer
	metrics  core.MetricsRecorder
	log      core.Logger
	now      func() time.Time

	onAuthRequired func()
	onTokenExpired func()

	events *emitter

	mu          sync.Mutex
	session     core.Session
	started     bool
	fellBack    bool
	setupDone   bool
	stopRefresh chan struct{}
	stopBalance chan struct{}
	hostSubs    []channel.Subscription
}

type Option func(*Controller)

func WithConfig(cfg core.Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

func WithChannel(ch *channel.Channel) Option {
	return func(c *Controller) { c.ch = ch }
}

func WithCredentialService(creds core.CredentialService) Option {
	return func(c *Controller) { c.creds = creds }
}

func WithLedgerService(ledger core.LedgerService) Option {
	return func(c *Controller) { c.ledger = ledger }
}

func WithAuthStore(store core.AuthStore) Option {
	return func(c *Controller) { c.store = store }
}

func WithPersonaStore(personas core.PersonaStore) Option {
	return func(c *Controller) { c.personas = personas }
}

func WithLedgerLog(audit core.LedgerLog) Option {
	return func(c *Controller) { c.audit = audit }
}

func WithJobEnqueuer(jobs core.JobEnqueuer) Option {
	return func(c *Controller) { c.jobs = jobs }
}

func WithMetrics(metrics core.MetricsRecorder) Option {
	return func(c *Controller) { c.metrics = metrics }
}

func WithLogger(log core.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithClock overrides the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithAuthRequiredCallback registers the hook fired whenever the controller
// lands in the unauthenticated phase needing interactive login.
func WithAuthRequiredCallback(fn func()) Option {
	return func(c *Controller) { c.onAuthRequired = fn }
}

// WithTokenExpiredCallback registers the hook fired when a credential can no
// longer be refreshed.
func WithTokenExpiredCallback(fn func()) Option {
	return func(c *Controller) { c.onTokenExpired = fn }
}

func New(options ...Option) (*Controller, error) {
	c := &Controller{
		cfg: core.DefaultConfig(),
		now: time.Now,
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	if c.creds == nil {
		return nil, fmt.Errorf("session: credential service is required")
	}
	if c.store == nil {
		return nil, fmt.Errorf("session: auth store is required")
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	if c.metrics == nil {
		c.metrics = core.NopMetricsRecorder{}
	}
	c.log = glog.Ensure(c.log)
	c.events = newEmitter(func(name string, recovered any) {
		c.log.Error("event listener panicked", "event", name, "panic", recovered)
	})
	c.session = core.Session{Mode: core.ModeAuto, Phase: core.PhaseUnresolved}
	return c, nil
}

// On registers an event listener. See the Event* constants for names.
func (c *Controller) On(name string, listener Listener) ListenerHandle {
	if c == nil {
		return (*listenerHandle)(nil)
	}
	return c.events.on(name, listener)
}

// Snapshot returns a copy of the current session record.
func (c *Controller) Snapshot() core.Session {
	if c == nil {
		return core.Session{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.session
	snap.Identity = c.session.Identity.Clone()
	snap.Personas = append([]core.Persona(nil), c.session.Personas...)
	return snap
}

func (c *Controller) Mode() core.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Mode
}

func (c *Controller) Phase() core.SessionPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Phase
}

func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Authenticated
}

// AccessToken re-reads the persisted slot so a concurrent refresh is visible
// to the next outbound request. Satisfies transport.CredentialAccessor.
func (c *Controller) AccessToken(ctx context.Context) (string, error) {
	if c == nil || c.store == nil {
		return "", core.NewSDKError("session is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	auth, ok, err := c.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return auth.Token, nil
}

// Login authenticates interactively and brings the session to ready. It is
// the standalone recovery path after an auth-required signal.
func (c *Controller) Login(ctx context.Context, email string, password string) error {
	if c == nil {
		return core.NewSDKError("session is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	result, err := c.creds.Login(ctx, email, password)
	if err != nil {
		return err
	}

	auth := core.PersistedAuth{
		Token:        result.Credentials.AccessToken,
		RefreshToken: result.Credentials.RefreshToken,
		User:         result.User,
	}
	if err := c.store.Save(ctx, auth); err != nil {
		return err
	}

	c.mu.Lock()
	if c.session.Mode == core.ModeAuto {
		c.session.Mode = core.ModeStandalone
	}
	c.session.Authenticated = true
	c.session.Identity = core.MergeIdentity(c.session.Identity, result.User)
	c.mu.Unlock()

	c.metrics.IncCounter(ctx, "sdk.session.login", 1, nil)
	return c.postAuthSetup(ctx)
}

// Logout revokes the credential best-effort, clears the slot, stops the
// periodic work, and announces the logout.
func (c *Controller) Logout(ctx context.Context) error {
	if c == nil {
		return core.NewSDKError("session is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	auth, ok, err := c.store.Load(ctx)
	if err == nil && ok && auth.Credentials().HasAccessToken() {
		if err := c.creds.Logout(ctx, auth.Token); err != nil {
			c.log.Debug("logout revocation failed", "error", err)
		}
	}
	if err := c.store.Clear(ctx); err != nil {
		return err
	}

	c.stopPeriodicWork()
	embedded := false
	c.mu.Lock()
	embedded = c.session.Mode == core.ModeEmbedded
	c.session.Authenticated = false
	c.session.Phase = core.PhaseUnauthenticated
	c.session.Identity = nil
	c.session.Balance = 0
	c.session.Personas = nil
	c.setupDone = false
	c.mu.Unlock()

	if embedded {
		c.notifyHost(core.EnvelopeLogout, core.EmptyPayload{})
	}
	c.events.emit(Event{Name: EventLoggedOut})
	c.metrics.IncCounter(ctx, "sdk.session.logout", 1, nil)
	return nil
}

// Teardown stops tickers and detaches channel listeners. The controller can
// be initialized again afterwards.
func (c *Controller) Teardown() {
	if c == nil {
		return
	}
	c.stopPeriodicWork()
	c.mu.Lock()
	subs := c.hostSubs
	c.hostSubs = nil
	c.started = false
	c.setupDone = false
	c.session = core.Session{Mode: core.ModeAuto, Phase: core.PhaseUnresolved}
	c.fellBack = false
	c.mu.Unlock()
	for _, sub := range subs {
		sub.Cancel()
	}
}

func (c *Controller) stopPeriodicWork() {
	c.mu.Lock()
	stopRefresh := c.stopRefresh
	stopBalance := c.stopBalance
	c.stopRefresh = nil
	c.stopBalance = nil
	c.mu.Unlock()
	if stopRefresh != nil {
		close(stopRefresh)
	}
	if stopBalance != nil {
		close(stopBalance)
	}
}

// notifyHost posts an envelope upward when a parent is attached. Failures are
// logged and swallowed; host notifications are fire-and-forget.
func (c *Controller) notifyHost(envelopeType string, payload any) {
	if c.ch == nil {
		return
	}
	env := core.NewEnvelope(envelopeType, payload, c.now())
	if err := c.ch.SendToParent(env); err != nil {
		c.log.Debug("host notification not delivered", "type", envelopeType, "error", err)
	}
}

func (c *Controller) signalAuthRequired() {
	c.events.emit(Event{Name: EventAuthRequired})
	if c.onAuthRequired != nil {
		c.onAuthRequired()
	}
}

func (c *Controller) signalTokenExpired() {
	c.events.emit(Event{Name: EventTokenExpired})
	if c.onTokenExpired != nil {
		c.onTokenExpired()
	}
}

var _ transport.CredentialAccessor = (*Controller)(nil)
