// Package sdk assembles the embedded credits SDK: configuration resolution,
// the cross-frame channel, the credential and ledger clients, and the session
// controller, behind one constructor.
package sdk

import (
	"context"
	"fmt"
	"strings"

	"github.com/developersupreme/supreme-ai-sdk-sub001/adapters/gologger"
	"github.com/developersupreme/supreme-ai-sdk-sub001/authapi"
	"github.com/developersupreme/supreme-ai-sdk-sub001/channel"
	sdkcommand "github.com/developersupreme/supreme-ai-sdk-sub001/command"
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	sdkquery "github.com/developersupreme/supreme-ai-sdk-sub001/query"
	"github.com/developersupreme/supreme-ai-sdk-sub001/session"
	"github.com/developersupreme/supreme-ai-sdk-sub001/store"
	"github.com/developersupreme/supreme-ai-sdk-sub001/transport"
	glog "github.com/goliatone/go-logger/glog"
)

// Re-exported domain types so embedders only import the root package.
type (
	Config        = core.Config
	Mode          = core.Mode
	Session       = core.Session
	Identity      = core.Identity
	Organization  = core.Organization
	Persona       = core.Persona
	LedgerReceipt = core.LedgerReceipt
	LedgerEntry   = core.LedgerEntry
	HistoryPage   = core.HistoryPage
	PersistedAuth = core.PersistedAuth
)

const (
	ModeAuto       = core.ModeAuto
	ModeEmbedded   = core.ModeEmbedded
	ModeStandalone = core.ModeStandalone
)

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config { return core.DefaultConfig() }

// Commands bundles the dispatchable session commands.
type Commands struct {
	Login        *sdkcommand.LoginCommand
	Logout       *sdkcommand.LogoutCommand
	Refresh      *sdkcommand.RefreshCommand
	CheckBalance *sdkcommand.CheckBalanceCommand
	Spend        *sdkcommand.SpendCommand
	Add          *sdkcommand.AddCommand
}

// Queries bundles the read-side query handlers.
type Queries struct {
	Balance *sdkquery.BalanceQuery
	History *sdkquery.HistoryQuery
	Status  *sdkquery.StatusQuery
}

// SDK is the assembled client. Construction wires the pieces; Start runs the
// bootstrap when auto-init is enabled.
type SDK struct {
	cfg        core.Config
	ch         *channel.Channel
	controller *session.Controller
	commands   Commands
	queries    Queries
	log        core.Logger
}

type Option func(*builder)

type builder struct {
	runtime        core.Config
	provider       core.ConfigProvider
	rawValues      map[string]any
	origin         string
	ch             *channel.Channel
	parent         channel.Pipe
	creds          core.CredentialService
	ledger         core.LedgerService
	authStore      core.AuthStore
	personaStore   core.PersonaStore
	ledgerLog      core.LedgerLog
	jobs           core.JobEnqueuer
	metrics        core.MetricsRecorder
	logger         core.Logger
	loggerProvider core.LoggerProvider
	onAuthRequired func()
	onTokenExpired func()
}

// WithRuntimeConfig layers programmatic overrides on top of loaded config.
func WithRuntimeConfig(cfg core.Config) Option {
	return func(b *builder) { b.runtime = cfg }
}

// WithRawConfig feeds a raw map through the cfgx pipeline, the shape a host
// page injects as a JSON blob.
func WithRawConfig(values map[string]any) Option {
	return func(b *builder) { b.rawValues = values }
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *builder) { b.provider = provider }
}

// WithOrigin sets the frame's own origin for the channel allow-list.
func WithOrigin(origin string) Option {
	return func(b *builder) { b.origin = strings.TrimSpace(origin) }
}

func WithChannel(ch *channel.Channel) Option {
	return func(b *builder) { b.ch = ch }
}

// WithParent attaches the pipe toward the host page. Without one the SDK
// resolves auto mode to standalone.
func WithParent(parent channel.Pipe) Option {
	return func(b *builder) { b.parent = parent }
}

func WithCredentialService(creds core.CredentialService) Option {
	return func(b *builder) { b.creds = creds }
}

func WithLedgerService(ledger core.LedgerService) Option {
	return func(b *builder) { b.ledger = ledger }
}

func WithAuthStore(authStore core.AuthStore) Option {
	return func(b *builder) { b.authStore = authStore }
}

func WithPersonaStore(personaStore core.PersonaStore) Option {
	return func(b *builder) { b.personaStore = personaStore }
}

func WithLedgerLog(ledgerLog core.LedgerLog) Option {
	return func(b *builder) { b.ledgerLog = ledgerLog }
}

func WithJobEnqueuer(jobs core.JobEnqueuer) Option {
	return func(b *builder) { b.jobs = jobs }
}

func WithMetrics(metrics core.MetricsRecorder) Option {
	return func(b *builder) { b.metrics = metrics }
}

func WithLogger(logger core.Logger) Option {
	return func(b *builder) { b.logger = logger }
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *builder) { b.loggerProvider = provider }
}

func WithAuthRequiredCallback(fn func()) Option {
	return func(b *builder) { b.onAuthRequired = fn }
}

func WithTokenExpiredCallback(fn func()) Option {
	return func(b *builder) { b.onTokenExpired = fn }
}

// New resolves configuration and assembles the SDK. Nothing touches the
// network until Start or Initialize runs.
func New(ctx context.Context, options ...Option) (*SDK, error) {
	b := &builder{}
	for _, option := range options {
		if option != nil {
			option(b)
		}
	}

	provider := b.provider
	if provider == nil && len(b.rawValues) > 0 {
		provider = core.NewCfgxConfigProvider(core.StaticRawConfigLoader(b.rawValues))
	}
	cfg, err := core.ResolveConfig(ctx, provider, nil, b.runtime)
	if err != nil {
		return nil, err
	}

	_, logger := gologger.Resolve("sdk", b.loggerProvider, b.logger)
	logger = glog.Ensure(logger)

	ch := b.ch
	if ch == nil {
		allowed := append([]string(nil), cfg.AllowedOrigins...)
		if b.origin != "" {
			allowed = append(allowed, b.origin)
		}
		channelOptions := []channel.Option{
			channel.WithAllowedOrigins(allowed...),
			channel.WithLogger(logger),
		}
		if b.parent != nil {
			channelOptions = append(channelOptions, channel.WithParent(b.parent))
		}
		ch = channel.New(b.origin, channelOptions...)
	} else if b.parent != nil {
		ch.SetParent(b.parent)
	}

	creds := b.creds
	if creds == nil {
		if strings.TrimSpace(cfg.AuthURL) == "" {
			return nil, fmt.Errorf("sdk: auth_url is required without a custom credential service")
		}
		creds = authapi.New(cfg.AuthURL, authapi.WithLogger(logger))
	}

	authStore := b.authStore
	if authStore == nil {
		authStore = store.NewMemoryAuthStore(nil)
	}

	ledger := b.ledger
	if ledger == nil && strings.TrimSpace(cfg.APIBaseURL) != "" {
		accessor := transport.CredentialAccessorFunc(func(ctx context.Context) (string, error) {
			auth, ok, err := authStore.Load(ctx)
			if err != nil || !ok {
				return "", err
			}
			return auth.Token, nil
		})
		client := transport.NewClient(transport.NewRESTAdapter(nil), cfg.APIBaseURL, accessor, transport.WithClientLogger(logger))
		ledger = transport.NewLedgerClient(client)
	}

	controllerOptions := []session.Option{
		session.WithConfig(cfg),
		session.WithChannel(ch),
		session.WithCredentialService(creds),
		session.WithAuthStore(authStore),
		session.WithLogger(logger),
	}
	if ledger != nil {
		controllerOptions = append(controllerOptions, session.WithLedgerService(ledger))
	}
	if b.personaStore != nil {
		controllerOptions = append(controllerOptions, session.WithPersonaStore(b.personaStore))
	}
	if b.ledgerLog != nil {
		controllerOptions = append(controllerOptions, session.WithLedgerLog(b.ledgerLog))
	}
	if b.jobs != nil {
		controllerOptions = append(controllerOptions, session.WithJobEnqueuer(b.jobs))
	}
	if b.metrics != nil {
		controllerOptions = append(controllerOptions, session.WithMetrics(b.metrics))
	}
	if b.onAuthRequired != nil {
		controllerOptions = append(controllerOptions, session.WithAuthRequiredCallback(b.onAuthRequired))
	}
	if b.onTokenExpired != nil {
		controllerOptions = append(controllerOptions, session.WithTokenExpiredCallback(b.onTokenExpired))
	}

	controller, err := session.New(controllerOptions...)
	if err != nil {
		return nil, err
	}

	return &SDK{
		cfg:        cfg,
		ch:         ch,
		controller: controller,
		log:        logger,
		commands: Commands{
			Login:        sdkcommand.NewLoginCommand(controller),
			Logout:       sdkcommand.NewLogoutCommand(controller),
			Refresh:      sdkcommand.NewRefreshCommand(controller),
			CheckBalance: sdkcommand.NewCheckBalanceCommand(controller),
			Spend:        sdkcommand.NewSpendCommand(controller),
			Add:          sdkcommand.NewAddCommand(controller),
		},
		queries: Queries{
			Balance: sdkquery.NewBalanceQuery(controller),
			History: sdkquery.NewHistoryQuery(controller),
			Status:  sdkquery.NewStatusQuery(controller),
		},
	}, nil
}

// Start honors the auto_init setting: it bootstraps the session when enabled
// and is a no-op otherwise. Call Initialize directly to bootstrap regardless.
func (s *SDK) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("sdk: not configured")
	}
	if !s.cfg.AutoInit {
		s.log.Debug("auto init disabled, waiting for explicit initialize")
		return nil
	}
	return s.controller.Initialize(ctx)
}

func (s *SDK) Initialize(ctx context.Context) error {
	return s.controller.Initialize(ctx)
}

func (s *SDK) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.cfg
}

func (s *SDK) Channel() *channel.Channel {
	if s == nil {
		return nil
	}
	return s.ch
}

// Controller exposes the session controller for event listeners and direct
// operation calls.
func (s *SDK) Controller() *session.Controller {
	if s == nil {
		return nil
	}
	return s.controller
}

func (s *SDK) Commands() Commands {
	if s == nil {
		return Commands{}
	}
	return s.commands
}

func (s *SDK) Queries() Queries {
	if s == nil {
		return Queries{}
	}
	return s.queries
}

func (s *SDK) Snapshot() Session {
	return s.controller.Snapshot()
}

func (s *SDK) Teardown() {
	if s == nil {
		return
	}
	s.controller.Teardown()
}

var (
	_ sdkcommand.SessionService = (*session.Controller)(nil)
	_ sdkquery.BalanceReader    = (*session.Controller)(nil)
	_ sdkquery.HistoryReader    = (*session.Controller)(nil)
	_ sdkquery.SessionReader    = (*session.Controller)(nil)
)
