package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// AuthStore holds the single persisted auth slot for a controller instance.
// The controller is the sole writer; readers re-read at call time so a
// concurrent refresh is visible to the next outbound call.
type AuthStore interface {
	Load(ctx context.Context) (PersistedAuth, bool, error)
	Save(ctx context.Context, auth PersistedAuth) error
	Clear(ctx context.Context) error
}

// CredentialService is the stateless REST surface for login, validate,
// refresh, and logout.
type CredentialService interface {
	Login(ctx context.Context, email string, password string) (LoginResult, error)
	Validate(ctx context.Context, accessToken string) (ValidateResult, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshOutcome, error)
	Logout(ctx context.Context, accessToken string) error
}

type LoginResult struct {
	Credentials CredentialPair
	User        *Identity
}

type ValidateResult struct {
	Valid bool
	User  *Identity
}

// RefreshOutcome distinguishes "the server rotated the refresh token" from
// overall success. RefreshToken is only meaningful when Rotated is true; when
// false the caller must preserve its previously stored refresh token verbatim.
type RefreshOutcome struct {
	AccessToken  string
	RefreshToken string
	Rotated      bool
}

// LedgerService is the authenticated credits surface. Implementations perform
// no retries; retry-after-refresh policy belongs to the controller.
type LedgerService interface {
	Balance(ctx context.Context, organizationID string) (int64, error)
	Spend(ctx context.Context, amount int64, description string) (LedgerReceipt, error)
	Add(ctx context.Context, amount int64, description string) (LedgerReceipt, error)
	History(ctx context.Context, page int, limit int) (HistoryPage, error)
}

// LedgerReceipt carries the server's authoritative post-mutation balance.
type LedgerReceipt struct {
	Amount      int64
	Description string
	NewBalance  int64
}

// LedgerLog records successful balance mutations for audit/history purposes.
type LedgerLog interface {
	Append(ctx context.Context, entry LedgerEntry) error
}

// PersonaStore serves persona lists, typically backed by a cache layered over
// a slower source. The controller prefers this over a host round-trip.
type PersonaStore interface {
	List(ctx context.Context, organizationID string) ([]Persona, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string)        {}
func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

type JobExecutionMessage struct {
	JobID          string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

// JobEnqueuer lets deployments offload periodic work (token refresh) to an
// external worker fleet instead of the in-process ticker.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}
