package core

import (
	"strings"
	"time"
)

type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeEmbedded   Mode = "embedded"
	ModeStandalone Mode = "standalone"
)

func ParseMode(value string) (Mode, bool) {
	switch Mode(strings.TrimSpace(strings.ToLower(value))) {
	case ModeAuto, Mode(""):
		return ModeAuto, true
	case ModeEmbedded:
		return ModeEmbedded, true
	case ModeStandalone:
		return ModeStandalone, true
	default:
		return ModeAuto, false
	}
}

type SessionPhase string

const (
	PhaseUnresolved           SessionPhase = "unresolved"
	PhaseEmbeddedBootstrap    SessionPhase = "embedded_bootstrapping"
	PhaseStandaloneBootstrap  SessionPhase = "standalone_bootstrapping"
	PhaseReady                SessionPhase = "ready"
	PhaseRefreshing           SessionPhase = "refreshing"
	PhaseUnauthenticated      SessionPhase = "unauthenticated"
)

// Session is the single owned state record of a controller instance. The
// controller is its sole writer.
type Session struct {
	Mode          Mode
	Phase         SessionPhase
	Initialized   bool
	Authenticated bool
	Identity      *Identity
	Balance       int64
	Personas      []Persona
}

type Organization struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`
}

type Identity struct {
	ID            string         `json:"id,omitempty"`
	Email         string         `json:"email,omitempty"`
	Role          string         `json:"role,omitempty"`
	RoleIDs       []string       `json:"roleIds,omitempty"`
	Organizations []Organization `json:"organizations,omitempty"`
	Personas      []Persona      `json:"personas,omitempty"`
}

// Clone returns a deep copy so callers can hand identities across goroutines
// without sharing backing arrays.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := &Identity{
		ID:            i.ID,
		Email:         i.Email,
		Role:          i.Role,
		RoleIDs:       append([]string(nil), i.RoleIDs...),
		Organizations: append([]Organization(nil), i.Organizations...),
		Personas:      append([]Persona(nil), i.Personas...),
	}
	return out
}

// SelectedOrganization returns the organization currently marked selected.
func (i *Identity) SelectedOrganization() (Organization, bool) {
	if i == nil {
		return Organization{}, false
	}
	for _, org := range i.Organizations {
		if org.Selected {
			return org, true
		}
	}
	return Organization{}, false
}

// MergeIdentity folds update into base without discarding knowledge the update
// does not mention. Scalar fields prefer non-empty update values; organization
// and persona lists are unioned by id, with update entries replacing matching
// base entries.
func MergeIdentity(base *Identity, update *Identity) *Identity {
	if update == nil {
		return base.Clone()
	}
	if base == nil {
		return update.Clone()
	}
	merged := base.Clone()
	if strings.TrimSpace(update.ID) != "" {
		merged.ID = update.ID
	}
	if strings.TrimSpace(update.Email) != "" {
		merged.Email = update.Email
	}
	if strings.TrimSpace(update.Role) != "" {
		merged.Role = update.Role
	}
	if len(update.RoleIDs) > 0 {
		merged.RoleIDs = append([]string(nil), update.RoleIDs...)
	}
	merged.Organizations = mergeOrganizations(merged.Organizations, update.Organizations)
	merged.Personas = MergePersonas(merged.Personas, update.Personas)
	return merged
}

func mergeOrganizations(base []Organization, updates []Organization) []Organization {
	if len(updates) == 0 {
		return base
	}
	out := append([]Organization(nil), base...)
	for _, update := range updates {
		replaced := false
		for i := range out {
			if out[i].ID == update.ID {
				out[i] = update
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, update)
		}
	}
	return out
}

// MergePersonas unions two persona lists by id, preferring update entries.
func MergePersonas(base []Persona, updates []Persona) []Persona {
	if len(updates) == 0 {
		return base
	}
	out := append([]Persona(nil), base...)
	for _, update := range updates {
		replaced := false
		for i := range out {
			if out[i].ID == update.ID {
				out[i] = update
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, update)
		}
	}
	return out
}

// ApplyUserState folds a host-provided user-state snapshot into the identity:
// the selected flag is recomputed across all known organizations, and the
// organization named by the snapshot is updated in place or appended. Nothing
// the snapshot does not mention is dropped.
func ApplyUserState(identity *Identity, state UserState) *Identity {
	merged := identity.Clone()
	if merged == nil {
		merged = &Identity{}
	}
	if strings.TrimSpace(state.UserID) != "" {
		merged.ID = state.UserID
	}
	if strings.TrimSpace(state.UserRole) != "" {
		merged.Role = state.UserRole
	}
	if len(state.UserRoleIDs) > 0 {
		merged.RoleIDs = append([]string(nil), state.UserRoleIDs...)
	}

	orgID := strings.TrimSpace(state.OrgID)
	if orgID != "" {
		found := false
		for i := range merged.Organizations {
			if merged.Organizations[i].ID == orgID {
				if strings.TrimSpace(state.OrgName) != "" {
					merged.Organizations[i].Name = state.OrgName
				}
				if strings.TrimSpace(state.OrgSlug) != "" {
					merged.Organizations[i].Slug = state.OrgSlug
				}
				if strings.TrimSpace(state.OrgDomain) != "" {
					merged.Organizations[i].Domain = state.OrgDomain
				}
				merged.Organizations[i].Selected = true
				found = true
			} else {
				merged.Organizations[i].Selected = false
			}
		}
		if !found {
			merged.Organizations = append(merged.Organizations, Organization{
				ID:       orgID,
				Name:     strings.TrimSpace(state.OrgName),
				Slug:     strings.TrimSpace(state.OrgSlug),
				Domain:   strings.TrimSpace(state.OrgDomain),
				Selected: true,
			})
		}
	}
	merged.Personas = MergePersonas(merged.Personas, state.Personas)
	return merged
}

// CredentialPair is an access token plus an optional refresh token. A refresh
// response that omits a new refresh token leaves RefreshToken untouched.
type CredentialPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (c CredentialPair) HasAccessToken() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

func (c CredentialPair) HasRefreshToken() bool {
	return strings.TrimSpace(c.RefreshToken) != ""
}

// PersistedAuth is the durable session-scoped projection of the credential
// pair and identity. One slot per controller instance, overwritten atomically.
type PersistedAuth struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	User         *Identity `json:"user,omitempty"`
}

func (a PersistedAuth) Credentials() CredentialPair {
	return CredentialPair{AccessToken: a.Token, RefreshToken: a.RefreshToken}
}

// UserState is the host-provided organization/user snapshot exchanged over the
// channel (RESPONSE_CURRENT_USER_STATE).
type UserState struct {
	OrgID       string    `json:"orgId"`
	OrgName     string    `json:"orgName,omitempty"`
	OrgSlug     string    `json:"orgSlug,omitempty"`
	OrgDomain   string    `json:"orgDomain,omitempty"`
	UserID      string    `json:"userId,omitempty"`
	UserRole    string    `json:"userRole,omitempty"`
	UserRoleIDs []string  `json:"userRoleIds,omitempty"`
	Personas    []Persona `json:"personas,omitempty"`
}

type LedgerEntryKind string

const (
	LedgerEntrySpend LedgerEntryKind = "spend"
	LedgerEntryAdd   LedgerEntryKind = "add"
)

// LedgerEntry is one balance mutation as recorded by the activity log and as
// returned by the history endpoint.
type LedgerEntry struct {
	ID              string
	Kind            LedgerEntryKind
	Amount          int64
	Description     string
	PreviousBalance int64
	NewBalance      int64
	OrganizationID  string
	OccurredAt      time.Time
}

// HistoryPage is one page of ledger history.
type HistoryPage struct {
	Entries []LedgerEntry
	Page    int
	Limit   int
	Total   int
}
