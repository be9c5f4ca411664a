package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Wire envelope type tags. The payload shape for each tag is a closed set,
// decoded into the matching typed payload at the channel boundary.
const (
	EnvelopeRequestJWTToken  = "REQUEST_JWT_TOKEN"
	EnvelopeJWTTokenResponse = "JWT_TOKEN_RESPONSE"

	EnvelopeRequestUserState  = "REQUEST_CURRENT_USER_STATE"
	EnvelopeResponseUserState = "RESPONSE_CURRENT_USER_STATE"

	EnvelopeRequestUserOrgs  = "REQUEST_USER_ORGS"
	EnvelopeResponseUserOrgs = "RESPONSE_USER_ORGS"

	EnvelopeRequestUserPersonas  = "REQUEST_USER_PERSONAS"
	EnvelopeResponseUserPersonas = "RESPONSE_USER_PERSONAS"

	EnvelopeCreditSystemReady = "CREDIT_SYSTEM_READY"
	EnvelopeBalanceUpdate     = "BALANCE_UPDATE"
	EnvelopeCreditsSpent      = "CREDITS_SPENT"
	EnvelopeCreditsAdded      = "CREDITS_ADDED"
	EnvelopeJWTTokenRefreshed = "JWT_TOKEN_REFRESHED"
	EnvelopeLogout            = "LOGOUT"

	EnvelopeRefreshBalance = "REFRESH_BALANCE"
	EnvelopeGetStatus      = "GET_STATUS"
	EnvelopeClearStorage   = "CLEAR_STORAGE"
	EnvelopeStatusResponse = "STATUS_RESPONSE"

	// EnvelopeMessage is the synthetic event fired for every accepted
	// envelope in addition to its type-specific event. Never sent on the wire.
	EnvelopeMessage = "message"
)

type TokenRequestPayload struct {
	Origin string `json:"origin,omitempty"`
}

type TokenResponsePayload struct {
	Token         string         `json:"token,omitempty"`
	RefreshToken  string         `json:"refreshToken,omitempty"`
	User          *Identity      `json:"user,omitempty"`
	Organization  *Organization  `json:"organization,omitempty"`
	Organizations []Organization `json:"organizations,omitempty"`
	Personas      []Persona      `json:"personas,omitempty"`
	Error         string         `json:"error,omitempty"`
}

type UserStateRequestPayload struct {
	Origin string `json:"origin,omitempty"`
}

type UserStateResponsePayload struct {
	UserState *UserState `json:"userState,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type OrgsResponsePayload struct {
	Organizations []Organization `json:"organizations,omitempty"`
	Count         int            `json:"count"`
	Error         string         `json:"error,omitempty"`
}

type PersonasResponsePayload struct {
	Personas []Persona `json:"personas,omitempty"`
	Count    int       `json:"count"`
	Error    string    `json:"error,omitempty"`
}

type ReadyPayload struct {
	User *Identity `json:"user,omitempty"`
	Mode string    `json:"mode"`
}

type BalanceUpdatePayload struct {
	Balance int64 `json:"balance"`
}

type CreditsChangedPayload struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
	NewBalance  int64  `json:"newBalance"`
}

type TokenRefreshedPayload struct {
	Token string `json:"token"`
}

type StatusResponsePayload struct {
	Initialized bool      `json:"initialized"`
	Mode        string    `json:"mode"`
	User        *Identity `json:"user,omitempty"`
	Balance     int64     `json:"balance"`
}

type EmptyPayload struct{}

// Envelope is one wire message. Type and Timestamp travel flat alongside the
// payload fields; Payload holds the typed payload for Type.
type Envelope struct {
	Type      string
	Timestamp int64
	Payload   any
}

// NewEnvelope stamps an envelope with the current epoch-millisecond timestamp.
func NewEnvelope(envelopeType string, payload any, now time.Time) Envelope {
	return Envelope{
		Type:      strings.TrimSpace(envelopeType),
		Timestamp: now.UTC().UnixMilli(),
		Payload:   payload,
	}
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	flat := map[string]any{}
	if e.Payload != nil {
		encoded, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("core: encode envelope payload: %w", err)
		}
		if err := json.Unmarshal(encoded, &flat); err != nil {
			return nil, fmt.Errorf("core: envelope payload must encode to an object: %w", err)
		}
	}
	flat["type"] = e.Type
	flat["timestamp"] = e.Timestamp
	return json.Marshal(flat)
}

type envelopeHead struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// DecodeEnvelope validates the wire bytes at the boundary and returns an
// envelope whose Payload is the closed typed payload for the tag. Unknown
// tags decode with a nil payload so transports can still route on type.
func DecodeEnvelope(data []byte) (Envelope, error) {
	head := envelopeHead{}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, fmt.Errorf("core: decode envelope: %w", err)
	}
	if strings.TrimSpace(head.Type) == "" {
		return Envelope{}, fmt.Errorf("core: envelope type is required")
	}

	env := Envelope{Type: head.Type, Timestamp: head.Timestamp}
	payload, known := emptyPayloadFor(head.Type)
	if !known {
		return env, nil
	}
	if payload == nil {
		env.Payload = EmptyPayload{}
		return env, nil
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return Envelope{}, fmt.Errorf("core: decode %s payload: %w", head.Type, err)
	}
	env.Payload = deref(payload)
	return env, nil
}

func emptyPayloadFor(envelopeType string) (any, bool) {
	switch envelopeType {
	case EnvelopeRequestJWTToken:
		return &TokenRequestPayload{}, true
	case EnvelopeJWTTokenResponse:
		return &TokenResponsePayload{}, true
	case EnvelopeRequestUserState:
		return &UserStateRequestPayload{}, true
	case EnvelopeResponseUserState:
		return &UserStateResponsePayload{}, true
	case EnvelopeRequestUserOrgs, EnvelopeRequestUserPersonas,
		EnvelopeLogout, EnvelopeRefreshBalance, EnvelopeGetStatus, EnvelopeClearStorage:
		return nil, true
	case EnvelopeResponseUserOrgs:
		return &OrgsResponsePayload{}, true
	case EnvelopeResponseUserPersonas:
		return &PersonasResponsePayload{}, true
	case EnvelopeCreditSystemReady:
		return &ReadyPayload{}, true
	case EnvelopeBalanceUpdate:
		return &BalanceUpdatePayload{}, true
	case EnvelopeCreditsSpent, EnvelopeCreditsAdded:
		return &CreditsChangedPayload{}, true
	case EnvelopeJWTTokenRefreshed:
		return &TokenRefreshedPayload{}, true
	case EnvelopeStatusResponse:
		return &StatusResponsePayload{}, true
	default:
		return nil, false
	}
}

func deref(payload any) any {
	switch typed := payload.(type) {
	case *TokenRequestPayload:
		return *typed
	case *TokenResponsePayload:
		return *typed
	case *UserStateRequestPayload:
		return *typed
	case *UserStateResponsePayload:
		return *typed
	case *OrgsResponsePayload:
		return *typed
	case *PersonasResponsePayload:
		return *typed
	case *ReadyPayload:
		return *typed
	case *BalanceUpdatePayload:
		return *typed
	case *CreditsChangedPayload:
		return *typed
	case *TokenRefreshedPayload:
		return *typed
	case *StatusResponsePayload:
		return *typed
	default:
		return payload
	}
}
