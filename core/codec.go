package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	AuthPayloadFormatLegacyToken = "legacy_token"
	AuthPayloadFormatJSONV1      = "persisted_auth_json"
	AuthPayloadVersionV1         = 1
)

// AuthCodec serializes the persisted auth slot. The JSON codec is the default;
// the legacy codec reads slots written by pre-v1 deployments that stored a
// bare access token.
type AuthCodec interface {
	Format() string
	Version() int
	Encode(auth PersistedAuth) ([]byte, error)
	Decode(payload []byte) (PersistedAuth, error)
}

type JSONAuthCodec struct{}

func (JSONAuthCodec) Format() string {
	return AuthPayloadFormatJSONV1
}

func (JSONAuthCodec) Version() int {
	return AuthPayloadVersionV1
}

func (JSONAuthCodec) Encode(auth PersistedAuth) ([]byte, error) {
	auth.Token = strings.TrimSpace(auth.Token)
	auth.RefreshToken = strings.TrimSpace(auth.RefreshToken)
	auth.User = auth.User.Clone()
	encoded, err := json.Marshal(auth)
	if err != nil {
		return nil, fmt.Errorf("core: encode auth payload: %w", err)
	}
	return encoded, nil
}

func (JSONAuthCodec) Decode(payload []byte) (PersistedAuth, error) {
	if len(payload) == 0 {
		return PersistedAuth{}, fmt.Errorf("core: auth payload is empty")
	}
	decoded := PersistedAuth{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return PersistedAuth{}, fmt.Errorf("core: decode auth payload: %w", err)
	}
	decoded.Token = strings.TrimSpace(decoded.Token)
	decoded.RefreshToken = strings.TrimSpace(decoded.RefreshToken)
	return decoded, nil
}

type LegacyTokenAuthCodec struct{}

func (LegacyTokenAuthCodec) Format() string {
	return AuthPayloadFormatLegacyToken
}

func (LegacyTokenAuthCodec) Version() int {
	return AuthPayloadVersionV1
}

func (LegacyTokenAuthCodec) Encode(auth PersistedAuth) ([]byte, error) {
	token := strings.TrimSpace(auth.Token)
	if token == "" {
		return nil, fmt.Errorf("core: legacy auth payload requires a token")
	}
	return []byte(token), nil
}

func (LegacyTokenAuthCodec) Decode(payload []byte) (PersistedAuth, error) {
	token := strings.TrimSpace(string(payload))
	if token == "" {
		return PersistedAuth{}, fmt.Errorf("core: legacy auth payload is empty")
	}
	return PersistedAuth{Token: token}, nil
}

var (
	_ AuthCodec = JSONAuthCodec{}
	_ AuthCodec = LegacyTokenAuthCodec{}
)
