package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/developersupreme/supreme-ai-sdk-sub001/transport"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
)

// Client talks to the credential endpoints: login, validate, refresh, logout.
// It is stateless; the session controller owns what happens to the tokens it
// returns.
type Client struct {
	adapter *transport.RESTAdapter
	baseURL string
	log     core.Logger
}

type Option func(*Client)

func WithLogger(log core.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithAdapter(adapter *transport.RESTAdapter) Option {
	return func(c *Client) { c.adapter = adapter }
}

func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	if c.adapter == nil {
		c.adapter = transport.NewRESTAdapter(nil)
	}
	c.log = glog.Ensure(c.log)
	return c
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type sessionData struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	User         *core.Identity `json:"user"`
	Valid        *bool          `json:"valid"`
}

// refreshData mirrors the refresh endpoint's snake_case body. The camelCase
// {token, refreshToken} shape belongs to the persisted storage slot, not the
// REST wire.
type refreshData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) Login(ctx context.Context, email string, password string) (core.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return core.LoginResult{}, core.NewSDKError("email and password are required", goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	}
	raw, err := c.call(ctx, http.MethodPost, "/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return core.LoginResult{}, err
	}
	var data sessionData
	if err := decodeData(raw, &data); err != nil {
		return core.LoginResult{}, err
	}
	if strings.TrimSpace(data.Token) == "" {
		return core.LoginResult{}, core.NewSDKError("login response is missing a token", goerrors.CategoryExternal, core.SDKErrorRequestFailed)
	}
	return core.LoginResult{
		Credentials: core.CredentialPair{
			AccessToken:  data.Token,
			RefreshToken: data.RefreshToken,
		},
		User: data.User,
	}, nil
}

func (c *Client) Validate(ctx context.Context, accessToken string) (core.ValidateResult, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return core.ValidateResult{}, core.NewSDKError("access token is required", goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	}
	raw, err := c.call(ctx, http.MethodGet, "/validate", accessToken, nil)
	if err != nil {
		if core.IsCredentialInvalid(err) {
			return core.ValidateResult{Valid: false}, nil
		}
		return core.ValidateResult{}, err
	}
	var data sessionData
	if err := decodeData(raw, &data); err != nil {
		return core.ValidateResult{}, err
	}
	valid := true
	if data.Valid != nil {
		valid = *data.Valid
	}
	return core.ValidateResult{Valid: valid, User: data.User}, nil
}

// Refresh exchanges a refresh token for a new access token. Rotated is only
// true when the server handed back a replacement refresh token; callers must
// keep their stored refresh token when it is false.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (core.RefreshOutcome, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return core.RefreshOutcome{}, core.NewSDKError("refresh token is required", goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	}
	raw, err := c.call(ctx, http.MethodPost, "/refresh", "", map[string]any{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return core.RefreshOutcome{}, err
	}
	var data refreshData
	if err := decodeData(raw, &data); err != nil {
		return core.RefreshOutcome{}, err
	}
	if strings.TrimSpace(data.AccessToken) == "" {
		return core.RefreshOutcome{}, core.NewSDKError("refresh response is missing a token", goerrors.CategoryExternal, core.SDKErrorRequestFailed)
	}
	outcome := core.RefreshOutcome{AccessToken: data.AccessToken}
	if rotated := strings.TrimSpace(data.RefreshToken); rotated != "" {
		outcome.RefreshToken = rotated
		outcome.Rotated = true
	}
	return outcome, nil
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}
	_, err := c.call(ctx, http.MethodPost, "/logout", accessToken, nil)
	if err != nil && !core.IsCredentialInvalid(err) {
		return err
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, path string, bearer string, body any) (json.RawMessage, error) {
	if c == nil || c.adapter == nil {
		return nil, core.NewSDKError("auth client is not configured", goerrors.CategoryInternal, core.SDKErrorInternal)
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, core.NewSDKError("auth base url is required", goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, core.WrapSDKError(err, goerrors.CategoryBadInput, "encode auth request", core.SDKErrorInvalidInput)
		}
		payload = encoded
	}

	headers := map[string]string{"Accept": "application/json"}
	if len(payload) > 0 {
		headers["Content-Type"] = "application/json"
	}
	if bearer != "" {
		headers["Authorization"] = "Bearer " + bearer
	}

	res, err := c.adapter.Do(ctx, transport.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if len(res.Body) > 0 {
		if err := json.Unmarshal(res.Body, &envelope); err != nil {
			if res.StatusCode >= 200 && res.StatusCode < 300 {
				return nil, core.WrapSDKError(err, goerrors.CategoryExternal, "decode auth response", core.SDKErrorNetworkError)
			}
			envelope = apiEnvelope{}
		}
	}

	if err := statusError(res.StatusCode, envelope.Message); err != nil {
		return nil, err
	}
	if !envelope.Success {
		return nil, core.NewSDKError(messageOr(envelope.Message, "authentication request failed"), goerrors.CategoryAuth, core.SDKErrorCredentialInvalid)
	}
	return envelope.Data, nil
}

func decodeData(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return core.WrapSDKError(err, goerrors.CategoryExternal, "decode auth response data", core.SDKErrorNetworkError)
	}
	return nil
}

func statusError(status int, message string) error {
	switch {
	case status == http.StatusUnauthorized:
		return core.NewSDKError(messageOr(message, "credential was rejected"), goerrors.CategoryAuth, core.SDKErrorCredentialInvalid)
	case status == http.StatusForbidden:
		return core.NewSDKError(messageOr(message, "access denied"), goerrors.CategoryAuthz, core.SDKErrorAccessDenied)
	case status >= 400 && status < 500:
		return core.NewSDKError(messageOr(message, "authentication request was rejected"), goerrors.CategoryBadInput, core.SDKErrorInvalidInput)
	case status >= 500:
		return core.NewSDKError(messageOr(message, "authentication service failed"), goerrors.CategoryExternal, core.SDKErrorRequestFailed)
	default:
		return nil
	}
}

func messageOr(message string, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}

var _ core.CredentialService = (*Client)(nil)
