package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
)

// CredentialAccessor hands out the current access token. The client re-reads
// it on every call so a refresh that lands between calls is picked up without
// re-wiring anything.
type CredentialAccessor interface {
	AccessToken(ctx context.Context) (string, error)
}

// CredentialAccessorFunc adapts a plain function to CredentialAccessor.
type CredentialAccessorFunc func(ctx context.Context) (string, error)

func (f CredentialAccessorFunc) AccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// apiEnvelope is the wire shape shared by all backend endpoints:
// {"success": bool, "data": ..., "message": "..."}.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client issues JSON requests against the credits backend with a bearer token
// attached. It classifies failures but never retries; retry policy lives in
// the session controller.
type Client struct {
	adapter *RESTAdapter
	baseURL string
	creds   CredentialAccessor
	log     core.Logger
}

type ClientOption func(*Client)

func WithClientLogger(log core.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

func NewClient(adapter *RESTAdapter, baseURL string, creds CredentialAccessor, options ...ClientOption) *Client {
	if adapter == nil {
		adapter = NewRESTAdapter(nil)
	}
	c := &Client{
		adapter: adapter,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		creds:   creds,
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	c.log = glog.Ensure(c.log)
	return c
}

// DoJSON executes one authenticated request and decodes the data envelope
// into out. A 401 surfaces as a credential-invalid error so the caller can
// decide whether a refresh-and-retry is permitted for this operation.
func (c *Client) DoJSON(ctx context.Context, method string, path string, query map[string]string, body any, out any) error {
	if c == nil || c.adapter == nil {
		return transportError("transport: client is not configured", goerrors.CategoryInternal, http.StatusInternalServerError, nil)
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return transportError("transport: api base url is required", goerrors.CategoryBadInput, http.StatusBadRequest, nil)
	}

	token := ""
	if c.creds != nil {
		current, err := c.creds.AccessToken(ctx)
		if err != nil {
			return core.MapSDKError(err)
		}
		token = strings.TrimSpace(current)
	}
	if token == "" {
		return core.NewSDKError("no access token is available", goerrors.CategoryAuth, core.SDKErrorNotAuthenticated)
	}

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return transportWrapError(err, goerrors.CategoryBadInput, "transport: encode request body", http.StatusBadRequest, nil)
		}
		payload = encoded
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Accept":        "application/json",
	}
	if len(payload) > 0 {
		headers["Content-Type"] = "application/json"
	}

	res, err := c.adapter.Do(ctx, Request{
		Method:  method,
		URL:     c.baseURL + path,
		Query:   query,
		Headers: headers,
		Body:    payload,
	})
	if err != nil {
		return err
	}

	envelope, decodeErr := decodeAPIEnvelope(res.Body)
	if statusErr := classifyStatus(res.StatusCode, envelope.Message); statusErr != nil {
		return statusErr
	}
	if decodeErr != nil {
		return decodeErr
	}
	if !envelope.Success {
		return core.NewSDKError(orDefault(envelope.Message, "request was not successful"), goerrors.CategoryOperation, core.SDKErrorRequestFailed)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return transportWrapError(err, goerrors.CategoryExternal, "transport: decode response data", http.StatusBadGateway, nil)
		}
	}
	return nil
}

func decodeAPIEnvelope(body []byte) (apiEnvelope, error) {
	if len(body) == 0 {
		return apiEnvelope{}, transportError("transport: empty response body", goerrors.CategoryExternal, http.StatusBadGateway, nil)
	}
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiEnvelope{}, transportWrapError(err, goerrors.CategoryExternal, "transport: decode response envelope", http.StatusBadGateway, nil)
	}
	return envelope, nil
}

var _ CredentialAccessor = (CredentialAccessorFunc)(nil)
