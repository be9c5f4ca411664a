package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	SDKErrorNotAuthenticated    = "SDK_NOT_AUTHENTICATED"
	SDKErrorInvalidInput        = "SDK_INVALID_INPUT"
	SDKErrorInsufficientCredits = "SDK_INSUFFICIENT_CREDITS"
	SDKErrorCredentialInvalid   = "SDK_CREDENTIAL_INVALID"
	SDKErrorAccessDenied        = "SDK_ACCESS_DENIED"
	SDKErrorRequestFailed       = "SDK_REQUEST_FAILED"
	SDKErrorNetworkError        = "SDK_NETWORK_ERROR"
	SDKErrorTimeout             = "SDK_TIMEOUT"
	SDKErrorHostUnavailable     = "SDK_HOST_UNAVAILABLE"
	SDKErrorInternal            = "SDK_INTERNAL_ERROR"
)

// NewSDKError builds a categorized error carrying the SDK taxonomy envelope.
func NewSDKError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureSDKErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

// WrapSDKError wraps a source error into the taxonomy envelope.
func WrapSDKError(source error, category goerrors.Category, message string, textCode string) *goerrors.Error {
	if source == nil {
		return NewSDKError(message, category, textCode)
	}
	return ensureSDKErrorEnvelope(
		goerrors.Wrap(source, category, message).
			WithTextCode(textCode),
	)
}

func sdkErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureSDKErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not authenticated"):
		return NewSDKError(err.Error(), goerrors.CategoryAuth, SDKErrorNotAuthenticated)
	case strings.Contains(msg, "timed out"), strings.Contains(msg, "timeout"):
		return NewSDKError(err.Error(), goerrors.CategoryExternal, SDKErrorTimeout)
	case strings.Contains(msg, "insufficient"):
		return NewSDKError(err.Error(), goerrors.CategoryValidation, SDKErrorInsufficientCredits)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "amount"):
		return NewSDKError(err.Error(), goerrors.CategoryBadInput, SDKErrorInvalidInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureSDKErrorEnvelope(mapped)
}

func ensureSDKErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = sdkHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultSDKTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultSDKTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return SDKErrorInvalidInput
	case goerrors.CategoryValidation:
		return SDKErrorInvalidInput
	case goerrors.CategoryAuth:
		return SDKErrorCredentialInvalid
	case goerrors.CategoryAuthz:
		return SDKErrorAccessDenied
	case goerrors.CategoryExternal:
		return SDKErrorNetworkError
	case goerrors.CategoryOperation:
		return SDKErrorRequestFailed
	default:
		return SDKErrorInternal
	}
}

func sdkHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	case goerrors.CategoryOperation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MapSDKError normalizes any error into the taxonomy envelope.
func MapSDKError(err error) *goerrors.Error {
	return sdkErrorMapper(err)
}

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(richErr.TextCode), textCode)
}

// IsCredentialInvalid reports whether err carries the 401 classification that
// permits a single refresh-and-retry by the controller.
func IsCredentialInvalid(err error) bool {
	return hasTextCode(err, SDKErrorCredentialInvalid)
}

func IsAccessDenied(err error) bool {
	return hasTextCode(err, SDKErrorAccessDenied)
}

func IsNotAuthenticated(err error) bool {
	return hasTextCode(err, SDKErrorNotAuthenticated)
}

func IsTimeout(err error) bool {
	return hasTextCode(err, SDKErrorTimeout)
}

func IsInsufficientCredits(err error) bool {
	return hasTextCode(err, SDKErrorInsufficientCredits)
}

func IsInvalidInput(err error) bool {
	return hasTextCode(err, SDKErrorInvalidInput)
}
