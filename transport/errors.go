package transport

import (
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
)

func transportError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return transportError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.SDKErrorInvalidInput
	case goerrors.CategoryAuth:
		return core.SDKErrorCredentialInvalid
	case goerrors.CategoryAuthz:
		return core.SDKErrorAccessDenied
	case goerrors.CategoryExternal:
		return core.SDKErrorNetworkError
	case goerrors.CategoryOperation:
		return core.SDKErrorRequestFailed
	default:
		return core.SDKErrorInternal
	}
}

// classifyStatus maps an HTTP status to the SDK error taxonomy. The 401
// classification is what permits the single refresh-and-retry upstream.
func classifyStatus(status int, message string) error {
	switch {
	case status == 401:
		return core.NewSDKError(orDefault(message, "credential was rejected"), goerrors.CategoryAuth, core.SDKErrorCredentialInvalid)
	case status == 403:
		return core.NewSDKError(orDefault(message, "access denied"), goerrors.CategoryAuthz, core.SDKErrorAccessDenied)
	case status == 402 || status == 422:
		return core.NewSDKError(orDefault(message, "request was rejected"), goerrors.CategoryValidation, core.SDKErrorInvalidInput)
	case status >= 400 && status < 500:
		return core.NewSDKError(orDefault(message, "request failed"), goerrors.CategoryOperation, core.SDKErrorRequestFailed).WithCode(status)
	case status >= 500:
		return core.NewSDKError(orDefault(message, "upstream service failed"), goerrors.CategoryExternal, core.SDKErrorRequestFailed).WithCode(status)
	default:
		return nil
	}
}

func orDefault(message string, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
