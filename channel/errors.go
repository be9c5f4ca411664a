package channel

import (
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
)

func hostUnavailableError(message string) error {
	return core.NewSDKError(message, goerrors.CategoryExternal, core.SDKErrorHostUnavailable)
}

func wrapHostError(err error, message string) error {
	return core.WrapSDKError(err, goerrors.CategoryExternal, message, core.SDKErrorHostUnavailable)
}

func timeoutError(message string) error {
	return core.NewSDKError(message, goerrors.CategoryExternal, core.SDKErrorTimeout)
}
