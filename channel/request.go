package channel

import (
	"context"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	goerrors "github.com/goliatone/go-errors"
)

// RoundTrip posts a request envelope to the parent and waits for the first
// envelope of responseType. The listener registers before the request is
// posted so an immediate reply cannot be lost. Exactly one of the response,
// the timeout, or context cancellation settles the call; late replies after
// settlement are discarded.
func RoundTrip(ctx context.Context, c *Channel, request core.Envelope, responseType string, timeout time.Duration) (core.Envelope, error) {
	if c == nil {
		return core.Envelope{}, hostUnavailableError("channel is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	responses := make(chan core.Envelope, 1)
	sub := c.On(responseType, func(env core.Envelope, _ string) {
		select {
		case responses <- env:
		default:
		}
	})
	defer sub.Cancel()

	if err := c.SendToParent(request); err != nil {
		return core.Envelope{}, err
	}

	if timeout <= 0 {
		timeout = core.DefaultParentTimeoutMS * time.Millisecond
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case env := <-responses:
		return env, nil
	case <-timer.C:
		return core.Envelope{}, timeoutError("timed out waiting for " + responseType)
	case <-ctx.Done():
		return core.Envelope{}, core.WrapSDKError(ctx.Err(), goerrors.CategoryExternal, "round trip canceled", core.SDKErrorTimeout)
	}
}
