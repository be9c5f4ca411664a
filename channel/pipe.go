package channel

import (
	"sync/atomic"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

// Pipe posts envelopes toward a peer context.
type Pipe interface {
	Post(env core.Envelope) error
}

type memoryPipe struct {
	peer       *Channel
	fromOrigin string
	closed     atomic.Bool
}

func (p *memoryPipe) Post(env core.Envelope) error {
	if p == nil || p.peer == nil {
		return hostUnavailableError("pipe has no peer")
	}
	if p.closed.Load() {
		return hostUnavailableError("pipe is closed")
	}
	p.peer.Receive(env, p.fromOrigin)
	return nil
}

func (p *memoryPipe) Close() {
	if p != nil {
		p.closed.Store(true)
	}
}

// Wire links two channels with in-memory pipes. The returned pipes carry the
// posting side's origin so the receiving channel can enforce its allow-list.
// Closing a pipe makes further posts fail with a host-unavailable error.
func Wire(host *Channel, guest *Channel) (toGuest *memoryPipe, toHost *memoryPipe) {
	toGuest = &memoryPipe{peer: guest, fromOrigin: host.Origin()}
	toHost = &memoryPipe{peer: host, fromOrigin: guest.Origin()}
	return toGuest, toHost
}

var _ Pipe = (*memoryPipe)(nil)
