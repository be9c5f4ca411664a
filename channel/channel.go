package channel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
	"github.com/goliatone/go-logger/glog"
)

// Handler receives an envelope together with the origin it arrived from.
type Handler func(env core.Envelope, origin string)

// Subscription cancels a registered handler. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

type subscription struct {
	once    sync.Once
	channel *Channel
	msgType string
	id      uint64
}

func (s *subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.channel.remove(s.msgType, s.id)
	})
}

// Channel dispatches inbound envelopes to typed listeners and posts outbound
// envelopes through an optional parent pipe. Dispatch is synchronous and a
// panicking listener never takes down its siblings.
type Channel struct {
	mu      sync.RWMutex
	origin  string
	allowed []string
	parent  Pipe
	subs    map[string]map[uint64]Handler
	nextID  uint64
	log     core.Logger
}

// Option configures a Channel.
type Option func(*Channel)

func WithAllowedOrigins(origins ...string) Option {
	return func(c *Channel) {
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "" {
				continue
			}
			c.allowed = append(c.allowed, origin)
		}
	}
}

func WithParent(pipe Pipe) Option {
	return func(c *Channel) { c.parent = pipe }
}

func WithLogger(log core.Logger) Option {
	return func(c *Channel) { c.log = log }
}

// New builds a channel bound to its own origin. An empty allow-list accepts
// messages from any origin; the channel's own origin is always accepted.
func New(origin string, options ...Option) *Channel {
	c := &Channel{
		origin: strings.TrimSpace(origin),
		subs:   map[string]map[uint64]Handler{},
	}
	for _, option := range options {
		if option != nil {
			option(c)
		}
	}
	c.log = glog.Ensure(c.log)
	return c
}

func (c *Channel) Origin() string {
	if c == nil {
		return ""
	}
	return c.origin
}

// On registers a handler for the given envelope type. Registering for
// core.EnvelopeMessage observes every accepted envelope regardless of type.
func (c *Channel) On(msgType string, handler Handler) Subscription {
	if c == nil || handler == nil {
		return (*subscription)(nil)
	}
	msgType = strings.TrimSpace(msgType)
	if msgType == "" {
		return (*subscription)(nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	bucket, ok := c.subs[msgType]
	if !ok {
		bucket = map[uint64]Handler{}
		c.subs[msgType] = bucket
	}
	bucket[id] = handler
	return &subscription{channel: c, msgType: msgType, id: id}
}

func (c *Channel) remove(msgType string, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bucket, ok := c.subs[msgType]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(c.subs, msgType)
		}
	}
}

// Receive delivers an envelope arriving from senderOrigin. Envelopes from
// origins outside the allow-list are dropped without error so a hostile page
// learns nothing from probing.
func (c *Channel) Receive(env core.Envelope, senderOrigin string) {
	if c == nil {
		return
	}
	if !c.acceptsOrigin(senderOrigin) {
		c.log.Debug("dropping envelope from unexpected origin",
			"type", env.Type,
			"origin", senderOrigin,
		)
		return
	}

	c.dispatch(env.Type, env, senderOrigin)
	if env.Type != core.EnvelopeMessage {
		c.dispatch(core.EnvelopeMessage, env, senderOrigin)
	}
}

func (c *Channel) dispatch(msgType string, env core.Envelope, origin string) {
	c.mu.RLock()
	bucket := c.subs[msgType]
	handlers := make([]Handler, 0, len(bucket))
	for _, handler := range bucket {
		handlers = append(handlers, handler)
	}
	c.mu.RUnlock()

	for _, handler := range handlers {
		c.invoke(handler, env, origin)
	}
}

func (c *Channel) invoke(handler Handler, env core.Envelope, origin string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("listener panicked",
				"type", env.Type,
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()
	handler(env, origin)
}

func (c *Channel) acceptsOrigin(origin string) bool {
	origin = strings.TrimSpace(origin)
	if origin != "" && origin == c.origin {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.allowed) == 0 {
		return true
	}
	for _, allowed := range c.allowed {
		if allowed == origin {
			return true
		}
	}
	return false
}

// SetParent swaps the parent pipe. Passing nil detaches the channel.
func (c *Channel) SetParent(pipe Pipe) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parent = pipe
}

func (c *Channel) Parent() Pipe {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.parent
}

// SendToParent posts an envelope upward. It fails when no parent pipe is
// attached, which is how standalone mode surfaces to callers.
func (c *Channel) SendToParent(env core.Envelope) error {
	if c == nil {
		return hostUnavailableError("channel is not configured")
	}
	parent := c.Parent()
	if parent == nil {
		return hostUnavailableError("no parent context is attached")
	}
	if err := parent.Post(env); err != nil {
		return wrapHostError(err, "posting to parent failed")
	}
	return nil
}
