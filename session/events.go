package session

import (
	"fmt"
	"strings"
	"sync"
)

// Event names emitted by the controller. Listeners receive the payload the
// moment the transition happens; dispatch is synchronous.
const (
	EventReady            = "ready"
	EventAuthRequired     = "auth_required"
	EventHostAuthRequired = "host_auth_required"
	EventParentTimeout    = "parent_timeout"
	EventTokenRefreshed   = "token_refreshed"
	EventTokenExpired     = "token_expired"
	EventBalanceUpdated   = "balance_updated"
	EventCreditsSpent     = "credits_spent"
	EventCreditsAdded     = "credits_added"
	EventLoggedOut        = "logged_out"
)

type Event struct {
	Name    string
	Payload any
}

// CreditsChange is the payload on credits_spent and credits_added. Unlike the
// host wire payload it also carries the balance before the mutation.
type CreditsChange struct {
	Amount          int64
	Description     string
	PreviousBalance int64
	NewBalance      int64
}

type Listener func(event Event)

// ListenerHandle cancels a registered listener. Cancel is idempotent.
type ListenerHandle interface {
	Cancel()
}

type listenerHandle struct {
	once    sync.Once
	emitter *emitter
	name    string
	id      uint64
}

func (h *listenerHandle) Cancel() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.emitter.remove(h.name, h.id)
	})
}

// emitter fans events out to named listeners. A panicking listener never
// takes down its siblings or the controller.
type emitter struct {
	mu        sync.RWMutex
	listeners map[string]map[uint64]Listener
	nextID    uint64
	onPanic   func(name string, recovered any)
}

func newEmitter(onPanic func(name string, recovered any)) *emitter {
	return &emitter{
		listeners: map[string]map[uint64]Listener{},
		onPanic:   onPanic,
	}
}

func (e *emitter) on(name string, listener Listener) ListenerHandle {
	if e == nil || listener == nil {
		return (*listenerHandle)(nil)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return (*listenerHandle)(nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	bucket, ok := e.listeners[name]
	if !ok {
		bucket = map[uint64]Listener{}
		e.listeners[name] = bucket
	}
	bucket[id] = listener
	return &listenerHandle{emitter: e, name: name, id: id}
}

func (e *emitter) remove(name string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if bucket, ok := e.listeners[name]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(e.listeners, name)
		}
	}
}

func (e *emitter) emit(event Event) {
	if e == nil {
		return
	}
	e.mu.RLock()
	bucket := e.listeners[event.Name]
	listeners := make([]Listener, 0, len(bucket))
	for _, listener := range bucket {
		listeners = append(listeners, listener)
	}
	e.mu.RUnlock()

	for _, listener := range listeners {
		e.invoke(listener, event)
	}
}

func (e *emitter) invoke(listener Listener, event Event) {
	defer func() {
		if r := recover(); r != nil && e.onPanic != nil {
			e.onPanic(event.Name, fmt.Sprintf("%v", r))
		}
	}()
	listener(event)
}
