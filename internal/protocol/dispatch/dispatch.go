// Package dispatch routes decoded packets to the handlers registered for
// their definition.
package dispatch

import (
	"sync"

	"github.com/danmuck/craftwire/internal/observability"
	"github.com/danmuck/craftwire/internal/protocol"
	"github.com/danmuck/craftwire/internal/protocol/packet"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler consumes one packet. A returned error stops dispatch.
type Handler func(p *packet.Packet) error

// Listener pairs a handler with the definitions it accepts. Definitions are
// matched by tag, so copies with overridden ids still match.
type Listener struct {
	id      uuid.UUID
	handler Handler
	tags    map[string]struct{}
}

func NewListener(handler Handler, defs ...*packet.Definition) *Listener {
	l := &Listener{
		id:      uuid.New(),
		handler: handler,
		tags:    make(map[string]struct{}, len(defs)),
	}
	for _, d := range defs {
		l.tags[d.Tag()] = struct{}{}
	}
	return l
}

func (l *Listener) ID() uuid.UUID { return l.id }

// Accepts reports whether def is one of the listener's definitions.
func (l *Listener) Accepts(def *packet.Definition) bool {
	_, ok := l.tags[def.Tag()]
	return ok
}

// CallPacket invokes the handler if p is accepted. called is false when the
// packet was ignored.
func (l *Listener) CallPacket(p *packet.Packet) (called bool, err error) {
	if !l.Accepts(p.Definition()) {
		return false, nil
	}
	return true, l.handler(p)
}

// Registry holds early and normal listeners. Registration may happen
// concurrently with Dispatch; a dispatch in progress sees the listener set
// as of its start.
type Registry struct {
	mu     sync.RWMutex
	early  []*Listener
	normal []*Listener
	log    zerolog.Logger
}

func NewRegistry() *Registry {
	return &Registry{log: observability.ComponentLogger("dispatch")}
}

// Register adds a listener for defs and returns it for Unregister.
func (r *Registry) Register(handler Handler, defs ...*packet.Definition) *Listener {
	l := NewListener(handler, defs...)
	r.mu.Lock()
	r.normal = append(r.normal, l)
	r.mu.Unlock()
	r.log.Debug().Str("listener", l.id.String()).Int("definitions", len(defs)).Msg("register")
	return l
}

// RegisterEarly adds a listener that runs before every normal listener.
func (r *Registry) RegisterEarly(handler Handler, defs ...*packet.Definition) *Listener {
	l := NewListener(handler, defs...)
	r.mu.Lock()
	r.early = append(r.early, l)
	r.mu.Unlock()
	r.log.Debug().Str("listener", l.id.String()).Int("definitions", len(defs)).Msg("register.early")
	return l
}

// Unregister removes l. It reports false if l was not registered.
func (r *Registry) Unregister(l *Listener) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ok bool
	r.early, ok = remove(r.early, l)
	if !ok {
		r.normal, ok = remove(r.normal, l)
	}
	return ok
}

func remove(ls []*Listener, target *Listener) ([]*Listener, bool) {
	for i, l := range ls {
		if l == target {
			out := make([]*Listener, 0, len(ls)-1)
			out = append(out, ls[:i]...)
			return append(out, ls[i+1:]...), true
		}
	}
	return ls, false
}

// Len is the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.early) + len(r.normal)
}

// Dispatch calls every accepting listener in registration order, early
// listeners first. It returns how many handlers ran. The first handler
// error stops dispatch and is returned as a *protocol.DispatchError.
func (r *Registry) Dispatch(p *packet.Packet) (int, error) {
	r.mu.RLock()
	listeners := make([]*Listener, 0, len(r.early)+len(r.normal))
	listeners = append(listeners, r.early...)
	listeners = append(listeners, r.normal...)
	r.mu.RUnlock()

	tag := p.Definition().Tag()
	calls := 0
	for _, l := range listeners {
		called, err := l.CallPacket(p)
		if !called {
			continue
		}
		calls++
		observability.RecordDispatch(tag, err == nil)
		if err != nil {
			r.log.Warn().Err(err).Str("packet", tag).Str("listener", l.id.String()).Msg("handler failed")
			return calls, &protocol.DispatchError{Handler: l.id.String(), Packet: tag, Err: err}
		}
	}
	r.log.Trace().Str("packet", tag).Int("handlers", calls).Msg("dispatch")
	return calls, nil
}
