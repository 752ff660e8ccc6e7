package appsettings

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Change is the payload broadcast when a configuration key changes. Enter
// reports whether the change enters an override (true) or leaves it /
// applies a plain update (false).
type Change struct {
	Setting string
	Enter   bool
}

// Handler consumes one change notification.
type Handler func(Change)

// Bus broadcasts configuration changes to subscribed handlers. Delivery is
// synchronous: Publish returns only after every handler ran, and the whole
// delivery happens inside one critical section so side effects such as the
// environment shadow dance stay consistent across handlers.
type Bus struct {
	mu       sync.Mutex
	handlers map[uuid.UUID]Handler
	order    []uuid.UUID
	log      zerolog.Logger
}

// BusOption customizes a Bus.
type BusOption func(*Bus)

// WithBusLogger installs a logger on the bus.
func WithBusLogger(logger zerolog.Logger) BusOption {
	return func(b *Bus) { b.log = logger }
}

// NewBus returns an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		handlers: map[uuid.UUID]Handler{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler and returns its subscription handle. Close
// the handle when the subscriber goes out of scope, otherwise the bus leaks
// handlers.
func (b *Bus) Subscribe(h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.New()
	b.handlers[id] = h
	b.order = append(b.order, id)
	return &Subscription{id: id, bus: b}
}

// Publish delivers a change to every handler, in subscription order. Handlers
// must not subscribe or unsubscribe from within delivery.
func (b *Bus) Publish(setting string, enter bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	change := Change{Setting: setting, Enter: enter}
	b.log.Debug().Str("setting", setting).Bool("enter", enter).Msg("publishing setting change")
	for _, id := range b.order {
		if h, ok := b.handlers[id]; ok {
			h(change)
		}
	}
}

func (b *Bus) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.handlers[id]; !ok {
		return
	}
	delete(b.handlers, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Subscription is an explicit handle to a bus registration.
type Subscription struct {
	id   uuid.UUID
	bus  *Bus
	once sync.Once
}

// ID returns the subscription's dispatch identifier.
func (s *Subscription) ID() uuid.UUID { return s.id }

// Close removes the handler from the bus. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.bus.unsubscribe(s.id) })
}
