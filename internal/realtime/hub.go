package realtime

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// subscriberBuffer is the per-subscription event buffer. A subscriber
// that falls this far behind is dropped rather than blocking publishers;
// it must resubscribe and refetch.
const subscriberBuffer = 64

// Hub fans published change events out to matching subscriptions
type Hub struct {
	mu      sync.RWMutex
	byTable map[string]map[string]*Subscription
	entropy *ulid.MonotonicEntropy
}

// Subscription is a cancellable handle on a stream of events. Acquire on
// screen enter, Cancel on screen exit.
type Subscription struct {
	ID    string
	Table string

	hub    *Hub
	types  map[EventType]bool
	pred   *Predicate
	ch     chan Event
	once   sync.Once
	closed chan struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		byTable: make(map[string]map[string]*Subscription),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Subscribe registers for events on a table. An empty types slice means
// all event types; a nil predicate means all rows.
func (h *Hub) Subscribe(table string, types []EventType, pred *Predicate) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscription{
		ID:     ulid.MustNew(ulid.Timestamp(time.Now()), h.entropy).String(),
		Table:  table,
		hub:    h,
		pred:   pred,
		ch:     make(chan Event, subscriberBuffer),
		closed: make(chan struct{}),
	}
	if len(types) > 0 {
		sub.types = make(map[EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}

	if h.byTable[table] == nil {
		h.byTable[table] = make(map[string]*Subscription)
	}
	h.byTable[table][sub.ID] = sub
	return sub
}

// Events returns the subscription's event stream. The channel is closed
// when the subscription is cancelled or dropped.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.hub.unsubscribe(s)
}

func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	if subs, ok := h.byTable[s.Table]; ok {
		delete(subs, s.ID)
	}
	h.mu.Unlock()

	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}

// Publish delivers a change event to every matching subscription. It
// never blocks: a subscriber with a full buffer is dropped.
func (h *Hub) Publish(table string, eventType EventType, record map[string]any) {
	h.mu.RLock()
	ev := Event{
		ID:     ulid.MustNew(ulid.Timestamp(time.Now()), h.entropy).String(),
		Table:  table,
		Type:   eventType,
		Record: record,
	}
	var lagging []*Subscription
	for _, sub := range h.byTable[table] {
		if sub.types != nil && !sub.types[eventType] {
			continue
		}
		if !sub.pred.Matches(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		case <-sub.closed:
		default:
			lagging = append(lagging, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range lagging {
		log.Printf("realtime: dropping lagging subscriber %s on %s", sub.ID, table)
		h.unsubscribe(sub)
	}
}
