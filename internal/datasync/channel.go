package datasync

import (
	"github.com/unilinkng/backend/internal/realtime"
)

// Channel is the client-side contract of the realtime feed: subscribe to
// a table's change events, optionally narrowed by a predicate, and get a
// cancellable handle back. Implemented over a websocket in
// internal/client and in-process by HubChannel.
type Channel interface {
	Subscribe(table string, types []realtime.EventType, pred *realtime.Predicate, onEvent func(realtime.Event)) (Subscription, error)
}

// Subscription is the handle a screen holds for the lifetime of its
// subscription. Cancel must be called on screen exit.
type Subscription interface {
	Cancel()
}

// HubChannel adapts an in-process realtime.Hub to the Channel contract.
// Used when the data layer runs embedded with the store, and by tests.
type HubChannel struct {
	Hub *realtime.Hub
}

// Subscribe starts a goroutine pumping hub events into onEvent until the
// subscription is cancelled
func (c HubChannel) Subscribe(table string, types []realtime.EventType, pred *realtime.Predicate, onEvent func(realtime.Event)) (Subscription, error) {
	sub := c.Hub.Subscribe(table, types, pred)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub.Events() {
			onEvent(ev)
		}
	}()
	return hubSubscription{sub: sub, done: done}, nil
}

type hubSubscription struct {
	sub  *realtime.Subscription
	done chan struct{}
}

// Cancel releases the hub subscription and waits for the pump to stop,
// so no callback fires after Cancel returns.
func (s hubSubscription) Cancel() {
	s.sub.Cancel()
	<-s.done
}
