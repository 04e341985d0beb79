// Package realtime is the publish/subscribe feed of row-level change
// events. Subscribers register for a table, optionally narrowed by a
// column predicate, and receive insert/update/delete events pushed after
// each successful write. Delivery is at-least-once; consumers must
// tolerate redelivery.
package realtime

import "github.com/unilinkng/backend/internal/store"

// EventType is the kind of row-level change
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one row-level change on a table
type Event struct {
	ID     string       `json:"id"` // Unique per publish; redeliveries reuse it
	Table  string       `json:"table"`
	Type   EventType    `json:"type"`
	Record store.Record `json:"record"`
}

// Predicate narrows a subscription to rows whose column equals a value,
// the "conversation_id=eq.<key>" shape of the hosted channel API.
type Predicate struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Matches reports whether the event's record satisfies the predicate.
// A nil predicate matches everything.
func (p *Predicate) Matches(ev Event) bool {
	if p == nil {
		return true
	}
	v, ok := ev.Record[p.Column]
	if !ok {
		return false
	}
	if s, ok := v.(string); ok {
		return s == p.Value
	}
	return false
}
