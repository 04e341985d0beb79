package datasync

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/store"
)

// Ordering is a list's chronological ordering rule
type Ordering int

const (
	// NewestFirst orders by creation time descending (feed, notifications)
	NewestFirst Ordering = iota
	// OldestFirst orders by creation time ascending (conversation history)
	OldestFirst
)

// Entity is anything a List can hold
type Entity interface {
	EntityID() string
	EntityTime() time.Time
}

// List folds server-pushed change events into an ordered entity list
// without duplicating the client's own optimistic inserts. One List is
// owned by one screen; it is not shared across screens.
type List[T Entity] struct {
	ordering Ordering
	scope    func(realtime.Event) bool

	mu           sync.Mutex
	items        []T
	placeholders []placeholder[T]
}

// placeholder marks an optimistic insert awaiting its server-confirmed
// record. The match predicate identifies the confirmation (content +
// author + approximate timestamp) before the server id is known.
type placeholder[T Entity] struct {
	localID string
	match   func(T) bool
}

// NewList creates a list with the given ordering. A nil scope accepts
// every event for the subscribed table; otherwise events failing scope
// are dropped even if the transport over-delivers.
func NewList[T Entity](ordering Ordering, scope func(realtime.Event) bool) *List[T] {
	return &List[T]{ordering: ordering, scope: scope}
}

// Replace installs a freshly-fetched dataset, discarding placeholders.
// Derived fields are recomputed by the fetch path, so a fetch resets the
// list wholesale.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T(nil), items...)
	l.placeholders = nil
	l.sortLocked()
}

// Snapshot returns a copy of the current items in display order
func (l *List[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// Len returns the current item count
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// AddLocal inserts an optimistic placeholder. match identifies the
// server-confirmed record that supersedes it once pushed back.
func (l *List[T]) AddLocal(item T, match func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.insertLocked(item)
	if match != nil {
		l.placeholders = append(l.placeholders, placeholder[T]{localID: item.EntityID(), match: match})
	}
}

// RemoveLocal reverts an optimistic insert by id
func (l *List[T]) RemoveLocal(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, item := range l.items {
		if item.EntityID() == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			break
		}
	}
	for i, ph := range l.placeholders {
		if ph.localID == id {
			l.placeholders = append(l.placeholders[:i], l.placeholders[i+1:]...)
			break
		}
	}
}

// Patch mutates the item with the given id in place and reports whether
// it was found. Used for local counter flips and their reverts.
func (l *List[T]) Patch(id string, fn func(*T)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].EntityID() == id {
			fn(&l.items[i])
			return true
		}
	}
	return false
}

// Merge folds one pushed event into the list. Redelivered inserts and
// inserts matching a pending placeholder never create a second entry.
func (l *List[T]) Merge(ev realtime.Event) error {
	if l.scope != nil && !l.scope(ev) {
		return nil
	}

	switch ev.Type {
	case realtime.EventInsert:
		item, err := DecodeRecord[T](ev.Record)
		if err != nil {
			return err
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		l.mergeInsertLocked(item)
	case realtime.EventUpdate:
		raw, err := json.Marshal(ev.Record)
		if err != nil {
			return err
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.patchEventLocked(ev.Record.ID(), raw)
	case realtime.EventDelete:
		id := ev.Record.ID()
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, item := range l.items {
			if item.EntityID() == id {
				l.items = append(l.items[:i], l.items[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (l *List[T]) mergeInsertLocked(item T) {
	// Already present under its server id: at-least-once redelivery
	for _, existing := range l.items {
		if existing.EntityID() == item.EntityID() {
			return
		}
	}
	// Supersede a matching optimistic placeholder in place
	for i, ph := range l.placeholders {
		if ph.match(item) {
			for j := range l.items {
				if l.items[j].EntityID() == ph.localID {
					l.items[j] = item
					break
				}
			}
			l.placeholders = append(l.placeholders[:i], l.placeholders[i+1:]...)
			l.sortLocked()
			return
		}
	}
	l.insertLocked(item)
}

// patchEventLocked folds an update record into the stored item. Update
// events carry only the changed columns plus the id, so the record is
// decoded onto a copy of the current item rather than a fresh value;
// fields absent from the record keep their value. An update for an id
// the list does not hold is dropped.
func (l *List[T]) patchEventLocked(id string, raw []byte) error {
	for i := range l.items {
		if l.items[i].EntityID() != id {
			continue
		}
		item := l.items[i]
		if err := json.Unmarshal(raw, &item); err != nil {
			return err
		}
		l.items[i] = item
		l.sortLocked()
		return nil
	}
	return nil
}

// insertLocked places the item at its chronological position
func (l *List[T]) insertLocked(item T) {
	pos := len(l.items)
	for i, existing := range l.items {
		if l.before(item, existing) {
			pos = i
			break
		}
	}
	l.items = append(l.items, item)
	copy(l.items[pos+1:], l.items[pos:])
	l.items[pos] = item
}

func (l *List[T]) sortLocked() {
	items := l.items
	l.items = make([]T, 0, len(items))
	for _, item := range items {
		l.insertLocked(item)
	}
}

func (l *List[T]) before(a, b T) bool {
	if l.ordering == NewestFirst {
		return a.EntityTime().After(b.EntityTime())
	}
	return a.EntityTime().Before(b.EntityTime())
}

// DecodeRecord converts a raw store record into a typed entity
func DecodeRecord[T any](r store.Record) (T, error) {
	var out T
	raw, err := json.Marshal(r)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
