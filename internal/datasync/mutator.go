// Package datasync keeps locally-held view state consistent with the
// remote store under optimistic mutations, pushed change events, and
// partial failure. Screens apply a local change the moment the user acts,
// the remote writes run serialized per entity, and a failed write always
// reverts the local change and surfaces a non-blocking error.
package datasync

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultCommitTimeout bounds each remote commit. The hosted store has no
// timeout of its own, so one is imposed here.
const DefaultCommitTimeout = 15 * time.Second

// ErrNoSession is returned when a mutation is dispatched without an
// authenticated session. The mutation has no local or remote effect.
var ErrNoSession = errors.New("no active session")

// Mutation is one user-initiated write. Apply computes the new local
// value from locally available information and publishes it to the view
// synchronously; Commit issues the remote writes; Revert restores the
// pre-mutation local value if Commit fails.
type Mutation struct {
	// Entity identifies what the mutation touches. Mutations on the same
	// entity are committed in dispatch order, never concurrently.
	Entity string

	Apply  func()
	Revert func()
	Commit func(ctx context.Context) error
}

// Mutator dispatches optimistic mutations. Local state always reflects
// the most recent local intent: Apply runs synchronously at dispatch, in
// issue order, while commits drain on a per-entity queue behind it.
type Mutator struct {
	sessions SessionProvider
	onError  func(entity string, err error)
	timeout  time.Duration

	mu     sync.Mutex
	queues map[string][]Mutation
	wg     sync.WaitGroup
}

// NewMutator creates a Mutator. onError receives commit failures after
// the revert has been applied; it must not block. A nil SessionProvider
// skips the session guard (embedded use where auth is handled upstream).
func NewMutator(sessions SessionProvider, onError func(entity string, err error)) *Mutator {
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Mutator{
		sessions: sessions,
		onError:  onError,
		timeout:  DefaultCommitTimeout,
		queues:   make(map[string][]Mutation),
	}
}

// SetCommitTimeout overrides the per-commit timeout
func (m *Mutator) SetCommitTimeout(d time.Duration) {
	m.timeout = d
}

// Dispatch applies the mutation locally and queues its remote commit.
// It returns ErrNoSession before any effect when no session is active,
// and never blocks on the network.
func (m *Mutator) Dispatch(mut Mutation) error {
	if mut.Entity == "" || mut.Apply == nil || mut.Revert == nil || mut.Commit == nil {
		return errors.New("mutation requires an entity, apply, revert, and commit")
	}
	if m.sessions != nil && m.sessions.Current() == nil {
		return ErrNoSession
	}

	mut.Apply()

	m.mu.Lock()
	pending, running := m.queues[mut.Entity]
	m.queues[mut.Entity] = append(pending, mut)
	if !running {
		// First mutation for this entity starts its drain worker; it
		// exits once the entity's queue is empty.
		m.wg.Add(1)
		go m.drain(mut.Entity)
	}
	m.mu.Unlock()
	return nil
}

func (m *Mutator) drain(entity string) {
	defer m.wg.Done()
	for {
		m.mu.Lock()
		pending := m.queues[entity]
		if len(pending) == 0 {
			delete(m.queues, entity)
			m.mu.Unlock()
			return
		}
		next := pending[0]
		m.queues[entity] = pending[1:]
		m.mu.Unlock()

		m.commit(next)
	}
}

func (m *Mutator) commit(mut Mutation) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := mut.Commit(ctx); err != nil {
		mut.Revert()
		m.onError(mut.Entity, err)
	}
}

// Wait blocks until every queued commit has finished. Used on shutdown
// and in tests; new dispatches during Wait extend it.
func (m *Mutator) Wait() {
	m.wg.Wait()
}
