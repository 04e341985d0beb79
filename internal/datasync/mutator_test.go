package datasync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilinkng/backend/internal/models"
)

func activeSessions(t *testing.T) *MemorySessions {
	t.Helper()
	s := NewMemorySessions()
	s.Set(&Session{UserID: "user-1", Profile: models.ProfileCompact{ID: "user-1", Name: "Ada"}})
	return s
}

func TestDispatchAppliesBeforeCommit(t *testing.T) {
	m := NewMutator(activeSessions(t), nil)

	applied := false
	committed := make(chan struct{})
	err := m.Dispatch(Mutation{
		Entity: "posts",
		Apply:  func() { applied = true },
		Revert: func() {},
		Commit: func(ctx context.Context) error {
			close(committed)
			return nil
		},
	})
	require.NoError(t, err)

	// Apply runs synchronously at dispatch, before any network activity
	assert.True(t, applied)
	<-committed
	m.Wait()
}

func TestCommitFailureRevertsAndReports(t *testing.T) {
	var mu sync.Mutex
	var reverted bool
	var reportedEntity string
	var reportedErr error

	m := NewMutator(activeSessions(t), func(entity string, err error) {
		mu.Lock()
		defer mu.Unlock()
		reportedEntity = entity
		reportedErr = err
	})

	boom := errors.New("store unavailable")
	err := m.Dispatch(Mutation{
		Entity: "likes:post-1",
		Apply:  func() {},
		Revert: func() { mu.Lock(); reverted = true; mu.Unlock() },
		Commit: func(ctx context.Context) error { return boom },
	})
	require.NoError(t, err)
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, reverted)
	assert.Equal(t, "likes:post-1", reportedEntity)
	assert.ErrorIs(t, reportedErr, boom)
}

func TestFailedLikeCycleRestoresCounter(t *testing.T) {
	count := 5
	var mu sync.Mutex

	m := NewMutator(activeSessions(t), func(string, error) {})

	err := m.Dispatch(Mutation{
		Entity: "likes:post-1",
		Apply:  func() { mu.Lock(); count++; mu.Unlock() },
		Revert: func() { mu.Lock(); count--; mu.Unlock() },
		Commit: func(ctx context.Context) error { return errors.New("conflict") },
	})
	require.NoError(t, err)
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}

func TestSameEntityCommitsInDispatchOrder(t *testing.T) {
	m := NewMutator(activeSessions(t), nil)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 20; i++ {
		i := i
		err := m.Dispatch(Mutation{
			Entity: "messages:conv-1",
			Apply:  func() {},
			Revert: func() {},
			Commit: func(ctx context.Context) error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			},
		})
		require.NoError(t, err)
	}
	m.Wait()

	require.Len(t, order, 20)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestDistinctEntitiesCommitIndependently(t *testing.T) {
	m := NewMutator(activeSessions(t), nil)

	release := make(chan struct{})
	fastDone := make(chan struct{})

	err := m.Dispatch(Mutation{
		Entity: "posts",
		Apply:  func() {},
		Revert: func() {},
		Commit: func(ctx context.Context) error {
			<-release
			return nil
		},
	})
	require.NoError(t, err)

	err = m.Dispatch(Mutation{
		Entity: "notifications",
		Apply:  func() {},
		Revert: func() {},
		Commit: func(ctx context.Context) error {
			close(fastDone)
			return nil
		},
	})
	require.NoError(t, err)

	// The blocked posts queue must not stall the notifications queue
	select {
	case <-fastDone:
	case <-time.After(2 * time.Second):
		t.Fatal("independent entity queue was blocked")
	}
	close(release)
	m.Wait()
}

func TestDispatchWithoutSessionHasNoEffect(t *testing.T) {
	sessions := NewMemorySessions()
	m := NewMutator(sessions, nil)

	applied := false
	err := m.Dispatch(Mutation{
		Entity: "posts",
		Apply:  func() { applied = true },
		Revert: func() {},
		Commit: func(ctx context.Context) error { return nil },
	})

	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, applied)
}

func TestDispatchRejectsIncompleteMutation(t *testing.T) {
	m := NewMutator(activeSessions(t), nil)
	err := m.Dispatch(Mutation{Entity: "posts", Apply: func() {}})
	assert.Error(t, err)
}

func TestCommitTimeoutReverts(t *testing.T) {
	var mu sync.Mutex
	reverted := false

	m := NewMutator(activeSessions(t), func(string, error) {})
	m.SetCommitTimeout(20 * time.Millisecond)

	err := m.Dispatch(Mutation{
		Entity: "posts",
		Apply:  func() {},
		Revert: func() { mu.Lock(); reverted = true; mu.Unlock() },
		Commit: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})
	require.NoError(t, err)
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, reverted)
}
