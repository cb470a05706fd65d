package feed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type likeState struct {
	Liked bool
	Likes int64
}

func likeTarget(initial likeState) (read func() (likeState, bool), write func(likeState), current func() likeState) {
	state := initial
	read = func() (likeState, bool) { return state, true }
	write = func(s likeState) { state = s }
	current = func() likeState { return state }
	return read, write, current
}

func toggleLike(s likeState) likeState {
	if s.Liked {
		return likeState{Liked: false, Likes: s.Likes - 1}
	}
	return likeState{Liked: true, Likes: s.Likes + 1}
}

func TestMutateAppliesOptimisticallyAndRollsBack(t *testing.T) {
	read, write, current := likeTarget(likeState{Liked: false, Likes: 5})
	m := NewMutator()

	var observed likeState
	started, err := Mutate(context.Background(), m, "like:p1", read, write, toggleLike,
		func(ctx context.Context) (likeState, error) {
			observed = current()
			return likeState{}, errors.New("server rejected")
		})

	require.True(t, started)
	require.Error(t, err)
	assert.Equal(t, likeState{Liked: true, Likes: 6}, observed, "optimistic change must be visible before the remote call settles")
	assert.Equal(t, likeState{Liked: false, Likes: 5}, current(), "rollback must restore the exact snapshot")
	assert.False(t, m.InFlight("like:p1"))
}

func TestMutateReconcilesAuthoritativeValues(t *testing.T) {
	read, write, current := likeTarget(likeState{Liked: false, Likes: 5})
	m := NewMutator()

	started, err := Mutate(context.Background(), m, "like:p1", read, write, toggleLike,
		func(ctx context.Context) (likeState, error) {
			// Concurrent likes by others: the server's count wins over the
			// optimistic guess of 6.
			return likeState{Liked: true, Likes: 9}, nil
		})

	require.True(t, started)
	require.NoError(t, err)
	assert.Equal(t, likeState{Liked: true, Likes: 9}, current())
}

func TestMutateIgnoresDuplicateForSameKey(t *testing.T) {
	read, write, _ := likeTarget(likeState{Likes: 1})
	m := NewMutator()

	var calls int32
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = Mutate(context.Background(), m, "like:p1", read, write, toggleLike,
			func(ctx context.Context) (likeState, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return likeState{Liked: true, Likes: 2}, nil
			})
	}()

	require.Eventually(t, func() bool { return m.InFlight("like:p1") }, time.Second, time.Millisecond)

	started, err := Mutate(context.Background(), m, "like:p1", read, write, toggleLike,
		func(ctx context.Context) (likeState, error) {
			atomic.AddInt32(&calls, 1)
			return likeState{}, nil
		})
	require.NoError(t, err)
	assert.False(t, started, "a duplicate mutation on the same target must be ignored, not queued")

	close(release)
	<-done
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMutateSkipsMissingTarget(t *testing.T) {
	m := NewMutator()
	called := false

	started, err := Mutate(context.Background(), m, "like:gone",
		func() (likeState, bool) { return likeState{}, false },
		func(likeState) { t.Fatal("write must not run for a missing target") },
		toggleLike,
		func(ctx context.Context) (likeState, error) {
			called = true
			return likeState{}, nil
		})

	require.NoError(t, err)
	assert.False(t, started)
	assert.False(t, called)
}

func TestMutateRestoresSnapshotOnPanic(t *testing.T) {
	read, write, current := likeTarget(likeState{Liked: true, Likes: 3})
	m := NewMutator()

	require.Panics(t, func() {
		_, _ = Mutate(context.Background(), m, "like:p1", read, write, toggleLike,
			func(ctx context.Context) (likeState, error) {
				panic("unexpected")
			})
	})

	assert.Equal(t, likeState{Liked: true, Likes: 3}, current())
	assert.False(t, m.InFlight("like:p1"), "the in-flight flag must be released on every exit path")
}
