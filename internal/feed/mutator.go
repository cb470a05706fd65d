package feed

import (
	"context"
	"sync"
)

// Mutator guards optimistic mutations: one in-flight mutation per key, where
// the key identifies a (target, mutation kind) pair. Duplicate mutations are
// ignored, not queued.
type Mutator struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewMutator() *Mutator {
	return &Mutator{
		inFlight: make(map[string]struct{}),
	}
}

func (m *Mutator) begin(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inFlight[key]; ok {
		return false
	}
	m.inFlight[key] = struct{}{}
	return true
}

func (m *Mutator) end(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, key)
}

// InFlight reports whether a mutation for key is outstanding.
func (m *Mutator) InFlight(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.inFlight[key]
	return ok
}

// Mutate runs one optimistic mutation: snapshot the current fields, apply the
// optimistic guess, call the remote, then reconcile. On success the remote's
// authoritative fields overwrite the guess; on any failure the snapshot is
// restored exactly. The restore and the in-flight release run on every exit
// path, including a panic inside the remote call.
//
// read returns the current fields and false when the target no longer exists,
// in which case nothing happens. The returned bool reports whether the
// mutation ran at all.
func Mutate[S any](ctx context.Context, m *Mutator, key string,
	read func() (S, bool),
	write func(S),
	optimistic func(S) S,
	call func(ctx context.Context) (S, error),
) (bool, error) {
	if !m.begin(key) {
		return false, nil
	}
	defer m.end(key)

	snapshot, ok := read()
	if !ok {
		return false, nil
	}

	write(optimistic(snapshot))

	settled := false
	defer func() {
		if !settled {
			write(snapshot)
		}
	}()

	authoritative, err := call(ctx)
	if err != nil {
		return true, err
	}

	write(authoritative)
	settled = true

	return true, nil
}
