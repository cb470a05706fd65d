package feed

import (
	"context"
	"sync"
)

// PageFunc fetches one page of a list resource. Pages are numbered from 1.
type PageFunc[T any] func(ctx context.Context, page int, limit int) ([]T, error)

type Status int

const (
	// StatusLoaded means a page was fetched and applied.
	StatusLoaded Status = iota
	// StatusAlreadyLoading means a fetch is outstanding and no new request was
	// issued.
	StatusAlreadyLoading
	// StatusExhausted means the collection has already received a short page
	// and no request was issued.
	StatusExhausted
	// StatusStale means the response belonged to a generation that was reset
	// while the fetch was in flight; it was discarded.
	StatusStale
	// StatusFailed means the request was issued and failed; items and cursor
	// are untouched.
	StatusFailed
)

// Loader accumulates pages of a list resource into a stable append-only
// sequence. At most one fetch is in flight at any time; responses that
// complete after a Reset are discarded.
type Loader[T any] struct {
	fetch    PageFunc[T]
	pageSize int

	mu         sync.Mutex
	items      []T
	cursor     int
	exhausted  bool
	inFlight   bool
	generation uint64
}

func NewLoader[T any](fetch PageFunc[T], pageSize int) *Loader[T] {
	return &Loader[T]{
		fetch:    fetch,
		pageSize: pageSize,
		cursor:   1,
	}
}

// Reset clears the accumulated items and rewinds the cursor. An in-flight
// fetch keeps running; its response is discarded on arrival. Until it settles,
// LoadNext keeps reporting StatusAlreadyLoading, preserving the one-fetch
// invariant.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.cursor = 1
	l.exhausted = false
	l.generation++
}

// LoadNext fetches the page at the current cursor. Duplicate triggers while a
// fetch is outstanding, and triggers after exhaustion, are no-ops rather than
// errors, so the caller's trigger does not need its own debounce.
func (l *Loader[T]) LoadNext(ctx context.Context) (Status, error) {
	l.mu.Lock()
	if l.inFlight {
		l.mu.Unlock()
		return StatusAlreadyLoading, nil
	}
	if l.exhausted {
		l.mu.Unlock()
		return StatusExhausted, nil
	}
	l.inFlight = true
	generation := l.generation
	cursor := l.cursor
	l.mu.Unlock()

	page, err := l.fetch(ctx, cursor, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()

	// The flight that just settled is the only one, whether or not a Reset
	// happened meanwhile, so the flag is always released here.
	l.inFlight = false

	if generation != l.generation {
		return StatusStale, nil
	}

	if err != nil {
		return StatusFailed, err
	}

	if cursor == 1 {
		// Replace rather than append: tolerates a page-1 retry racing an
		// earlier page-1 response within the same generation.
		l.items = append([]T(nil), page...)
	} else {
		l.items = append(l.items, page...)
	}
	l.exhausted = len(page) < l.pageSize
	l.cursor++

	return StatusLoaded, nil
}

// Items returns a copy of the accumulated sequence.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *Loader[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *Loader[T]) Exhausted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exhausted
}

func (l *Loader[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// Prepend inserts an item at the head, ahead of anything paginated in. Used
// for locally-created items the server has acknowledged.
func (l *Loader[T]) Prepend(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T{item}, l.items...)
}

// Remove deletes every item matching the predicate. Used after a
// server-acknowledged delete.
func (l *Loader[T]) Remove(match func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0]
	for _, item := range l.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	l.items = kept
}

// Update applies fn to the first item matching the predicate, in place.
func (l *Loader[T]) Update(match func(T) bool, fn func(*T)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if match(l.items[i]) {
			fn(&l.items[i])
			return true
		}
	}
	return false
}
