package credstore

import "errors"

// ErrNotFound is returned by Load when no credential has been saved. An empty
// slot is an expected condition, not a storage failure.
var ErrNotFound = errors.New("credential not found")

// Store is a durable single-slot holder for one opaque token string.
type Store interface {
	Save(token string) error
	Load() (string, error)
	Delete() error
	Close() error
}
