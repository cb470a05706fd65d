package credstore

import "sync"

type memoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemory returns a Store that lives only for the process lifetime. Used in
// tests and for --ephemeral sessions.
func NewMemory() Store {
	return &memoryStore{}
}

func (s *memoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *memoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrNotFound
	}
	return s.token, nil
}

func (s *memoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
