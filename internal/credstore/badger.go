package credstore

import (
	"github.com/dgraph-io/badger/v4"
)

type badgerStore struct {
	db  *badger.DB
	key []byte
}

// NewBadger opens (or creates) the credential database under dir. The slot is
// addressed by the configured key name so that several accounts could share
// one database directory.
func NewBadger(dir string, key string) (Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &badgerStore{
		db:  db,
		key: []byte(key),
	}, nil
}

func (s *badgerStore) Save(token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, []byte(token))
	})
}

func (s *badgerStore) Load() (string, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}

		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		token = string(value)
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *badgerStore) Delete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key)
	})
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
