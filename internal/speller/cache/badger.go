package cache

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
)

// BadgerStore is a [Store] backed by an on-disk Badger database, so learned
// corrections survive restarts.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens (or creates) a Badger-backed store at path.
func OpenBadger(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("cache: open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(word string) (string, bool, error) {
	key := []byte(normalizeKey(word))
	var replacement string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			replacement = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get %q: %w", word, err)
	}
	return replacement, true, nil
}

func (s *BadgerStore) Set(word, replacement string) error {
	word = normalizeKey(word)
	replacement = normalizeKey(replacement)
	if word == "" || replacement == "" || word == replacement {
		return nil
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(word), []byte(replacement))
	})
	if err != nil {
		return fmt.Errorf("cache: set %q: %w", word, err)
	}
	return nil
}

func (s *BadgerStore) Clear() error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("cache: clear: %w", err)
	}
	return nil
}

func (s *BadgerStore) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
