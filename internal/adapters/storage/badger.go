package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
)

// Config holds badger settings.
type Config struct {
	Path string

	// InMemory keeps everything in RAM. Path is ignored.
	InMemory bool
}

// KeyValueItem is one entry returned by a prefix scan.
type KeyValueItem struct {
	Key   []byte
	Value []byte
}

// BadgerStorage is the local key-value database shared by the selection
// history and the candidate cache.
type BadgerStorage struct {
	config *Config
	db     *badger.DB
}

// New opens the database described by c.
func New(c *Config, log *slog.Logger) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(c.Path)
	if c.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(&badgerLogger{log: log.With("component", "badger")})

	db, err := badger.Open(opts.WithSyncWrites(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", c.Path, err)
	}

	return &BadgerStorage{config: c, db: db}, nil
}

func (s *BadgerStorage) Close() error {
	return s.db.Close()
}

// DbPath returns the directory backing the database, empty in memory.
func (s *BadgerStorage) DbPath() string {
	if s.config.InMemory {
		return ""
	}
	return s.config.Path
}

// Get returns a copy of the value at key or domain.ErrNotFound. Expired
// entries are reported as missing.
func (s *BadgerStorage) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	return value, err
}

func (s *BadgerStorage) Set(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// SetWithTTL stores value so that it disappears after ttl.
func (s *BadgerStorage) SetWithTTL(key, value []byte, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, value).WithTTL(ttl))
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BadgerStorage) Delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// GetByPrefix return a list of key/value item whose key prefix matches
func (s *BadgerStorage) GetByPrefix(prefix []byte) ([]*KeyValueItem, error) {
	var result []*KeyValueItem

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 30
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			k := item.KeyCopy(nil)
			v, e := item.ValueCopy(nil)
			if e != nil {
				return e
			}

			result = append(result, &KeyValueItem{
				Key:   k,
				Value: v,
			})
		}
		return nil
	})

	return result, err
}

// DropPrefix removes every key under prefix.
func (s *BadgerStorage) DropPrefix(prefix []byte) error {
	return s.db.DropPrefix(prefix)
}

// badgerLogger routes badger's own logging through slog. Badger is chatty at
// info level, so that is demoted to debug.
type badgerLogger struct {
	log *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
