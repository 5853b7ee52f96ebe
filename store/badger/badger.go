// Package badgerstore provides a CommitKVStore backed by a badger database.
// It is the persistence option for deployments that must survive a restart,
// the in-memory btree store stays the default everywhere else.
package badgerstore

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v3"
	"github.com/sirupsen/logrus"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/store"
)

var versionKey = []byte("_meta:version")

// Store is a badger backed key-value store. All reads see the last
// committed state. Use CacheWrap to group writes and apply them in one
// atomic flush.
type Store struct {
	db     *badger.DB
	logger *logrus.Logger
}

var _ trustee.CacheableKVStore = (*Store)(nil)
var _ trustee.CommitKVStore = (*Store)(nil)

// Open creates or reopens a badger database in the given directory. The
// logger is handed to badger for its operational output and used for our
// own; a nil logger defaults to the logrus standard logger.
func Open(dir string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	opts := badger.DefaultOptions(dir).WithLogger(logger)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open badger database")
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database. The store must not be used afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns nil iff key doesn't exist. Any storage level failure is fatal
// and propagated as a panic, because quorum decisions must not be made on a
// stale or partial view.
func (s *Store) Get(key []byte) []byte {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		panic(errors.Wrap(err, "badger read failed"))
	}
	return value
}

// Has checks if a key exists.
func (s *Store) Has(key []byte) bool {
	return s.Get(key) != nil
}

// Set sets the key in its own transaction.
func (s *Store) Set(key, value []byte) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		panic(errors.Wrap(err, "badger write failed"))
	}
}

// Delete deletes the key in its own transaction.
func (s *Store) Delete(key []byte) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		panic(errors.Wrap(err, "badger delete failed"))
	}
}

// Iterator over a domain of keys in ascending order. The snapshot is
// materialized up front, so writes during iteration are safe.
func (s *Store) Iterator(start, end []byte) trustee.Iterator {
	return store.NewSliceIterator(s.rangeModels(start, end, false))
}

// ReverseIterator over a domain of keys in descending order.
func (s *Store) ReverseIterator(start, end []byte) trustee.Iterator {
	return store.NewSliceIterator(s.rangeModels(start, end, true))
}

func (s *Store) rangeModels(start, end []byte, reverse bool) []trustee.Model {
	var models []trustee.Model
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = reverse
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if !inRange(key, start, end, reverse) {
				continue
			}
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			models = append(models, trustee.Pair(key, value))
		}
		return nil
	})
	if err != nil {
		panic(errors.Wrap(err, "badger iteration failed"))
	}
	return models
}

func inRange(key, start, end []byte, reverse bool) bool {
	if string(key) == string(versionKey) {
		return false
	}
	if reverse {
		// in reverse mode start is the (exclusive) upper bound
		if start != nil && string(key) > string(start) {
			return false
		}
		if end != nil && string(key) <= string(end) {
			return false
		}
		return true
	}
	if start != nil && string(key) < string(start) {
		return false
	}
	if end != nil && string(key) >= string(end) {
		return false
	}
	return true
}

// NewBatch returns a batch writing through a badger WriteBatch, flushed
// atomically on Write.
func (s *Store) NewBatch() trustee.Batch {
	return &writeBatch{wb: s.db.NewWriteBatch()}
}

// CacheWrap returns a scratch-pad over this store. Write applies all
// operations in a single atomic flush.
func (s *Store) CacheWrap() trustee.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit bumps and persists the version counter. All writes performed
// through batches are already durable at this point.
func (s *Store) Commit() (trustee.CommitID, error) {
	next := s.LatestVersion().Version + 1
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(next))
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(versionKey, raw)
	})
	if err != nil {
		return trustee.CommitID{}, errors.Wrap(err, "cannot persist version")
	}
	if err := s.db.Sync(); err != nil {
		return trustee.CommitID{}, errors.Wrap(err, "cannot sync")
	}
	s.logger.WithField("version", next).Debug("store committed")
	return trustee.CommitID{Version: next}, nil
}

// LoadLatestVersion is a noop for badger, which always opens on the last
// durable state.
func (s *Store) LoadLatestVersion() error {
	return nil
}

// LatestVersion returns info on the latest version saved to disk.
func (s *Store) LatestVersion() trustee.CommitID {
	raw := s.Get(versionKey)
	if raw == nil {
		return trustee.CommitID{}
	}
	return trustee.CommitID{Version: int64(binary.BigEndian.Uint64(raw))}
}

type writeBatch struct {
	wb *badger.WriteBatch
}

var _ trustee.Batch = (*writeBatch)(nil)

func (b *writeBatch) Set(key, value []byte) {
	// WriteBatch keeps its own copy of the data
	if err := b.wb.Set(append([]byte(nil), key...), append([]byte(nil), value...)); err != nil {
		panic(errors.Wrap(err, "batch set failed"))
	}
}

func (b *writeBatch) Delete(key []byte) {
	if err := b.wb.Delete(append([]byte(nil), key...)); err != nil {
		panic(errors.Wrap(err, "batch delete failed"))
	}
}

func (b *writeBatch) Write() error {
	return errors.Wrap(b.wb.Flush(), "cannot flush batch")
}
