/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object and has a primary
index keyed by caller provided bytes.
*/
package orm

import (
	"fmt"
	"reflect"
	"regexp"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	trustee.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operate on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db trustee.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns whether an entity with given primary key exists. It is
	// cheaper than a full One load when the content is of no interest.
	Has(db trustee.ReadOnlyKVStore, key []byte) bool

	// Put saves given model in the database. The model is validated
	// before it is written.
	Put(db trustee.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db trustee.KVStore, key []byte) error
}

// NewModelBucket returns a ModelBucket instance owning a prefixed subspace of
// the database. All stored entities are of the same type as the given
// prototype.
func NewModelBucket(name string, proto Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return &modelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

type modelBucket struct {
	name   string
	prefix []byte
	proto  Model
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) One(db trustee.ReadOnlyKVStore, key []byte, dest Model) error {
	raw := db.Get(mb.dbKey(key))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}

	if tp, td := reflect.TypeOf(mb.proto), reflect.TypeOf(dest); tp != td {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %s", tp, td)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (mb *modelBucket) Has(db trustee.ReadOnlyKVStore, key []byte) bool {
	return db.Has(mb.dbKey(key))
}

func (mb *modelBucket) Put(db trustee.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize")
	}
	db.Set(mb.dbKey(key), raw)
	return nil
}

func (mb *modelBucket) Delete(db trustee.KVStore, key []byte) error {
	dbkey := mb.dbKey(key)
	if !db.Has(dbkey) {
		return errors.Wrap(errors.ErrNotFound, "no entity under this key")
	}
	db.Delete(dbkey)
	return nil
}
