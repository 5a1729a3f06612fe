/*
Package orm provides an easy to use db wrapper.

It breaks the state space into prefixed sections called Buckets. Each
bucket contains only one type of object and has a primary key. There is
no secondary index support: every record in this system is located
through a deterministically derived key, so exact lookup covers all
access paths.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data as well as references to
// its sequences.
//
// This is a generic building block that should generally be embedded in
// a type-safe wrapper to ensure all data is the same type.
// Bucket is a prefixed subspace of the DB. proto defines the default
// Model, all elements of this bucket are of this type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ covault.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// Register registers this Bucket with the query router. You can define
// a name here for queries, which is different than the bucket name used
// to prefix the data.
func (b Bucket) Register(name string, r covault.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter.
func (b Bucket) Query(db covault.ReadOnlyKVStore, mod string, data []byte) ([]covault.Model, error) {
	switch mod {
	case covault.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []covault.Model{covault.Pair(key, value)}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %q", mod)
	}
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't want
// consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element.
func (b Bucket) Get(db covault.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse takes a key and value data (the serialized form) and
// reconstructs the data this Bucket would return.
//
// Used internally as part of Get. It is exposed mainly as a test
// helper, but can work for any code that wants to parse.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, err
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto.
func (b Bucket) Save(db covault.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return errors.Wrap(err, "invalid object")
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete will remove the value at a key.
func (b Bucket) Delete(db covault.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Sequence returns a Sequence by name.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}
