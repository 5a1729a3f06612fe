package orm

import (
	"github.com/covault/covault"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	covault.Persistent

	// Validate returns an error if the model is not in a valid state to
	// save to the db (eg. field missing, out of range, ...).
	Validate() error
}

// CloneableData is an intelligent Value that can be embedded in a simple
// object to handle much of the Object functionality.
type CloneableData interface {
	Model
	Copy() CloneableData
}

// Object is what is stored in the bucket. Key is joined with the bucket
// prefix to form the full db key, Value is the data stored.
type Object interface {
	Keyed
	Cloneable

	// Validate returns an error if the object is not in a valid state to
	// save to the db.
	Validate() error

	Value() covault.Persistent
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into.
type Cloneable interface {
	Clone() Object
}

// Reader defines an interface that allows reading objects from the db.
type Reader interface {
	Get(db covault.ReadOnlyKVStore, key []byte) (Object, error)
}
