package covault

// ReadOnlyKVStore is a simple interface to read data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)
}

// KVStore is a simple interface to get/set data.
//
// All records are addressed by deterministically derived keys, so no
// iteration primitives are exposed: every read is an O(1) lookup.
type KVStore interface {
	ReadOnlyKVStore

	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// CacheableKVStore is a KVStore that supports CacheWrapping.
//
// CacheWrap() should not return a Committer, since Commit() on
// cache-wraps makes no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap allows us to maintain a scratch-pad of uncommitted data
// that we can view with all queries.
//
// At the end, call Write to flush the cached writes to the backing
// store, or Discard to drop them. This is the unit of work every
// request runs inside: either all of its writes apply, or none do.
type KVCacheWrap interface {
	// CacheableKVStore allows us to use this Cache recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}

// CommitKVStore is a store that can persist state, load on start up,
// and report the version it is at.
type CommitKVStore interface {
	KVStore

	// CacheWrap returns a scratch-pad to perform actions on.
	CacheWrap() KVCacheWrap

	// Commit persists the next version and returns info about it.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. If there was
	// a crash during the last commit, it is guaranteed to return a
	// stable state, even if older.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() (CommitID, error)

	// Close releases the underlying database handle.
	Close() error
}

// CommitID contains the store version number and a digest of its state.
type CommitID struct {
	Version int64
	Hash    []byte
}
