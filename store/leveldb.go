package store

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// versionKey is where the commit store keeps its version counter. The
// underscore prefix keeps it outside of any bucket keyspace.
var versionKey = []byte("_c:version")

// LevelDBStore is a CommitKVStore backed by a leveldb database.
//
// Writes reaching the store through a cache wrap are flushed with a
// single leveldb batch, which the engine guarantees to apply atomically.
// A half written request state is therefore never visible, not even
// after a crash.
type LevelDBStore struct {
	db      *leveldb.DB
	version int64
}

var _ covault.CommitKVStore = (*LevelDBStore)(nil)

// NewLevelDBStore opens (creating if needed) a leveldb database under
// the given directory.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &LevelDBStore{db: db}, nil
}

// NewMemLevelDBStore returns a CommitKVStore backed by an in-memory
// leveldb database. State is lost on Close, which makes it a good fit
// for tests and throwaway runs.
func NewMemLevelDBStore() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &LevelDBStore{db: db}, nil
}

// Get returns the committed value, or nil when the key is unknown.
func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return value, nil
}

// Has checks if the key is present.
func (s *LevelDBStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes a single key directly. Prefer mutating through a CacheWrap
// so that related writes land in one atomic batch.
func (s *LevelDBStore) Set(key, value []byte) error {
	if err := s.db.Put(key, value, wopts()); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete removes a single key directly.
func (s *LevelDBStore) Delete(key []byte) error {
	if err := s.db.Delete(key, wopts()); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// NewBatch returns a batch whose Write applies all operations in one
// atomic leveldb write.
func (s *LevelDBStore) NewBatch() Batch {
	return &levelDBBatch{db: s.db, batch: new(leveldb.Batch)}
}

// CacheWrap returns a scratch-pad whose Write flushes atomically into
// the database.
func (s *LevelDBStore) CacheWrap() covault.KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch())
}

// Commit bumps and persists the version counter.
func (s *LevelDBStore) Commit() (covault.CommitID, error) {
	s.version++
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(s.version))
	if err := s.db.Put(versionKey, raw, wopts()); err != nil {
		return covault.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return covault.CommitID{Version: s.version}, nil
}

// LoadLatestVersion loads the last committed version counter.
func (s *LevelDBStore) LoadLatestVersion() error {
	raw, err := s.Get(versionKey)
	if err != nil {
		return err
	}
	if raw == nil {
		s.version = 0
		return nil
	}
	s.version = int64(binary.BigEndian.Uint64(raw))
	return nil
}

// LatestVersion returns info on the latest committed version.
func (s *LevelDBStore) LatestVersion() (covault.CommitID, error) {
	return covault.CommitID{Version: s.version}, nil
}

// Close releases the database handle.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

// wopts returns the write options used for all durable writes.
func wopts() *opt.WriteOptions {
	return &opt.WriteOptions{Sync: true}
}

// levelDBBatch applies the collected operations in one atomic write.
type levelDBBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

var _ Batch = (*levelDBBatch)(nil)

func (b *levelDBBatch) Set(key, value []byte) {
	b.batch.Put(key, value)
}

func (b *levelDBBatch) Delete(key []byte) {
	b.batch.Delete(key)
}

func (b *levelDBBatch) Write() error {
	if err := b.db.Write(b.batch, wopts()); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	b.batch.Reset()
	return nil
}
