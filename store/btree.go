package store

import (
	"bytes"

	"github.com/google/btree"

	"github.com/covault/covault"
)

// degree is the branching factor of the cache btrees. A low degree
// favors the small working sets a single request touches.
const degree = 2

// cacheItem is a single cached write. A delete is cached as an item with
// the delete flag set, shadowing whatever the backing store holds.
type cacheItem struct {
	key    []byte
	value  []byte
	delete bool
}

func (i cacheItem) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(cacheItem).key) < 0
}

// BTreeCacheable adds a simple btree-based CacheWrap strategy to a
// KVStore.
type BTreeCacheable struct {
	covault.KVStore
}

var _ covault.CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later written to this
// store, or rolled back.
func (b BTreeCacheable) CacheWrap() covault.KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, batchFor(b.KVStore))
}

// batchFor asks the store for a batch writing into it, falling back to
// a non-atomic one when the store offers nothing better.
func batchFor(kv covault.KVStore) Batch {
	if b, ok := kv.(Batcher); ok {
		return b.NewBatch()
	}
	return NewNonAtomicBatch(kv)
}

// BTreeCacheWrap places a btree cache over a KVStore. All writes land in
// the cache (for reads) and in the batch (for the final flush). Write
// applies the batch to the backing store, Discard drops everything.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	back  covault.ReadOnlyKVStore
	batch Batch
}

var _ covault.KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a btree cache around the kv store. The
// ReadOnlyKVStore type emphasizes that all writes must go through the
// batch.
func NewBTreeCacheWrap(kv covault.ReadOnlyKVStore, batch Batch) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		bt:    btree.New(degree),
		back:  kv,
		batch: batch,
	}
}

// Get returns the cached write if present, otherwise reads through to
// the backing store.
func (c *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if item := c.bt.Get(cacheItem{key: key}); item != nil {
		cached := item.(cacheItem)
		if cached.delete {
			return nil, nil
		}
		return cached.value, nil
	}
	return c.back.Get(key)
}

// Has checks the cache first, then the backing store.
func (c *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if item := c.bt.Get(cacheItem{key: key}); item != nil {
		return !item.(cacheItem).delete, nil
	}
	return c.back.Has(key)
}

// Set caches the write. Key and value are copied, so the caller may
// reuse the slices.
func (c *BTreeCacheWrap) Set(key, value []byte) error {
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	c.bt.ReplaceOrInsert(cacheItem{key: k, value: v})
	c.batch.Set(k, v)
	return nil
}

// Delete caches a tombstone for the key.
func (c *BTreeCacheWrap) Delete(key []byte) error {
	k := append([]byte(nil), key...)
	c.bt.ReplaceOrInsert(cacheItem{key: k, delete: true})
	c.batch.Delete(k)
	return nil
}

// CacheWrap layers another scratch-pad on top of this one, so a wrap
// can be used recursively.
func (c *BTreeCacheWrap) CacheWrap() covault.KVCacheWrap {
	return NewBTreeCacheWrap(c, NewNonAtomicBatch(c))
}

// Write flushes all cached writes to the backing store as one batch.
func (c *BTreeCacheWrap) Write() error {
	err := c.batch.Write()
	c.bt.Clear(false)
	return err
}

// Discard drops all cached writes without touching the backing store.
func (c *BTreeCacheWrap) Discard() {
	c.bt.Clear(false)
}

// MemStore is a btree backed KVStore held fully in memory. There is no
// persistence here; it exists for tests and examples.
type MemStore struct {
	bt *btree.BTree
}

var _ covault.CacheableKVStore = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		bt: btree.New(degree),
	}
}

// Get returns the stored value, or nil when the key is unknown.
func (m *MemStore) Get(key []byte) ([]byte, error) {
	if item := m.bt.Get(cacheItem{key: key}); item != nil {
		return item.(cacheItem).value, nil
	}
	return nil, nil
}

// Has checks if the key is present.
func (m *MemStore) Has(key []byte) (bool, error) {
	return m.bt.Has(cacheItem{key: key}), nil
}

// Set stores the value under the key. Both slices are copied.
func (m *MemStore) Set(key, value []byte) error {
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	m.bt.ReplaceOrInsert(cacheItem{key: k, value: v})
	return nil
}

// Delete removes the key.
func (m *MemStore) Delete(key []byte) error {
	m.bt.Delete(cacheItem{key: key})
	return nil
}

// CacheWrap returns a scratch-pad over this store.
func (m *MemStore) CacheWrap() covault.KVCacheWrap {
	return NewBTreeCacheWrap(m, NewNonAtomicBatch(m))
}
