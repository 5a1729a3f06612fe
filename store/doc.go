/*
Package store provides the key-value storage implementations backing the
covault engine.

Two layers are composed here. A btree based cache wrap collects all
writes of a single request in memory, to be flushed as one batch or
dropped without a trace. A leveldb backed commit store persists the
flushed batches atomically on disk. MemStore offers the same semantics
without persistence, for tests.
*/
package store
