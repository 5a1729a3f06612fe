package store

import (
	"fmt"

	"github.com/covault/covault/errors"
)

// SetDeleter is the write-only subset of a KVStore.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Batch collects write operations to be applied to a store at once.
// Whether the final Write is atomic depends on the producing store.
type Batch interface {
	// Set schedules the key to be written. Never fails.
	Set(key, value []byte)

	// Delete schedules the key to be removed. Never fails.
	Delete(key []byte)

	// Write applies all the collected operations to the underlying
	// store and resets the batch.
	Write() error
}

// Batcher is implemented by stores that can produce a batch writing
// into them. Stores that cannot get a NonAtomicBatch instead.
type Batcher interface {
	NewBatch() Batch
}

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op is a single set or delete operation.
type Op struct {
	kind  opKind
	key   []byte
	value []byte // only for set
}

// SetOp is a helper to create a set operation.
func SetOp(key, value []byte) Op {
	return Op{
		kind:  setKind,
		key:   key,
		value: value,
	}
}

// DelOp is a helper to create a del operation.
func DelOp(key []byte) Op {
	return Op{
		kind: delKind,
		key:  key,
	}
}

// Key returns the key this operation applies to.
func (o Op) Key() []byte {
	return o.key
}

// IsSet returns true for a set operation, false for a delete.
func (o Op) IsSet() bool {
	return o.kind == setKind
}

// Apply performs the operation against the given store.
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	default:
		return errors.Wrapf(errors.ErrHuman, "unknown op kind: %d", o.kind)
	}
}

// NonAtomicBatch just piles up ops and executes them later on the
// underlying store. Can be used when there is no better option (for
// in-memory stores).
//
// NOTE: never use this for KVStores that are persistent.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates an empty batch to be later written to the
// KVStore.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{
		out: out,
	}
}

// Set adds a set operation to the batch.
func (b *NonAtomicBatch) Set(key, value []byte) {
	b.ops = append(b.ops, SetOp(key, value))
}

// Delete adds a delete operation to the batch.
func (b *NonAtomicBatch) Delete(key []byte) {
	b.ops = append(b.ops, DelOp(key))
}

// Write writes all the ops to the underlying store and resets.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrap(err, fmt.Sprintf("apply op %X", op.key))
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns the ordered list of operations collected so far. It
// exists to give tests insight into what was written.
func (b *NonAtomicBatch) ShowOps() []Op {
	return append([]Op(nil), b.ops...)
}
