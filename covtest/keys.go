package covtest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/covault/covault"
)

var condSeq uint64

// NewCondition returns a fresh unique test condition. Conditions are
// generated from a process-wide sequence, so two calls never collide.
func NewCondition() covault.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return covault.NewCondition("test", "seq", data)
}

// NewAddress is a shorthand for NewCondition().Address().
func NewAddress() covault.Address {
	return NewCondition().Address()
}
