package app

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// Recovery is a decorator to recover from panics in transactions, so
// they are reported as regular errors instead of taking the process
// down.
type Recovery struct{}

var _ covault.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors.
func (Recovery) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Checker) (res *covault.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors.
func (Recovery) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Deliverer) (res *covault.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
