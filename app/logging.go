package app

import (
	"time"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// Logging is a decorator that logs the outcome and duration of every
// processed transaction with the context logger.
type Logging struct{}

var _ covault.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs the transaction before passing it down the stack.
func (Logging) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Checker) (*covault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	logCall(ctx, "check", covault.GetPath(tx), start, err)
	return res, err
}

// Deliver logs the transaction before passing it down the stack.
func (Logging) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Deliverer) (*covault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	logCall(ctx, "deliver", covault.GetPath(tx), start, err)
	return res, err
}

func logCall(ctx covault.Context, call, path string, start time.Time, err error) {
	logger := covault.GetLogger(ctx)
	ev := logger.Info()
	if err != nil {
		ev = logger.Warn().Uint32("code", errors.Code(err)).Str("err", err.Error())
	}
	ev.Str("call", call).
		Str("path", path).
		Dur("duration", time.Since(start)).
		Msg("tx processed")
}
