package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

type panicHandler struct{}

var _ covault.Handler = panicHandler{}

func (panicHandler) Check(covault.Context, covault.KVStore, covault.Tx) (*covault.CheckResult, error) {
	panic("check blew up")
}

func (panicHandler) Deliver(covault.Context, covault.KVStore, covault.Tx) (*covault.DeliverResult, error) {
	panic("deliver blew up")
}

func TestRecovery(t *testing.T) {
	stack := ChainDecorators(NewRecovery()).WithHandler(panicHandler{})
	db := store.NewMemStore()
	tx := &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/panic"}}

	_, err := stack.Check(context.Background(), db, tx)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = stack.Deliver(context.Background(), db, tx)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryPassesResults(t *testing.T) {
	h := &covtest.Handler{
		CheckResult: covault.CheckResult{GasAllocated: 7},
	}
	stack := ChainDecorators(NewRecovery()).WithHandler(h)

	res, err := stack.Check(context.Background(), store.NewMemStore(), &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/fine"}})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), res.GasAllocated)
}
