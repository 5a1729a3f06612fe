package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/store"
)

// appendDecorator records its tag when called, so tests can observe
// the execution order of a decorator chain.
type appendDecorator struct {
	tag   string
	calls *[]string
}

var _ covault.Decorator = appendDecorator{}

func (d appendDecorator) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Checker) (*covault.CheckResult, error) {
	*d.calls = append(*d.calls, d.tag)
	return next.Check(ctx, db, tx)
}

func (d appendDecorator) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Deliverer) (*covault.DeliverResult, error) {
	*d.calls = append(*d.calls, d.tag)
	return next.Deliver(ctx, db, tx)
}

func TestChainDecoratorsOrder(t *testing.T) {
	var calls []string
	h := &covtest.Handler{}

	stack := ChainDecorators(
		appendDecorator{tag: "outer", calls: &calls},
		appendDecorator{tag: "inner", calls: &calls},
	).WithHandler(h)

	_, err := stack.Deliver(context.Background(), store.NewMemStore(), &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/one"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"outer", "inner"}, calls)
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainDropsNilDecorators(t *testing.T) {
	var calls []string
	h := &covtest.Handler{}

	var nilDec *appendDecorator
	stack := ChainDecorators(nil).
		Chain(appendDecorator{tag: "kept", calls: &calls}).
		Chain(covault.Decorator(nilDec)).
		WithHandler(h)

	_, err := stack.Check(context.Background(), store.NewMemStore(), &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/one"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, calls)
}
