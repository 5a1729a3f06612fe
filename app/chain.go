package app

import (
	"reflect"

	"github.com/covault/covault"
)

// Decorators holds a chain of decorators, not yet resolved by a
// Handler.
type Decorators struct {
	chain []covault.Decorator
}

// ChainDecorators takes a chain of decorators, and upon adding a final
// Handler (often a Router), returns a Handler that will execute this
// whole stack.
//
//	app.ChainDecorators(
//	  app.NewLogging(),
//	  app.NewRecovery(),
//	).WithHandler(
//	  app.NewRouter(),
//	)
func ChainDecorators(chain ...covault.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain. Nil
// entries are dropped, so conditional wiring stays readable.
func (d Decorators) Chain(chain ...covault.Decorator) Decorators {
	newChain := d.chain
	for _, dec := range chain {
		if isNilDecorator(dec) {
			continue
		}
		newChain = append(newChain, dec)
	}
	return Decorators{chain: newChain}
}

func isNilDecorator(d covault.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a concrete Handler that
// will pass through the chain of decorators before calling the final
// Handler.
func (d Decorators) WithHandler(h covault.Handler) covault.Handler {
	// Wrap from the last decorator to the first one, as the top of the
	// chain is understood to be executed first.
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a specific
// Handler.
type step struct {
	d    covault.Decorator
	next covault.Handler
}

var _ covault.Handler = step{}

func (s step) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}
