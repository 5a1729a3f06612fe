package app

import (
	"fmt"
	"regexp"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// isPath defines the valid characters of a routing path, of the form
// "extension/action".
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router is the main dispatcher of the application. It maps messages to
// handlers by the message path.
type Router struct {
	routes map[string]covault.Handler
}

var _ covault.Registry = (*Router)(nil)
var _ covault.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]covault.Handler),
	}
}

// Handle adds a new route. It panics on a malformed path or if the
// path is already registered, because both are programmer errors.
func (r *Router) Handle(path string, h covault.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path, or a handler
// that always fails with a not found error.
func (r *Router) handler(path string) covault.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches the transaction to the handler registered for the
// message path.
func (r *Router) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	return r.handler(covault.GetPath(tx)).Check(ctx, db, tx)
}

// Deliver dispatches the transaction to the handler registered for the
// message path.
func (r *Router) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	return r.handler(covault.GetPath(tx)).Deliver(ctx, db, tx)
}

type notFoundHandler string

var _ covault.Handler = notFoundHandler("")

func (path notFoundHandler) Check(covault.Context, covault.KVStore, covault.Tx) (*covault.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(path))
}

func (path notFoundHandler) Deliver(covault.Context, covault.KVStore, covault.Tx) (*covault.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(path))
}
