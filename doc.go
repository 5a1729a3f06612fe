/*
Package covault defines all common interfaces that tie together the
subpackages of the covault module: a custodial vault controlled by a
fixed owner set, which releases funds only after an M-of-N quorum of
the owners has approved a specific transfer.

The root package holds only interfaces and the simplest shared types
(addresses, conditions, transactions, results), so that extensions
under x/ and the orchestration layer in app/ can depend on it without
cycles.

Request scoped information travels through context.Context between the
app, middleware, and handlers. The root package defines common keys to
store info, such as block height and chain id. Each extension, such as
the authenticator, may add its own keys to enrich the context.

There should exist two functions for every XYZ of type T that we want
to support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)
*/
package covault
