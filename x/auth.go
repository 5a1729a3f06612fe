/*
Package x holds the glue interfaces shared by all extensions.

The most important one is Authenticator: the hosting environment has
already verified who signed a request, and exposes those identities as
conditions on the context. Handlers only ever ask the Authenticator,
they never touch signatures themselves.
*/
package x

import (
	"github.com/covault/covault"
)

// Authenticator is an interface we can use to extract authentication
// info from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system, rather
// than hard-coding one for all extensions.
type Authenticator interface {
	// GetConditions reveals all conditions fulfilled, you may want the
	// GetAddresses helper.
	GetConditions(covault.Context) []covault.Condition

	// HasAddress checks if any condition matches this address.
	HasAddress(covault.Context, covault.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all conditions from all Authenticators.
func (m MultiAuth) GetConditions(ctx covault.Context) []covault.Condition {
	var res []covault.Condition
	for _, impl := range m.impls {
		if add := impl.GetConditions(ctx); len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator supports this address.
func (m MultiAuth) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator.
func GetAddresses(ctx covault.Context, auth Authenticator) []covault.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]covault.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil.
func MainSigner(ctx covault.Context, auth Authenticator) covault.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are also in
// the context.
func HasAllAddresses(ctx covault.Context, auth Authenticator, required []covault.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}
