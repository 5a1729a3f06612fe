package covtest

import (
	"context"
	"fmt"

	"github.com/covault/covault"
)

// Auth is a fixed-answer x.Authenticator for tests. It reports every
// condition listed on the struct as authenticated, no matter the
// context.
type Auth struct {
	// Signer is a shortcut for the common single signer case. It is
	// considered together with Signers.
	Signer covault.Condition

	// Signers lists further authenticated conditions.
	Signers []covault.Condition
}

func (a *Auth) GetConditions(covault.Context) []covault.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is an x.Authenticator that reads conditions from the
// context. Pair it with a decorator that calls SetConditions while
// unpacking the transaction envelope.
type CtxAuth struct {
	// Key selects the context value holding the conditions.
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx covault.Context, permissions ...covault.Condition) covault.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx covault.Context) []covault.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]covault.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []covault.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
