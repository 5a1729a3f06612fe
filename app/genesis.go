package app

import (
	"github.com/covault/covault"
)

// ChainInitializers lets you initialize many extensions with one
// function.
func ChainInitializers(inits ...covault.Initializer) covault.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []covault.Initializer
}

// FromGenesis will pass opts to all the initializers in the list, and
// returns the first error.
func (c chainInitializer) FromGenesis(opts covault.Options, db covault.KVStore) error {
	for _, i := range c.inits {
		if i == nil {
			continue
		}
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
