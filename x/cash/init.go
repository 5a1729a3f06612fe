package cash

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ covault.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account balances from genesis and save
// them in the database.
//
// Expected genesis options:
//
//	"cash": [
//	  {"address": "hex:...", "coins": [{"units": 100, "ticker": "IOV"}]}
//	]
func (*Initializer) FromGenesis(opts covault.Options, db covault.KVStore) error {
	var accounts []struct {
		Address covault.Address `json:"address"`
		Coins   []coin.Coin     `json:"coins"`
	}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return errors.Wrap(err, "cannot parse cash genesis")
	}

	controller := NewController()
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d address", i)
		}
		for _, c := range acc.Coins {
			if err := controller.IssueCoins(db, acc.Address, c); err != nil {
				return errors.Wrapf(err, "cannot issue coins for account #%d", i)
			}
		}
	}
	return nil
}
