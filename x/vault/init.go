package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ covault.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial vaults from genesis and save them in
// the database. Each vault is stored under the address derived from its
// authority, exactly as if it had been initialized through a message.
//
// Expected genesis options:
//
//	"vault": [
//	  {"authority": "hex:...", "owners": ["hex:...", ...], "threshold": 2}
//	]
func (*Initializer) FromGenesis(opts covault.Options, db covault.KVStore) error {
	var vaults []struct {
		Authority covault.Address   `json:"authority"`
		Owners    []covault.Address `json:"owners"`
		Threshold uint32            `json:"threshold"`
	}
	if err := opts.ReadOptions("vault", &vaults); err != nil {
		return errors.Wrap(err, "cannot parse vault genesis")
	}

	bucket := NewVaultBucket()
	for i, gv := range vaults {
		if err := gv.Authority.Validate(); err != nil {
			return errors.Wrapf(err, "vault #%d authority", i)
		}
		vaultAddr := VaultCondition(gv.Authority).Address()
		obj, err := bucket.Get(db, vaultAddr)
		if err != nil {
			return errors.Wrapf(err, "vault #%d lookup", i)
		}
		if obj != nil {
			return errors.Wrapf(errors.ErrDuplicate, "vault #%d: %s", i, vaultAddr)
		}
		v := &Vault{
			Authority: gv.Authority,
			Owners:    gv.Owners,
			Threshold: gv.Threshold,
		}
		if err := bucket.Save(db, vaultAddr, v); err != nil {
			return errors.Wrapf(err, "cannot save vault #%d", i)
		}
	}
	return nil
}
