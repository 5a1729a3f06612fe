package vault

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

func TestGenesisInitializer(t *testing.T) {
	db := store.NewMemStore()
	authority := covtest.NewAddress()
	a, b := covtest.NewAddress(), covtest.NewAddress()

	raw, err := json.Marshal([]interface{}{
		map[string]interface{}{
			"authority": authority.String(),
			"owners":    []string{a.String(), b.String()},
			"threshold": 2,
		},
	})
	require.NoError(t, err)
	opts := covault.Options{"vault": raw}

	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	vaultAddr := VaultCondition(authority).Address()
	v, err := NewVaultBucket().GetVault(db, vaultAddr)
	require.NoError(t, err)
	assert.True(t, v.Authority.Equals(authority))
	assert.Len(t, v.Owners, 2)
	assert.Equal(t, uint32(2), v.Threshold)
	assert.Equal(t, uint64(0), v.ProposalCount)
}

func TestGenesisInitializerRejectsInvalid(t *testing.T) {
	db := store.NewMemStore()
	authority := covtest.NewAddress()

	// Threshold above the owner count fails model validation on save.
	raw, err := json.Marshal([]interface{}{
		map[string]interface{}{
			"authority": authority.String(),
			"owners":    []string{covtest.NewAddress().String()},
			"threshold": 2,
		},
	})
	require.NoError(t, err)

	var ini Initializer
	err = ini.FromGenesis(covault.Options{"vault": raw}, db)
	assert.True(t, ErrInvalidThreshold.Is(err))
}

func TestGenesisInitializerRejectsDuplicate(t *testing.T) {
	db := store.NewMemStore()
	authority := covtest.NewAddress()
	owner := covtest.NewAddress()

	entry := map[string]interface{}{
		"authority": authority.String(),
		"owners":    []string{owner.String()},
		"threshold": 1,
	}
	raw, err := json.Marshal([]interface{}{entry, entry})
	require.NoError(t, err)

	var ini Initializer
	err = ini.FromGenesis(covault.Options{"vault": raw}, db)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestGenesisInitializerNoOptions(t *testing.T) {
	db := store.NewMemStore()

	var ini Initializer
	assert.NoError(t, ini.FromGenesis(covault.Options{}, db))
}
