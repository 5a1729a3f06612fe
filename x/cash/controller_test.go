package cash

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

func addr(b byte) covault.Address {
	out := make(covault.Address, covault.AddressLength)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestMoveCoins(t *testing.T) {
	db := store.NewMemStore()
	ctrl := NewController()
	alice, bob := addr(1), addr(2)

	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(100, "IOV")))
	require.NoError(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(40, "IOV")))

	got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.True(t, got.Amount("IOV").Equals(coin.NewCoin(60, "IOV")))

	got, err = ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.True(t, got.Amount("IOV").Equals(coin.NewCoin(40, "IOV")))
}

func TestMoveCoinsInsufficientFunds(t *testing.T) {
	db := store.NewMemStore()
	ctrl := NewController()
	alice, bob := addr(1), addr(2)

	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(100, "IOV")))
	err := ctrl.MoveCoins(db, alice, bob, coin.NewCoin(101, "IOV"))
	assert.True(t, ErrInsufficientFunds.Is(err))

	// Nothing moved.
	got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.True(t, got.Amount("IOV").Equals(coin.NewCoin(100, "IOV")))
	got, err = ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestMoveCoinsMissingSource(t *testing.T) {
	db := store.NewMemStore()
	ctrl := NewController()

	err := ctrl.MoveCoins(db, addr(1), addr(2), coin.NewCoin(1, "IOV"))
	assert.True(t, ErrEmptyAccount.Is(err))
}

func TestMoveCoinsRejectsNonPositive(t *testing.T) {
	db := store.NewMemStore()
	ctrl := NewController()
	alice, bob := addr(1), addr(2)
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(100, "IOV")))

	err := ctrl.MoveCoins(db, alice, bob, coin.NewCoin(0, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err))
	err = ctrl.MoveCoins(db, alice, bob, coin.NewCoin(-4, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestMoveCoinsRejectsSelfTransfer(t *testing.T) {
	db := store.NewMemStore()
	ctrl := NewController()
	alice := addr(1)
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(100, "IOV")))

	// Loading the same wallet as sender and recipient would apply the
	// credit on top of the untouched balance, creating coins.
	err := ctrl.MoveCoins(db, alice, alice, coin.NewCoin(40, "IOV"))
	assert.True(t, errors.ErrInput.Is(err))

	got, err := ctrl.Balance(db, alice)
	require.NoError(t, err)
	assert.True(t, got.Amount("IOV").Equals(coin.NewCoin(100, "IOV")))
}

func TestDrainedWalletIsDeleted(t *testing.T) {
	db := store.NewMemStore()
	ctrl := NewController()
	alice, bob := addr(1), addr(2)

	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewCoin(5, "IOV")))
	require.NoError(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(5, "IOV")))

	wallet, err := NewBucket().Get(db, alice)
	require.NoError(t, err)
	assert.Nil(t, wallet)
}

func TestGenesisInitializer(t *testing.T) {
	db := store.NewMemStore()
	alice := addr(7)

	raw, err := json.Marshal([]interface{}{
		map[string]interface{}{
			"address": alice.String(),
			"coins":   []coin.Coin{coin.NewCoin(1234, "IOV")},
		},
	})
	require.NoError(t, err)
	opts := covault.Options{"cash": raw}

	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	got, err := NewController().Balance(db, alice)
	require.NoError(t, err)
	assert.True(t, got.Amount("IOV").Equals(coin.NewCoin(1234, "IOV")))
}
