package cash

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
)

// Controller is the interface through which other extensions move
// currency. All mutations happen inside the caller's transaction
// scope, so a failed request leaves no balance half moved.
type Controller interface {
	// MoveCoins moves the amount from src to dest, all or nothing.
	MoveCoins(db covault.KVStore, src, dest covault.Address, amount coin.Coin) error

	// Balance returns the coins held at this address. A missing wallet
	// is an empty balance, not an error.
	Balance(db covault.ReadOnlyKVStore, addr covault.Address) (coin.Coins, error)
}

// CashController is the standard Controller implementation over the
// wallet bucket.
type CashController struct {
	bucket Bucket
}

var _ Controller = CashController{}

// NewController returns a Controller using the default wallet bucket.
func NewController() CashController {
	return CashController{bucket: NewBucket()}
}

// MoveCoins moves the given amount from src to dest. If src doesn't
// exist, or doesn't hold sufficient coins, it fails without mutating
// anything. Moving coins to the source address itself is rejected,
// otherwise the two wallet writes would double the amount.
func (c CashController) MoveCoins(db covault.KVStore, src, dest covault.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %s", amount)
	}
	if src.Equals(dest) {
		return errors.Wrapf(errors.ErrInput, "transfer to self: %s", src)
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(ErrEmptyAccount, "source %s", src)
	}
	if !sender.Coins().Contains(amount) {
		return errors.Wrapf(ErrInsufficientFunds, "holding %s, moving %s",
			sender.Coins().Amount(amount.Ticker), amount)
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// Balance returns the coins held at this address.
func (c CashController) Balance(db covault.ReadOnlyKVStore, addr covault.Address) (coin.Coins, error) {
	wallet, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, nil
	}
	return wallet.Coins(), nil
}

// IssueCoins adds the given amount of coins to the destination wallet
// out of thin air. Only genesis initialization may create value this
// way; everything past genesis must use MoveCoins.
func (c CashController) IssueCoins(db covault.KVStore, dest covault.Address, amount coin.Coin) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
