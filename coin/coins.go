package coin

import (
	"sort"

	"github.com/covault/covault/errors"
)

// Coins is a set of coins, at most one entry per ticker, sorted by
// ticker, with no zero amounts. Only one currency circulates in this
// system, but the set form keeps wallets self describing.
type Coins []*Coin

// NewCoins normalizes the given coins into a valid set.
func NewCoins(coins ...Coin) (Coins, error) {
	var set Coins
	for _, c := range coins {
		var err error
		if set, err = set.Add(c); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Clone returns a deep copy of the set.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	out := make(Coins, len(cs))
	for i, c := range cs {
		cpy := *c
		out[i] = &cpy
	}
	return out
}

// Validate ensures the set is sorted, unique and free of zero values.
func (cs Coins) Validate() error {
	last := ""
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrap(errors.ErrState, "zero coin in set")
		}
		if c.Ticker <= last {
			return errors.Wrap(errors.ErrState, "coins must be sorted and unique")
		}
		last = c.Ticker
	}
	return nil
}

// IsEmpty returns true when the set holds no value at all.
func (cs Coins) IsEmpty() bool {
	for _, c := range cs {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Amount returns the amount held of the given ticker, zero if absent.
func (cs Coins) Amount(ticker string) Coin {
	for _, c := range cs {
		if c.Ticker == ticker {
			return *c
		}
	}
	return NewCoin(0, ticker)
}

// Contains returns true if the set holds at least the given amount.
func (cs Coins) Contains(c Coin) bool {
	if !c.IsPositive() {
		return false
	}
	return cs.Amount(c.Ticker).Compare(c) >= 0
}

// Add combines the given coin into the set, keeping it normalized. A
// negative coin removes value; the resulting amount must not go below
// zero anywhere, wallets hold no debt.
func (cs Coins) Add(c Coin) (Coins, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sum, err := cs.Amount(c.Ticker).Add(c)
	if err != nil {
		return nil, err
	}
	if !sum.IsNonNegative() {
		return nil, errors.Wrapf(errors.ErrAmount, "negative balance: %s", sum)
	}

	out := make(Coins, 0, len(cs)+1)
	for _, have := range cs {
		if have.Ticker != c.Ticker {
			cpy := *have
			out = append(out, &cpy)
		}
	}
	if !sum.IsZero() {
		out = append(out, &sum)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ticker < out[j].Ticker
	})
	return out, nil
}

// Subtract removes the given amount from the set.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}
