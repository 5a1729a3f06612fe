// Package coin models the native currency moved by the vault: a single
// fungible token counted in indivisible integer units.
package coin

import (
	"fmt"
	"math"
	"regexp"

	"github.com/covault/covault/errors"
)

// ErrCurrency is returned when coins of different tickers are combined,
// or when a ticker is malformed.
var ErrCurrency = errors.Register(1010, "invalid currency")

// IsTicker reports whether the given string is a well formed currency
// ticker.
var IsTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxUnits is the largest amount of units a single coin may hold.
	// Half the int64 range keeps one addition away from overflow.
	MaxUnits = math.MaxInt64 / 2
	// MinUnits is the most negative amount a single coin may hold.
	MinUnits = math.MinInt64 / 2
)

// Coin is an amount of the native currency. Units are indivisible:
// there is no fractional part.
type Coin struct {
	// Units is the amount counted in the smallest denomination.
	Units int64 `cbor:"1,keyasint" json:"units"`
	// Ticker names the currency, always 3-4 upper case letters.
	Ticker string `cbor:"2,keyasint" json:"ticker"`
}

// NewCoin creates a coin with the given amount of units.
func NewCoin(units int64, ticker string) Coin {
	return Coin{
		Units:  units,
		Ticker: ticker,
	}
}

// Validate ensures the coin is in a sane internal state.
func (c Coin) Validate() error {
	if !IsTicker(c.Ticker) {
		return errors.Wrapf(ErrCurrency, "ticker: %q", c.Ticker)
	}
	if c.Units < MinUnits || c.Units > MaxUnits {
		return errors.Wrapf(errors.ErrOverflow, "units: %d", c.Units)
	}
	return nil
}

// IsZero returns true if the amount is exactly zero.
func (c Coin) IsZero() bool {
	return c.Units == 0
}

// IsPositive returns true if the amount is greater than zero.
func (c Coin) IsPositive() bool {
	return c.Units > 0
}

// IsNonNegative returns true if the amount is zero or greater.
func (c Coin) IsNonNegative() bool {
	return c.Units >= 0
}

// SameTicker returns true when both coins name the same currency.
func (c Coin) SameTicker(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Add combines two amounts of the same currency.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameTicker(o) {
		return Coin{}, errors.Wrapf(ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	c.Units += o.Units
	if err := c.Validate(); err != nil {
		return Coin{}, err
	}
	return c, nil
}

// Subtract removes the given amount, failing on a currency mismatch or
// overflow. The result may be negative.
func (c Coin) Subtract(o Coin) (Coin, error) {
	return c.Add(o.Negative())
}

// Negative returns the inverse amount.
func (c Coin) Negative() Coin {
	return Coin{
		Units:  -c.Units,
		Ticker: c.Ticker,
	}
}

// Compare orders two amounts of the same currency: -1 when c is
// smaller, 0 when equal, 1 when greater. Panics on a ticker mismatch,
// as that is always a coding error.
func (c Coin) Compare(o Coin) int {
	if !c.SameTicker(o) {
		panic(fmt.Sprintf("comparing %q to %q", c.Ticker, o.Ticker))
	}
	switch {
	case c.Units < o.Units:
		return -1
	case c.Units > o.Units:
		return 1
	default:
		return 0
	}
}

// Equals returns true when both coins hold the same amount of the same
// currency.
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Units == o.Units
}

func (c Coin) String() string {
	return fmt.Sprintf("%d %s", c.Units, c.Ticker)
}
