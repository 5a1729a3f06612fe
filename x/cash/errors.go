package cash

import (
	"github.com/covault/covault/errors"
)

// Error codes 1020-1029 are reserved for the cash extension.
var (
	// ErrInsufficientFunds is returned when a wallet does not hold
	// enough currency to cover a transfer.
	ErrInsufficientFunds = errors.Register(1020, "insufficient funds")

	// ErrEmptyAccount is returned when the transfer source holds no
	// wallet at all.
	ErrEmptyAccount = errors.Register(1021, "empty account")
)
