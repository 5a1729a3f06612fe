package vault

import (
	"github.com/covault/covault/errors"
)

// Error codes 1030-1039 are reserved for the vault extension.
var (
	// ErrNotOwner is returned when the caller is not an owner of the
	// vault it operates on.
	ErrNotOwner = errors.Register(1030, "not a vault owner")

	// ErrAlreadyExecuted is returned when a mutation is attempted on a
	// proposal that was already executed.
	ErrAlreadyExecuted = errors.Register(1031, "proposal already executed")

	// ErrAlreadyApproved is returned when an owner approves the same
	// proposal a second time.
	ErrAlreadyApproved = errors.Register(1032, "proposal already approved by this owner")

	// ErrMissingApprovals is returned when an execution is attempted
	// below the approval threshold.
	ErrMissingApprovals = errors.Register(1033, "not enough approvals")

	// ErrInvalidThreshold is returned when the threshold is zero,
	// exceeds the owner count, or the owner list is empty.
	ErrInvalidThreshold = errors.Register(1034, "invalid threshold")

	// ErrDuplicateOwners is returned when the owner list contains
	// repeated entries.
	ErrDuplicateOwners = errors.Register(1035, "duplicate owners")

	// ErrInvalidAmount is returned when a proposal requests a
	// non-positive amount.
	ErrInvalidAmount = errors.Register(1036, "invalid proposal amount")
)
