package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

var (
	_ covault.Msg = (*InitializeVaultMsg)(nil)
	_ covault.Msg = (*DepositMsg)(nil)
	_ covault.Msg = (*CreateProposalMsg)(nil)
	_ covault.Msg = (*ApproveProposalMsg)(nil)
	_ covault.Msg = (*ExecuteProposalMsg)(nil)
)

const (
	pathInitializeVaultMsg = "vault/initialize"
	pathDepositMsg         = "vault/deposit"
	pathCreateProposalMsg  = "vault/create_proposal"
	pathApproveProposalMsg = "vault/approve_proposal"
	pathExecuteProposalMsg = "vault/execute_proposal"
)

// Path fulfills the covault.Msg interface to allow routing.
func (InitializeVaultMsg) Path() string {
	return pathInitializeVaultMsg
}

// Validate enforces owners and threshold boundaries.
func (m *InitializeVaultMsg) Validate() error {
	return validateOwners(errors.ErrMsg, m.Owners, m.Threshold)
}

// Path fulfills the covault.Msg interface to allow routing.
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate requires a target vault and a positive amount.
func (m *DepositMsg) Validate() error {
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive deposit: %s", m.Amount)
	}
	return errors.Wrap(m.Amount.Validate(), "amount")
}

// Path fulfills the covault.Msg interface to allow routing.
func (CreateProposalMsg) Path() string {
	return pathCreateProposalMsg
}

// Validate requires a target vault, a recipient distinct from the
// vault and a positive amount.
func (m *CreateProposalMsg) Validate() error {
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if m.Recipient.Equals(m.Vault) {
		return errors.Wrap(errors.ErrInput, "recipient is the vault itself")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "amount: %s", m.Amount)
	}
	return errors.Wrap(m.Amount.Validate(), "amount")
}

// Path fulfills the covault.Msg interface to allow routing.
func (ApproveProposalMsg) Path() string {
	return pathApproveProposalMsg
}

// Validate requires a resolvable proposal reference.
func (m *ApproveProposalMsg) Validate() error {
	return errors.Wrap(m.Vault.Validate(), "vault")
}

// Path fulfills the covault.Msg interface to allow routing.
func (ExecuteProposalMsg) Path() string {
	return pathExecuteProposalMsg
}

// Validate requires a resolvable proposal reference.
func (m *ExecuteProposalMsg) Validate() error {
	return errors.Wrap(m.Vault.Validate(), "vault")
}
