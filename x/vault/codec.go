package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/orm"
)

// Vault is the persisted state of one custodial account. Owners and
// threshold are fixed at creation and never mutated afterwards; only
// ProposalCount moves, by exactly one per created proposal.
type Vault struct {
	// Authority is the creator of the vault. The vault address is
	// derived from it, so one authority controls at most one vault.
	Authority covault.Address `cbor:"1,keyasint" json:"authority"`
	// Owners are the identities allowed to create and approve
	// proposals. Distinct, fixed, at least one.
	Owners []covault.Address `cbor:"2,keyasint" json:"owners"`
	// Threshold is the number of distinct owner approvals required to
	// execute a proposal.
	Threshold uint32 `cbor:"3,keyasint" json:"threshold"`
	// ProposalCount is the id the next proposal will take. It never
	// decreases and ids are never reused.
	ProposalCount uint64 `cbor:"4,keyasint" json:"proposal_count"`
}

// Proposal is a single transfer request. It accumulates approvals in
// the order they arrive and turns terminal the moment it is executed.
type Proposal struct {
	// Vault is the address of the owning vault.
	Vault covault.Address `cbor:"1,keyasint" json:"vault"`
	// ProposalID is the vault sequence value this proposal was created
	// at, unique within the vault.
	ProposalID uint64 `cbor:"2,keyasint" json:"proposal_id"`
	// Recipient receives the funds if the proposal executes.
	Recipient covault.Address `cbor:"3,keyasint" json:"recipient"`
	// Amount is the value to transfer, always positive.
	Amount coin.Coin `cbor:"4,keyasint" json:"amount"`
	// Approvals are the owners that approved so far, in approval order,
	// no duplicates.
	Approvals []covault.Address `cbor:"5,keyasint" json:"approvals"`
	// Executed is set exactly once and never reverts.
	Executed bool `cbor:"6,keyasint" json:"executed"`
}

// InitializeVaultMsg creates a new vault for the main signer.
type InitializeVaultMsg struct {
	Owners    []covault.Address `cbor:"1,keyasint" json:"owners"`
	Threshold uint32            `cbor:"2,keyasint" json:"threshold"`
}

// DepositMsg moves currency from the main signer into the vault.
type DepositMsg struct {
	Vault  covault.Address `cbor:"1,keyasint" json:"vault"`
	Amount coin.Coin       `cbor:"2,keyasint" json:"amount"`
}

// CreateProposalMsg opens a new transfer proposal on the vault.
type CreateProposalMsg struct {
	Vault     covault.Address `cbor:"1,keyasint" json:"vault"`
	Recipient covault.Address `cbor:"2,keyasint" json:"recipient"`
	Amount    coin.Coin       `cbor:"3,keyasint" json:"amount"`
}

// ApproveProposalMsg records the main signer's approval of a proposal.
type ApproveProposalMsg struct {
	Vault      covault.Address `cbor:"1,keyasint" json:"vault"`
	ProposalID uint64          `cbor:"2,keyasint" json:"proposal_id"`
}

// ExecuteProposalMsg releases the funds of a proposal that reached its
// quorum. Anyone may submit it.
type ExecuteProposalMsg struct {
	Vault      covault.Address `cbor:"1,keyasint" json:"vault"`
	ProposalID uint64          `cbor:"2,keyasint" json:"proposal_id"`
}

func (v *Vault) Marshal() ([]byte, error) {
	return orm.MarshalBinary(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, v)
}

func (p *Proposal) Marshal() ([]byte, error) {
	return orm.MarshalBinary(p)
}

func (p *Proposal) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, p)
}

func (m *InitializeVaultMsg) Marshal() ([]byte, error) {
	return orm.MarshalBinary(m)
}

func (m *InitializeVaultMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, m)
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return orm.MarshalBinary(m)
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, m)
}

func (m *CreateProposalMsg) Marshal() ([]byte, error) {
	return orm.MarshalBinary(m)
}

func (m *CreateProposalMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, m)
}

func (m *ApproveProposalMsg) Marshal() ([]byte, error) {
	return orm.MarshalBinary(m)
}

func (m *ApproveProposalMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, m)
}

func (m *ExecuteProposalMsg) Marshal() ([]byte, error) {
	return orm.MarshalBinary(m)
}

func (m *ExecuteProposalMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, m)
}
