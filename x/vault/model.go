package vault

import (
	"bytes"
	"sort"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/orm"
)

const (
	// VaultBucketName is where we store the vaults.
	VaultBucketName = "vaults"
	// ProposalBucketName is where we store the proposals.
	ProposalBucketName = "proposals"

	// To avoid burning CPU, this is the maximum number of owners allowed
	// to be part of a single vault.
	maxOwnersAllowed = 100
)

// VaultCondition derives the storage identity of the vault controlled
// by this authority. The derivation is pure, so a second initialization
// attempt by the same authority lands on the same address and is
// rejected as a duplicate.
func VaultCondition(authority covault.Address) covault.Condition {
	return covault.NewCondition("vault", "custody", authority)
}

// ProposalCondition derives the public identity of the proposal with
// the given sequence number inside the given vault.
func ProposalCondition(vault covault.Address, proposalID uint64) covault.Condition {
	return covault.NewCondition("vault", "proposal", proposalKey(vault, proposalID))
}

// proposalKey builds the composite primary key a proposal is stored
// under: vault address followed by the big-endian sequence value, so
// lookup is a single O(1) read.
func proposalKey(vault covault.Address, proposalID uint64) []byte {
	return append(vault.Clone(), orm.EncodeSequence(int64(proposalID))...)
}

var _ orm.CloneableData = (*Vault)(nil)

// Validate enforces the invariants every persisted vault must hold.
func (v *Vault) Validate() error {
	if err := v.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if err := validateOwners(errors.ErrModel, v.Owners, v.Threshold); err != nil {
		return err
	}
	return nil
}

// Copy produces an independent deep copy of the vault.
func (v *Vault) Copy() orm.CloneableData {
	return &Vault{
		Authority:     v.Authority.Clone(),
		Owners:        cloneAddresses(v.Owners),
		Threshold:     v.Threshold,
		ProposalCount: v.ProposalCount,
	}
}

// IsOwner returns true iff the given identity is in the owner set.
// Pure, no side effects.
func (v *Vault) IsOwner(addr covault.Address) bool {
	for _, owner := range v.Owners {
		if owner.Equals(addr) {
			return true
		}
	}
	return false
}

// ThresholdMet returns true iff the proposal collected at least the
// required number of approvals.
func (v *Vault) ThresholdMet(p *Proposal) bool {
	return uint32(len(p.Approvals)) >= v.Threshold
}

var _ orm.CloneableData = (*Proposal)(nil)

// Validate enforces the invariants every persisted proposal must hold.
func (p *Proposal) Validate() error {
	if err := p.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if err := p.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if p.Recipient.Equals(p.Vault) {
		return errors.Wrap(errors.ErrModel, "recipient is the vault itself")
	}
	if !p.Amount.IsPositive() {
		return errors.Wrapf(ErrInvalidAmount, "amount: %s", p.Amount)
	}
	if err := p.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	for i, a := range p.Approvals {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "approval #%d", i)
		}
	}
	if containsDuplicates(p.Approvals) {
		return errors.Wrap(errors.ErrModel, "duplicate approvals")
	}
	return nil
}

// Copy produces an independent deep copy of the proposal.
func (p *Proposal) Copy() orm.CloneableData {
	return &Proposal{
		Vault:      p.Vault.Clone(),
		ProposalID: p.ProposalID,
		Recipient:  p.Recipient.Clone(),
		Amount:     p.Amount,
		Approvals:  cloneAddresses(p.Approvals),
		Executed:   p.Executed,
	}
}

// HasApproved returns true iff the given identity already approved this
// proposal. Pure, no side effects.
func (p *Proposal) HasApproved(addr covault.Address) bool {
	for _, a := range p.Approvals {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// validateOwners returns an error if the given owners and threshold
// configuration is not valid. This check is done on the model and on
// messages, so instead of copying the code it is extracted here.
//
// The check order mirrors the operation contract: emptiness and
// threshold bounds first (all reported as an invalid threshold), the
// duplicate scan last.
func validateOwners(baseErr error, owners []covault.Address, threshold uint32) error {
	if len(owners) == 0 {
		return errors.Wrap(ErrInvalidThreshold, "no owners")
	}
	if len(owners) > maxOwnersAllowed {
		return errors.Wrap(baseErr, "too many owners")
	}
	if threshold == 0 {
		return errors.Wrap(ErrInvalidThreshold, "threshold must be greater than zero")
	}
	if int(threshold) > len(owners) {
		return errors.Wrapf(ErrInvalidThreshold,
			"threshold %d exceeds %d owners", threshold, len(owners))
	}
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner #%d", i)
		}
	}
	if containsDuplicates(owners) {
		return errors.Wrap(ErrDuplicateOwners, "owners must be distinct")
	}
	return nil
}

// containsDuplicates sorts a copy of the list and compares neighbours,
// so the original order is preserved for the caller.
func containsDuplicates(addrs []covault.Address) bool {
	if len(addrs) < 2 {
		return false
	}
	cpy := cloneAddresses(addrs)
	sort.Slice(cpy, func(i, j int) bool {
		return bytes.Compare(cpy[i], cpy[j]) < 0
	})
	for i := 1; i < len(cpy); i++ {
		if cpy[i].Equals(cpy[i-1]) {
			return true
		}
	}
	return false
}

func cloneAddresses(addrs []covault.Address) []covault.Address {
	if addrs == nil {
		return nil
	}
	out := make([]covault.Address, len(addrs))
	for i, a := range addrs {
		out[i] = a.Clone()
	}
	return out
}

// VaultBucket is a type-safe wrapper around orm.Bucket.
type VaultBucket struct {
	orm.Bucket
}

// NewVaultBucket initializes a VaultBucket with the default name.
func NewVaultBucket() VaultBucket {
	return VaultBucket{
		Bucket: orm.NewBucket(VaultBucketName, orm.NewSimpleObj(nil, new(Vault))),
	}
}

// GetVault returns the vault stored at this address, or ErrNotFound.
func (b VaultBucket) GetVault(db covault.ReadOnlyKVStore, vaultAddr covault.Address) (*Vault, error) {
	obj, err := b.Get(db, vaultAddr)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "vault %s", vaultAddr)
	}
	v, ok := obj.Value().(*Vault)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return v, nil
}

// Save persists the vault under its derived address.
func (b VaultBucket) Save(db covault.KVStore, vaultAddr covault.Address, v *Vault) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(vaultAddr, v))
}

// ProposalBucket is a type-safe wrapper around orm.Bucket.
type ProposalBucket struct {
	orm.Bucket
}

// NewProposalBucket initializes a ProposalBucket with the default name.
func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		Bucket: orm.NewBucket(ProposalBucketName, orm.NewSimpleObj(nil, new(Proposal))),
	}
}

// GetProposal returns the proposal with the given id within the vault,
// or ErrNotFound.
func (b ProposalBucket) GetProposal(db covault.ReadOnlyKVStore, vaultAddr covault.Address, proposalID uint64) (*Proposal, error) {
	obj, err := b.Get(db, proposalKey(vaultAddr, proposalID))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "proposal %d in vault %s", proposalID, vaultAddr)
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}

// Save persists the proposal under its composite key.
func (b ProposalBucket) Save(db covault.KVStore, p *Proposal) error {
	return b.Bucket.Save(db, orm.NewSimpleObj(proposalKey(p.Vault, p.ProposalID), p))
}

// RegisterQuery registers the vault buckets under "/vaults" and
// "/proposals".
func RegisterQuery(qr covault.QueryRouter) {
	NewVaultBucket().Register("vaults", qr)
	NewProposalBucket().Register("proposals", qr)
}
