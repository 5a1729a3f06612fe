package vault

import (
	"fmt"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/orm"
	"github.com/covault/covault/x"
	"github.com/covault/covault/x/cash"
)

const (
	initializeCost     int64 = 300
	depositCost        int64 = 100
	createProposalCost int64 = 200
	approveCost        int64 = 100
	executeCost        int64 = 200
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r covault.Registry, auth x.Authenticator, control cash.Controller) {
	vaults := NewVaultBucket()
	proposals := NewProposalBucket()
	r.Handle(pathInitializeVaultMsg, InitializeVaultHandler{auth, vaults})
	r.Handle(pathDepositMsg, DepositHandler{auth, vaults, control})
	r.Handle(pathCreateProposalMsg, CreateProposalHandler{auth, vaults, proposals, control})
	r.Handle(pathApproveProposalMsg, ApproveProposalHandler{auth, vaults, proposals})
	r.Handle(pathExecuteProposalMsg, ExecuteProposalHandler{auth, vaults, proposals, control})
}

// InitializeVaultHandler creates a vault for the main signer.
type InitializeVaultHandler struct {
	auth   x.Authenticator
	bucket VaultBucket
}

var _ covault.Handler = InitializeVaultHandler{}

// Check verifies the transaction without modifying state.
func (h InitializeVaultHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return covault.NewCheck(initializeCost, ""), nil
}

// Deliver creates the vault and persists it under its derived address.
func (h InitializeVaultHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, authority, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	vaultAddr := VaultCondition(authority).Address()
	v := &Vault{
		Authority:     authority,
		Owners:        cloneAddresses(msg.Owners),
		Threshold:     msg.Threshold,
		ProposalCount: 0,
	}
	if err := h.bucket.Save(db, vaultAddr, v); err != nil {
		return nil, err
	}

	return &covault.DeliverResult{
		Data: vaultAddr,
		Log:  fmt.Sprintf("initialized vault %s", vaultAddr),
		Events: []covault.Event{
			initializedEvent(vaultAddr, authority, len(v.Owners), v.Threshold),
		},
	}, nil
}

// validate rejects the request unless a signer is present and no vault
// exists yet at the signer's derived address.
func (h InitializeVaultHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*InitializeVaultMsg, covault.Address, error) {
	var msg InitializeVaultMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	authority := signer.Address()
	vaultAddr := VaultCondition(authority).Address()
	obj, err := h.bucket.Get(db, vaultAddr)
	if err != nil {
		return nil, nil, err
	}
	if obj != nil {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "vault %s", vaultAddr)
	}
	return &msg, authority, nil
}

// DepositHandler moves currency from the main signer into a vault.
type DepositHandler struct {
	auth    x.Authenticator
	bucket  VaultBucket
	control cash.Controller
}

var _ covault.Handler = DepositHandler{}

// Check verifies the transaction without modifying state.
func (h DepositHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return covault.NewCheck(depositCost, ""), nil
}

// Deliver moves the coins from the depositor to the vault address. The
// transfer itself rejects an underfunded depositor.
func (h DepositHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, depositor, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.control.MoveCoins(db, depositor, msg.Vault, msg.Amount); err != nil {
		return nil, err
	}

	return &covault.DeliverResult{
		Log: fmt.Sprintf("deposited %s into vault %s", msg.Amount, msg.Vault),
		Events: []covault.Event{
			depositEvent(msg.Vault, depositor, msg.Amount),
		},
	}, nil
}

// validate rejects the request unless a signer is present and the
// target vault exists. Depositing is open to anyone, not only owners.
func (h DepositHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*DepositMsg, covault.Address, error) {
	var msg DepositMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if _, err := h.bucket.GetVault(db, msg.Vault); err != nil {
		return nil, nil, err
	}
	return &msg, signer.Address(), nil
}

// CreateProposalHandler opens a transfer proposal on a vault.
type CreateProposalHandler struct {
	auth      x.Authenticator
	vaults    VaultBucket
	proposals ProposalBucket
	control   cash.Controller
}

var _ covault.Handler = CreateProposalHandler{}

// Check verifies the transaction without modifying state.
func (h CreateProposalHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return covault.NewCheck(createProposalCost, ""), nil
}

// Deliver stores the proposal under the next sequence value and bumps
// the vault counter, both inside the same transaction scope.
func (h CreateProposalHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, v, proposer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	proposalID := v.ProposalCount
	p := &Proposal{
		Vault:      msg.Vault.Clone(),
		ProposalID: proposalID,
		Recipient:  msg.Recipient.Clone(),
		Amount:     msg.Amount,
		Approvals:  nil,
		Executed:   false,
	}
	if err := h.proposals.Save(db, p); err != nil {
		return nil, err
	}
	v.ProposalCount++
	if err := h.vaults.Save(db, msg.Vault, v); err != nil {
		return nil, err
	}

	return &covault.DeliverResult{
		Data: orm.EncodeSequence(int64(proposalID)),
		Log:  fmt.Sprintf("created proposal %d in vault %s", proposalID, msg.Vault),
		Events: []covault.Event{
			proposalCreatedEvent(msg.Vault, proposalID, proposer, msg.Recipient, msg.Amount),
		},
	}, nil
}

// validate rejects the request unless the signer is a vault owner and
// the vault currently holds at least the proposed amount.
func (h CreateProposalHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*CreateProposalMsg, *Vault, covault.Address, error) {
	var msg CreateProposalMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	v, err := h.vaults.GetVault(db, msg.Vault)
	if err != nil {
		return nil, nil, nil, err
	}
	proposer := signer.Address()
	if !v.IsOwner(proposer) {
		return nil, nil, nil, errors.Wrapf(ErrNotOwner, "%s", proposer)
	}
	balance, err := h.control.Balance(db, msg.Vault)
	if err != nil {
		return nil, nil, nil, err
	}
	if !balance.Contains(msg.Amount) {
		return nil, nil, nil, errors.Wrapf(cash.ErrInsufficientFunds,
			"vault holds %s, proposing %s", balance.Amount(msg.Amount.Ticker), msg.Amount)
	}
	return &msg, v, proposer, nil
}

// ApproveProposalHandler records one owner approval on a proposal.
type ApproveProposalHandler struct {
	auth      x.Authenticator
	vaults    VaultBucket
	proposals ProposalBucket
}

var _ covault.Handler = ApproveProposalHandler{}

// Check verifies the transaction without modifying state.
func (h ApproveProposalHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return covault.NewCheck(approveCost, ""), nil
}

// Deliver appends the approver to the proposal approval list.
func (h ApproveProposalHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, p, approver, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	p.Approvals = append(p.Approvals, approver)
	if err := h.proposals.Save(db, p); err != nil {
		return nil, err
	}

	return &covault.DeliverResult{
		Log: fmt.Sprintf("approved proposal %d in vault %s (%d approvals)",
			msg.ProposalID, msg.Vault, len(p.Approvals)),
		Events: []covault.Event{
			proposalApprovedEvent(msg.Vault, msg.ProposalID, approver, len(p.Approvals)),
		},
	}, nil
}

// validate rejects the request unless the proposal is still open, the
// signer is an owner, and the signer has not approved before. The
// executed check comes first so an approval of a closed proposal is
// always reported as such.
func (h ApproveProposalHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*ApproveProposalMsg, *Proposal, covault.Address, error) {
	var msg ApproveProposalMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	v, err := h.vaults.GetVault(db, msg.Vault)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := h.proposals.GetProposal(db, msg.Vault, msg.ProposalID)
	if err != nil {
		return nil, nil, nil, err
	}
	if p.Executed {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", msg.ProposalID)
	}
	approver := signer.Address()
	if !v.IsOwner(approver) {
		return nil, nil, nil, errors.Wrapf(ErrNotOwner, "%s", approver)
	}
	if p.HasApproved(approver) {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyApproved, "%s", approver)
	}
	return &msg, p, approver, nil
}

// ExecuteProposalHandler releases the funds of an approved proposal.
type ExecuteProposalHandler struct {
	auth      x.Authenticator
	vaults    VaultBucket
	proposals ProposalBucket
	control   cash.Controller
}

var _ covault.Handler = ExecuteProposalHandler{}

// Check verifies the transaction without modifying state.
func (h ExecuteProposalHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return covault.NewCheck(executeCost, ""), nil
}

// Deliver moves the funds to the recipient and marks the proposal
// executed. Both happen in the same transaction scope, so a failed
// transfer leaves the proposal open.
func (h ExecuteProposalHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, p, executor, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.control.MoveCoins(db, msg.Vault, p.Recipient, p.Amount); err != nil {
		return nil, err
	}
	p.Executed = true
	if err := h.proposals.Save(db, p); err != nil {
		return nil, err
	}

	return &covault.DeliverResult{
		Log: fmt.Sprintf("executed proposal %d in vault %s", msg.ProposalID, msg.Vault),
		Events: []covault.Event{
			proposalExecutedEvent(msg.Vault, msg.ProposalID, executor, p.Recipient, p.Amount),
		},
	}, nil
}

// validate rejects the request unless the proposal is still open, the
// vault can cover the amount, and the quorum was reached. Execution
// requires a signed transaction but the signer can be anyone, owner or
// not.
func (h ExecuteProposalHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*ExecuteProposalMsg, *Proposal, covault.Address, error) {
	var msg ExecuteProposalMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	v, err := h.vaults.GetVault(db, msg.Vault)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := h.proposals.GetProposal(db, msg.Vault, msg.ProposalID)
	if err != nil {
		return nil, nil, nil, err
	}
	if p.Executed {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyExecuted, "proposal %d", msg.ProposalID)
	}
	balance, err := h.control.Balance(db, msg.Vault)
	if err != nil {
		return nil, nil, nil, err
	}
	if !balance.Contains(p.Amount) {
		return nil, nil, nil, errors.Wrapf(cash.ErrInsufficientFunds,
			"vault holds %s, releasing %s", balance.Amount(p.Amount.Ticker), p.Amount)
	}
	if !v.ThresholdMet(p) {
		return nil, nil, nil, errors.Wrapf(ErrMissingApprovals,
			"%d of %d", len(p.Approvals), v.Threshold)
	}
	return &msg, p, signer.Address(), nil
}
