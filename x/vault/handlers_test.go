package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
	"github.com/covault/covault/x"
	"github.com/covault/covault/x/cash"
)

// fixture wires one vault with three owners and a 2-of-3 threshold,
// plus a funded outsider, against a fresh in-memory store.
type fixture struct {
	db      covault.KVStore
	control cash.CashController
	vaults  VaultBucket

	authority covault.Condition
	ownerA    covault.Condition
	ownerB    covault.Condition
	ownerC    covault.Condition
	outsider  covault.Condition

	vaultAddr covault.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:        store.NewMemStore(),
		control:   cash.NewController(),
		vaults:    NewVaultBucket(),
		authority: covtest.NewCondition(),
		ownerA:    covtest.NewCondition(),
		ownerB:    covtest.NewCondition(),
		ownerC:    covtest.NewCondition(),
		outsider:  covtest.NewCondition(),
	}
	f.vaultAddr = VaultCondition(f.authority.Address()).Address()

	res, err := f.initialize(f.authority, []covault.Address{
		f.ownerA.Address(), f.ownerB.Address(), f.ownerC.Address(),
	}, 2)
	require.NoError(t, err)
	require.Equal(t, []byte(f.vaultAddr), res.Data)

	require.NoError(t, f.control.IssueCoins(f.db, f.outsider.Address(), coin.NewCoin(1000, "IOV")))
	return f
}

func (f *fixture) auth(signer covault.Condition) x.Authenticator {
	return &covtest.Auth{Signer: signer}
}

func (f *fixture) initialize(signer covault.Condition, owners []covault.Address, threshold uint32) (*covault.DeliverResult, error) {
	h := InitializeVaultHandler{auth: f.auth(signer), bucket: f.vaults}
	tx := &covtest.Tx{Msg: &InitializeVaultMsg{Owners: owners, Threshold: threshold}}
	return h.Deliver(context.Background(), f.db, tx)
}

func (f *fixture) deposit(signer covault.Condition, amount coin.Coin) (*covault.DeliverResult, error) {
	h := DepositHandler{auth: f.auth(signer), bucket: f.vaults, control: f.control}
	tx := &covtest.Tx{Msg: &DepositMsg{Vault: f.vaultAddr, Amount: amount}}
	return h.Deliver(context.Background(), f.db, tx)
}

func (f *fixture) createProposal(signer covault.Condition, recipient covault.Address, amount coin.Coin) (*covault.DeliverResult, error) {
	h := CreateProposalHandler{auth: f.auth(signer), vaults: f.vaults, proposals: NewProposalBucket(), control: f.control}
	tx := &covtest.Tx{Msg: &CreateProposalMsg{Vault: f.vaultAddr, Recipient: recipient, Amount: amount}}
	return h.Deliver(context.Background(), f.db, tx)
}

func (f *fixture) approve(signer covault.Condition, proposalID uint64) (*covault.DeliverResult, error) {
	h := ApproveProposalHandler{auth: f.auth(signer), vaults: f.vaults, proposals: NewProposalBucket()}
	tx := &covtest.Tx{Msg: &ApproveProposalMsg{Vault: f.vaultAddr, ProposalID: proposalID}}
	return h.Deliver(context.Background(), f.db, tx)
}

func (f *fixture) execute(signer covault.Condition, proposalID uint64) (*covault.DeliverResult, error) {
	h := ExecuteProposalHandler{auth: f.auth(signer), vaults: f.vaults, proposals: NewProposalBucket(), control: f.control}
	tx := &covtest.Tx{Msg: &ExecuteProposalMsg{Vault: f.vaultAddr, ProposalID: proposalID}}
	return h.Deliver(context.Background(), f.db, tx)
}

func (f *fixture) balance(t *testing.T, addr covault.Address, ticker string) coin.Coin {
	t.Helper()
	coins, err := f.control.Balance(f.db, addr)
	require.NoError(t, err)
	return coins.Amount(ticker)
}

func TestInitializeVault(t *testing.T) {
	f := newFixture(t)

	v, err := f.vaults.GetVault(f.db, f.vaultAddr)
	require.NoError(t, err)
	assert.True(t, v.Authority.Equals(f.authority.Address()))
	assert.Equal(t, uint32(2), v.Threshold)
	assert.Len(t, v.Owners, 3)
	assert.Equal(t, uint64(0), v.ProposalCount)
}

func TestInitializeVaultEmitsEvent(t *testing.T) {
	f := &fixture{
		db:        store.NewMemStore(),
		vaults:    NewVaultBucket(),
		authority: covtest.NewCondition(),
	}
	res, err := f.initialize(f.authority, []covault.Address{f.authority.Address()}, 1)
	require.NoError(t, err)

	require.Len(t, res.Events, 1)
	assert.Equal(t, EventTypeInitialized, res.Events[0].Type)
	got, ok := res.Events[0].AttrValue("threshold")
	require.True(t, ok)
	assert.Equal(t, "1", got)
}

func TestInitializeVaultTwiceRejected(t *testing.T) {
	f := newFixture(t)

	// Same authority derives the same address, so a second creation
	// attempt is a duplicate no matter the configuration.
	_, err := f.initialize(f.authority, []covault.Address{f.ownerA.Address()}, 1)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestInitializeVaultRequiresSigner(t *testing.T) {
	f := newFixture(t)

	_, err := f.initialize(nil, []covault.Address{f.ownerA.Address()}, 1)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)

	res, err := f.deposit(f.outsider, coin.NewCoin(300, "IOV"))
	require.NoError(t, err)

	assert.True(t, f.balance(t, f.vaultAddr, "IOV").Equals(coin.NewCoin(300, "IOV")))
	assert.True(t, f.balance(t, f.outsider.Address(), "IOV").Equals(coin.NewCoin(700, "IOV")))

	require.Len(t, res.Events, 1)
	assert.Equal(t, EventTypeDeposit, res.Events[0].Type)
}

func TestDepositUnknownVault(t *testing.T) {
	f := newFixture(t)
	f.vaultAddr = covtest.NewAddress()

	_, err := f.deposit(f.outsider, coin.NewCoin(10, "IOV"))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestDepositInsufficientFunds(t *testing.T) {
	f := newFixture(t)

	_, err := f.deposit(f.outsider, coin.NewCoin(1001, "IOV"))
	assert.True(t, cash.ErrInsufficientFunds.Is(err))
	assert.True(t, f.balance(t, f.vaultAddr, "IOV").IsZero())
}

func TestDepositByNonOwnerAllowed(t *testing.T) {
	f := newFixture(t)

	// The outsider is not in the owner set but may still fund the vault.
	_, err := f.deposit(f.outsider, coin.NewCoin(5, "IOV"))
	assert.NoError(t, err)
}

func TestCreateProposal(t *testing.T) {
	f := newFixture(t)
	recipient := covtest.NewAddress()
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)

	res, err := f.createProposal(f.ownerA, recipient, coin.NewCoin(200, "IOV"))
	require.NoError(t, err)

	p, err := NewProposalBucket().GetProposal(f.db, f.vaultAddr, 0)
	require.NoError(t, err)
	assert.True(t, p.Recipient.Equals(recipient))
	assert.True(t, p.Amount.Equals(coin.NewCoin(200, "IOV")))
	assert.Empty(t, p.Approvals)
	assert.False(t, p.Executed)

	v, err := f.vaults.GetVault(f.db, f.vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.ProposalCount)

	require.Len(t, res.Events, 1)
	assert.Equal(t, EventTypeProposalCreated, res.Events[0].Type)

	// Ids are sequential and never reused.
	_, err = f.createProposal(f.ownerB, recipient, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)
	_, err = NewProposalBucket().GetProposal(f.db, f.vaultAddr, 1)
	assert.NoError(t, err)
}

func TestCreateProposalOwnershipCheck(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)

	// An owner passes the membership check, anyone else is rejected.
	// The authority has no special standing unless listed as an owner.
	_, err = f.createProposal(f.ownerA, covtest.NewAddress(), coin.NewCoin(10, "IOV"))
	assert.NoError(t, err)
	_, err = f.createProposal(f.outsider, covtest.NewAddress(), coin.NewCoin(10, "IOV"))
	assert.True(t, ErrNotOwner.Is(err))
	_, err = f.createProposal(f.authority, covtest.NewAddress(), coin.NewCoin(10, "IOV"))
	assert.True(t, ErrNotOwner.Is(err))
}

func TestCreateProposalOverBalance(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposit(f.outsider, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	_, err = f.createProposal(f.ownerA, covtest.NewAddress(), coin.NewCoin(101, "IOV"))
	assert.True(t, cash.ErrInsufficientFunds.Is(err))
}

func TestCreateProposalSelfRecipientRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposit(f.outsider, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	// Paying the vault from itself would credit the amount on top of
	// the untouched balance, so the vault could grow its own funds.
	_, err = f.createProposal(f.ownerA, f.vaultAddr, coin.NewCoin(100, "IOV"))
	assert.True(t, errors.ErrInput.Is(err))

	assert.True(t, f.balance(t, f.vaultAddr, "IOV").Equals(coin.NewCoin(100, "IOV")))
}

func TestApproveProposal(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)
	_, err = f.createProposal(f.ownerA, covtest.NewAddress(), coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	res, err := f.approve(f.ownerA, 0)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, EventTypeProposalApproved, res.Events[0].Type)
	total, ok := res.Events[0].AttrValue("approvals")
	require.True(t, ok)
	assert.Equal(t, "1", total)

	p, err := NewProposalBucket().GetProposal(f.db, f.vaultAddr, 0)
	require.NoError(t, err)
	require.Len(t, p.Approvals, 1)
	assert.True(t, p.Approvals[0].Equals(f.ownerA.Address()))

	// Approvals accumulate in arrival order.
	_, err = f.approve(f.ownerB, 0)
	require.NoError(t, err)
	p, err = NewProposalBucket().GetProposal(f.db, f.vaultAddr, 0)
	require.NoError(t, err)
	require.Len(t, p.Approvals, 2)
	assert.True(t, p.Approvals[1].Equals(f.ownerB.Address()))
}

func TestApproveProposalMembership(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)
	_, err = f.createProposal(f.ownerA, covtest.NewAddress(), coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	// The first approval of an owner passes, the second attempt by the
	// same owner is rejected without changing the count.
	_, err = f.approve(f.ownerA, 0)
	require.NoError(t, err)
	_, err = f.approve(f.ownerA, 0)
	assert.True(t, ErrAlreadyApproved.Is(err))

	p, err := NewProposalBucket().GetProposal(f.db, f.vaultAddr, 0)
	require.NoError(t, err)
	assert.Len(t, p.Approvals, 1)

	// A non-owner approval is rejected.
	_, err = f.approve(f.outsider, 0)
	assert.True(t, ErrNotOwner.Is(err))
}

func TestApproveUnknownProposal(t *testing.T) {
	f := newFixture(t)

	_, err := f.approve(f.ownerA, 42)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestExecuteProposal(t *testing.T) {
	f := newFixture(t)
	recipient := covtest.NewAddress()
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)
	_, err = f.createProposal(f.ownerA, recipient, coin.NewCoin(200, "IOV"))
	require.NoError(t, err)

	// Below the threshold execution is rejected.
	_, err = f.approve(f.ownerA, 0)
	require.NoError(t, err)
	_, err = f.execute(f.ownerA, 0)
	assert.True(t, ErrMissingApprovals.Is(err))

	_, err = f.approve(f.ownerB, 0)
	require.NoError(t, err)

	// Execution is open to anyone once the quorum is reached.
	res, err := f.execute(f.outsider, 0)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, EventTypeProposalExecuted, res.Events[0].Type)

	assert.True(t, f.balance(t, recipient, "IOV").Equals(coin.NewCoin(200, "IOV")))
	assert.True(t, f.balance(t, f.vaultAddr, "IOV").Equals(coin.NewCoin(300, "IOV")))

	p, err := NewProposalBucket().GetProposal(f.db, f.vaultAddr, 0)
	require.NoError(t, err)
	assert.True(t, p.Executed)
}

func TestExecuteProposalExactlyOnce(t *testing.T) {
	f := newFixture(t)
	recipient := covtest.NewAddress()
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)
	_, err = f.createProposal(f.ownerA, recipient, coin.NewCoin(200, "IOV"))
	require.NoError(t, err)
	_, err = f.approve(f.ownerA, 0)
	require.NoError(t, err)
	_, err = f.approve(f.ownerB, 0)
	require.NoError(t, err)
	_, err = f.execute(f.ownerC, 0)
	require.NoError(t, err)

	// A second execution is rejected and moves nothing.
	_, err = f.execute(f.ownerC, 0)
	assert.True(t, ErrAlreadyExecuted.Is(err))
	assert.True(t, f.balance(t, recipient, "IOV").Equals(coin.NewCoin(200, "IOV")))
	assert.True(t, f.balance(t, f.vaultAddr, "IOV").Equals(coin.NewCoin(300, "IOV")))
}

func TestApproveExecutedProposal(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)
	_, err = f.createProposal(f.ownerA, covtest.NewAddress(), coin.NewCoin(200, "IOV"))
	require.NoError(t, err)
	_, err = f.approve(f.ownerA, 0)
	require.NoError(t, err)
	_, err = f.approve(f.ownerB, 0)
	require.NoError(t, err)
	_, err = f.execute(f.ownerA, 0)
	require.NoError(t, err)

	// Even an owner that did not approve yet cannot approve a closed
	// proposal, and the closed state wins over any membership error.
	_, err = f.approve(f.ownerC, 0)
	assert.True(t, ErrAlreadyExecuted.Is(err))
	_, err = f.approve(f.outsider, 0)
	assert.True(t, ErrAlreadyExecuted.Is(err))
}

func TestExecuteDrainedVault(t *testing.T) {
	f := newFixture(t)
	recipient := covtest.NewAddress()
	_, err := f.deposit(f.outsider, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	// Two proposals, each for the full balance, both reach quorum.
	for i := 0; i < 2; i++ {
		_, err = f.createProposal(f.ownerA, recipient, coin.NewCoin(100, "IOV"))
		require.NoError(t, err)
		_, err = f.approve(f.ownerA, uint64(i))
		require.NoError(t, err)
		_, err = f.approve(f.ownerB, uint64(i))
		require.NoError(t, err)
	}

	_, err = f.execute(f.ownerA, 0)
	require.NoError(t, err)

	// The second one cannot be paid anymore but stays open.
	_, err = f.execute(f.ownerA, 1)
	assert.True(t, cash.ErrInsufficientFunds.Is(err))
	p, err := NewProposalBucket().GetProposal(f.db, f.vaultAddr, 1)
	require.NoError(t, err)
	assert.False(t, p.Executed)

	// Refunding the vault makes it executable again.
	_, err = f.deposit(f.outsider, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)
	_, err = f.execute(f.ownerA, 1)
	assert.NoError(t, err)
	assert.True(t, f.balance(t, recipient, "IOV").Equals(coin.NewCoin(200, "IOV")))
}

func TestConservationAcrossLifecycle(t *testing.T) {
	f := newFixture(t)
	recipient := covtest.NewAddress()

	_, err := f.deposit(f.outsider, coin.NewCoin(400, "IOV"))
	require.NoError(t, err)
	_, err = f.createProposal(f.ownerA, recipient, coin.NewCoin(150, "IOV"))
	require.NoError(t, err)
	_, err = f.approve(f.ownerA, 0)
	require.NoError(t, err)
	_, err = f.approve(f.ownerC, 0)
	require.NoError(t, err)
	_, err = f.execute(f.outsider, 0)
	require.NoError(t, err)

	total := f.balance(t, f.outsider.Address(), "IOV").Units +
		f.balance(t, f.vaultAddr, "IOV").Units +
		f.balance(t, recipient, "IOV").Units
	assert.Equal(t, int64(1000), total)
}

func TestCheckDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposit(f.outsider, coin.NewCoin(500, "IOV"))
	require.NoError(t, err)

	h := CreateProposalHandler{auth: f.auth(f.ownerA), vaults: f.vaults, proposals: NewProposalBucket(), control: f.control}
	tx := &covtest.Tx{Msg: &CreateProposalMsg{Vault: f.vaultAddr, Recipient: covtest.NewAddress(), Amount: coin.NewCoin(10, "IOV")}}
	res, err := h.Check(context.Background(), f.db, tx)
	require.NoError(t, err)
	assert.Equal(t, createProposalCost, res.GasAllocated)

	// No proposal was written and the sequence did not move.
	_, err = NewProposalBucket().GetProposal(f.db, f.vaultAddr, 0)
	assert.True(t, errors.ErrNotFound.Is(err))
	v, err := f.vaults.GetVault(f.db, f.vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v.ProposalCount)
}
