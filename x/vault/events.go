package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
)

// Event types emitted by the vault handlers. Emission is observational
// only, state transitions never depend on it.
const (
	EventTypeInitialized      = "vault/initialized"
	EventTypeDeposit          = "vault/deposit"
	EventTypeProposalCreated  = "vault/proposal_created"
	EventTypeProposalApproved = "vault/proposal_approved"
	EventTypeProposalExecuted = "vault/proposal_executed"
)

func initializedEvent(vaultAddr covault.Address, authority covault.Address, owners int, threshold uint32) covault.Event {
	return covault.NewEvent(EventTypeInitialized,
		covault.Attr("vault", vaultAddr),
		covault.Attr("authority", authority),
		covault.Attr("owners", owners),
		covault.Attr("threshold", threshold),
	)
}

func depositEvent(vaultAddr covault.Address, depositor covault.Address, amount coin.Coin) covault.Event {
	return covault.NewEvent(EventTypeDeposit,
		covault.Attr("vault", vaultAddr),
		covault.Attr("depositor", depositor),
		covault.Attr("amount", amount),
	)
}

func proposalCreatedEvent(vaultAddr covault.Address, proposalID uint64, proposer covault.Address, recipient covault.Address, amount coin.Coin) covault.Event {
	return covault.NewEvent(EventTypeProposalCreated,
		covault.Attr("vault", vaultAddr),
		covault.Attr("proposal_id", proposalID),
		covault.Attr("proposer", proposer),
		covault.Attr("recipient", recipient),
		covault.Attr("amount", amount),
	)
}

func proposalApprovedEvent(vaultAddr covault.Address, proposalID uint64, approver covault.Address, total int) covault.Event {
	return covault.NewEvent(EventTypeProposalApproved,
		covault.Attr("vault", vaultAddr),
		covault.Attr("proposal_id", proposalID),
		covault.Attr("approver", approver),
		covault.Attr("approvals", total),
	)
}

func proposalExecutedEvent(vaultAddr covault.Address, proposalID uint64, executor covault.Address, recipient covault.Address, amount coin.Coin) covault.Event {
	return covault.NewEvent(EventTypeProposalExecuted,
		covault.Attr("vault", vaultAddr),
		covault.Attr("proposal_id", proposalID),
		covault.Attr("executor", executor),
		covault.Attr("recipient", recipient),
		covault.Attr("amount", amount),
	)
}
