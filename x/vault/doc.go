/*
Package vault implements a multi-party fund authorization vault.

A vault is a custodial account created once by an authority, with a
fixed set of owners and an approval threshold. Anyone can deposit into
a vault. An owner can propose a transfer out of it. Once a quorum of
distinct owners has approved a proposal, anyone can execute it, which
moves the funds and permanently closes the proposal.

Vault and proposal records are stored under deterministically derived
addresses: one vault per authority, and one proposal per (vault,
sequence number) pair, so any party can locate a record from its seed
values without an index.

There is no way to change owners or threshold after creation, and no
way to cancel a proposal. A proposal that never reaches quorum simply
stays open forever, locking nothing.
*/
package vault
