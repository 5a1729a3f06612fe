/*
Package cash keeps the native currency balances.

It is the ledger collaborator of the vault: a wallet per address, and a
Controller that atomically moves value between two wallets within the
current transaction scope. The vault module never touches wallets
directly, it only calls the Controller.
*/
package cash
