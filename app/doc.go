/*
Package app assembles handlers, decorators and a commit store into a
processing engine.

The engine accepts transactions in two phases. CheckTx runs the handler
stack against a throwaway cache to validate a transaction without any
lasting effect. DeliverTx runs the same stack against a write cache
that is flushed on success and dropped on error, so every transaction
is applied all or nothing. Commit persists everything delivered since
the last commit.
*/
package app
