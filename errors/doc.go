/*
Package errors implements custom error interfaces for covault.

The package is built around coded errors. A fixed set of root errors is
registered at startup, each with a unique numeric code. All errors
created during runtime should wrap one of the root errors, so that a
client can always categorize a failure by its code while the full
wrapped chain provides the human readable explanation.

Extensions register their own root errors in their own errors.go file,
each extension owning a distinct code range.
*/
package errors
