/*
Package covtest provides in-memory implementations of the engine
interfaces, to be used by tests of any extension.
*/
package covtest
