package covault

import (
	"context"
	"regexp"

	"github.com/rs/zerolog"
)

// Context is just a typedef to keep the imports clean and allow us to
// later enforce stricter requirements on the keys we store.
type Context = context.Context

type contextKey int // local to the covault module

const (
	contextKeyChainID contextKey = iota
	contextKeyHeight
	contextKeyLogger
)

// IsValidChainID is the RegExp to ensure valid chain IDs.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// WithChainID sets the chain id for the Context. Panics on an invalid
// chain id, or when one was already set.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic("invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id from the Context. Panics if it was
// never set, as this indicates a setup error in the application.
func GetChainID(ctx Context) string {
	if ctx.Value(contextKeyChainID) == nil {
		panic("chain id not set")
	}
	return ctx.Value(contextKeyChainID).(string)
}

// WithHeight sets the block height for the Context.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the block height from the Context, or false if it
// was never set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// DefaultLogger is used for all contexts that have not set anything
// themselves.
var DefaultLogger = zerolog.Nop()

// WithLogger sets the logger for the Context.
func WithLogger(ctx Context, logger zerolog.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger from the Context, or DefaultLogger when
// none was set.
func GetLogger(ctx Context) zerolog.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(zerolog.Logger); ok {
		return logger
	}
	return DefaultLogger
}
