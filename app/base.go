package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// chainIDKey is the raw store key the chain id is persisted under. The
// "_c:" prefix is reserved for engine internals and never collides with
// bucket space.
var chainIDKey = []byte("_c:chain_id")

// Base is the processing engine. It owns the commit store and pushes
// every transaction through the configured handler stack.
//
// Base is not safe for concurrent use. The hosting environment must
// serialize calls, which matches the one-transaction-at-a-time
// execution model of the state machine.
type Base struct {
	logger  zerolog.Logger
	db      covault.CommitKVStore
	decoder covault.TxDecoder
	handler covault.Handler

	initializer covault.Initializer
	queryRouter covault.QueryRouter
	sink        EventSink

	// deliver accumulates the writes of all delivered transactions
	// since the last commit.
	deliver covault.KVCacheWrap

	chainID string
	height  int64
}

// NewBase constructs an engine processing all transactions with the
// given handler. Call LoadLatestVersion before accepting transactions.
func NewBase(db covault.CommitKVStore, decoder covault.TxDecoder, handler covault.Handler) *Base {
	return &Base{
		logger:      covault.DefaultLogger,
		db:          db,
		decoder:     decoder,
		handler:     handler,
		queryRouter: covault.NewQueryRouter(),
		sink:        NopSink{},
		deliver:     db.CacheWrap(),
	}
}

// WithInit sets the genesis initializer, to make it easy to chain in
// initialization.
func (b *Base) WithInit(init covault.Initializer) *Base {
	b.initializer = init
	return b
}

// WithLogger sets the engine logger.
func (b *Base) WithLogger(logger zerolog.Logger) *Base {
	b.logger = logger
	return b
}

// WithQueryRouter sets the router answering state queries.
func (b *Base) WithQueryRouter(qr covault.QueryRouter) *Base {
	b.queryRouter = qr
	return b
}

// WithEventSink sets the sink receiving events of delivered
// transactions.
func (b *Base) WithEventSink(sink EventSink) *Base {
	b.sink = sink
	return b
}

// LoadLatestVersion loads the last committed state from disk and
// restores the chain id stored with it.
func (b *Base) LoadLatestVersion() error {
	if err := b.db.LoadLatestVersion(); err != nil {
		return errors.Wrap(err, "load latest")
	}
	commitID, err := b.db.LatestVersion()
	if err != nil {
		return errors.Wrap(err, "latest version")
	}
	b.height = commitID.Version

	raw, err := b.db.Get(chainIDKey)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	b.chainID = string(raw)
	b.deliver = b.db.CacheWrap()
	return nil
}

// ChainID returns the chain id, or an empty string before InitChain.
func (b *Base) ChainID() string {
	return b.chainID
}

// InitChain parses the genesis options and hands them to the
// initializer. It must be called exactly once, on a fresh store.
func (b *Base) InitChain(appState []byte, chainID string) error {
	if b.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain already initialized: %s", b.chainID)
	}
	if !covault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}

	var opts covault.Options
	if len(appState) > 0 {
		if err := json.Unmarshal(appState, &opts); err != nil {
			return errors.Wrap(err, "cannot parse genesis")
		}
	}

	if err := b.deliver.Set(chainIDKey, []byte(chainID)); err != nil {
		return errors.Wrap(err, "store chain id")
	}
	if b.initializer != nil {
		if err := b.initializer.FromGenesis(opts, b.deliver); err != nil {
			return errors.Wrap(err, "init from genesis")
		}
	}
	b.chainID = chainID
	return nil
}

// CheckTx validates the transaction against the current state without
// any lasting effect.
func (b *Base) CheckTx(txBytes []byte) (*covault.CheckResult, error) {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return nil, err
	}

	// Run against a throwaway cache so even a buggy handler cannot
	// leak writes out of a check.
	cache := b.deliver.CacheWrap()
	defer cache.Discard()

	return b.handler.Check(b.context("check_tx"), cache, tx)
}

// DeliverTx executes the transaction. All of its writes are applied,
// or none when the handler errors. Emitted events are published to the
// sink only after the writes applied.
func (b *Base) DeliverTx(txBytes []byte) (*covault.DeliverResult, error) {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return nil, err
	}

	cache := b.deliver.CacheWrap()
	res, err := b.handler.Deliver(b.context("deliver_tx"), cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "flush tx cache")
	}

	for _, ev := range res.Events {
		b.sink.Publish(ev)
	}
	return res, nil
}

// Commit flushes everything delivered since the last commit into the
// persistent store and starts the next version.
func (b *Base) Commit() (covault.CommitID, error) {
	if err := b.deliver.Write(); err != nil {
		return covault.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	commitID, err := b.db.Commit()
	if err != nil {
		return covault.CommitID{}, errors.Wrap(err, "commit")
	}
	b.height = commitID.Version
	b.deliver = b.db.CacheWrap()

	b.logger.Debug().
		Int64("height", commitID.Version).
		Msg("commit synced")
	return commitID, nil
}

// Query answers a state query from the last delivered state.
func (b *Base) Query(path string, data []byte) ([]covault.Model, error) {
	qh := b.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}
	return qh.Query(b.deliver, covault.KeyQueryMod, data)
}

// Close releases the underlying store.
func (b *Base) Close() error {
	return b.db.Close()
}

// context builds the request context for a single transaction run.
func (b *Base) context(call string) covault.Context {
	logger := b.logger.With().Str("call", call).Logger()
	ctx := covault.WithLogger(context.Background(), logger)
	ctx = covault.WithHeight(ctx, b.height+1)
	if b.chainID != "" {
		ctx = covault.WithChainID(ctx, b.chainID)
	}
	return ctx
}

// loadTx calls the decoder and captures any panic it raises.
func (b *Base) loadTx(txBytes []byte) (tx covault.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode tx")
	}
	return tx, nil
}
