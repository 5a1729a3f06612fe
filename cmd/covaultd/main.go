package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/covault/covault"
	"github.com/covault/covault/app"
	"github.com/covault/covault/store"
	"github.com/covault/covault/x/cash"
	"github.com/covault/covault/x/vault"
)

var (
	flagHome    = flag.String("home", ".covaultd", "directory holding the database")
	flagGenesis = flag.String("genesis", "", "path of the genesis file, read on first start")
	flagChainID = flag.String("chain-id", "covault-dev-1", "chain id, set on first start")
	flagDebug   = flag.Bool("debug", false, "log at debug level")
)

func main() {
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	if !*flagDebug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	if err := run(logger); err != nil {
		logger.Error().Err(err).Msg("terminated")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	db, err := store.NewLevelDBStore(filepath.Join(*flagHome, "data"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	engine := newEngine(db, logger)
	if err := engine.LoadLatestVersion(); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if engine.ChainID() == "" {
		if err := initChain(engine); err != nil {
			return fmt.Errorf("init chain: %w", err)
		}
		if _, err := engine.Commit(); err != nil {
			return fmt.Errorf("commit genesis: %w", err)
		}
		logger.Info().Str("chain_id", engine.ChainID()).Msg("chain initialized")
	}

	commitID, err := db.LatestVersion()
	if err != nil {
		return fmt.Errorf("latest version: %w", err)
	}
	logger.Info().
		Str("chain_id", engine.ChainID()).
		Int64("height", commitID.Version).
		Msg("engine ready")
	return nil
}

func newEngine(db covault.CommitKVStore, logger zerolog.Logger) *app.Base {
	control := cash.NewController()

	r := app.NewRouter()
	vault.RegisterRoutes(r, signerAuth{}, control)

	qr := covault.NewQueryRouter()
	cash.RegisterQuery(qr)
	vault.RegisterQuery(qr)

	stack := app.ChainDecorators(
		app.NewRecovery(),
		app.NewLogging(),
		signerDecorator{},
	).WithHandler(r)

	return app.NewBase(db, txDecoder, stack).
		WithInit(app.ChainInitializers(&cash.Initializer{}, &vault.Initializer{})).
		WithQueryRouter(qr).
		WithEventSink(app.NewLogSink(logger)).
		WithLogger(logger)
}

func initChain(engine *app.Base) error {
	var appState []byte
	if *flagGenesis != "" {
		raw, err := os.ReadFile(*flagGenesis)
		if err != nil {
			return fmt.Errorf("read genesis: %w", err)
		}
		appState = raw
	}
	return engine.InitChain(appState, *flagChainID)
}
