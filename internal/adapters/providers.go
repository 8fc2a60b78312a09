package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/abi"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/cache"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/fourbyte"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/history"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/interactive"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/progress"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/storage"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// ProvideStorage opens the local database under the data dir.
func ProvideStorage(cfg *config.RuntimeConfig, log *slog.Logger) (*storage.BadgerStorage, func(), error) {
	db, err := storage.New(&storage.Config{Path: cfg.DatabasePath()}, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", "err", err)
		}
	}
	return db, cleanup, nil
}

// ProvideCachedDirectory puts the candidate cache in front of the directory client.
func ProvideCachedDirectory(cfg *config.RuntimeConfig, client *fourbyte.Client, db *storage.BadgerStorage, log *slog.Logger) (*cache.Directory, func(), error) {
	dir, err := cache.NewDirectory(client, db, cfg.Cache.TTL, log)
	if err != nil {
		return nil, nil, err
	}
	return dir, func() { _ = dir.Close() }, nil
}

// StorageSet provides badger-backed implementations
var StorageSet = wire.NewSet(
	ProvideStorage,

	history.NewStore,
	wire.Bind(new(usecase.SelectionStore), new(*history.Store)),
)

// DirectorySet provides the cached signature directory
var DirectorySet = wire.NewSet(
	fourbyte.NewClient,
	ProvideCachedDirectory,
	wire.Bind(new(usecase.SignatureDirectory), new(*cache.Directory)),
	wire.Bind(new(usecase.CandidateCache), new(*cache.Directory)),
)

// DecoderSet provides go-ethereum based argument decoding
var DecoderSet = wire.NewSet(
	abi.NewCalldataDecoder,
	wire.Bind(new(usecase.ArgumentDecoder), new(*abi.CalldataDecoder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.CandidateSelector), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides progress reporting
var ProgressSet = wire.NewSet(
	progress.ProvideProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StorageSet,
	DirectorySet,
	DecoderSet,
	InteractiveSet,
	ProgressSet,
)
