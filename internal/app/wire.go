//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/calldata-lens/internal/adapters"
	"github.com/trebuchet-org/calldata-lens/internal/config"
	"github.com/trebuchet-org/calldata-lens/internal/logging"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// InitApp creates a fully wired App instance. The cleanup closes the
// database and cache.
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		config.ProvideResolver,
		config.ProvideAnalyzer,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDecodeCalldata,
		usecase.NewRankSignatures,
		usecase.NewLookupSignatures,
		usecase.NewManageHistory,
		usecase.NewClearCache,

		// App
		NewApp,
	)
	return nil, nil, nil
}
