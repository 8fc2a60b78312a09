package app

import (
	"log/slog"

	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain/layout"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Analyzer *layout.Analyzer

	// Use cases
	DecodeCalldata   *usecase.DecodeCalldata
	RankSignatures   *usecase.RankSignatures
	LookupSignatures *usecase.LookupSignatures
	ManageHistory    *usecase.ManageHistory
	ClearCache       *usecase.ClearCache
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	analyzer *layout.Analyzer,
	decodeCalldata *usecase.DecodeCalldata,
	rankSignatures *usecase.RankSignatures,
	lookupSignatures *usecase.LookupSignatures,
	manageHistory *usecase.ManageHistory,
	clearCache *usecase.ClearCache,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Analyzer:         analyzer,
		DecodeCalldata:   decodeCalldata,
		RankSignatures:   rankSignatures,
		LookupSignatures: lookupSignatures,
		ManageHistory:    manageHistory,
		ClearCache:       clearCache,
	}, nil
}
