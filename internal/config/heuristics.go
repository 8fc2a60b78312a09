package config

import (
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/domain/layout"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
)

// ProvideResolver builds the signature resolver, loading extra patterns when
// a patterns file is configured.
func ProvideResolver(cfg *config.RuntimeConfig) (*signature.Resolver, error) {
	opts := signature.DefaultOptions()
	if cfg.PatternsFile != "" {
		patterns, err := LoadPatterns(cfg.PatternsFile)
		if err != nil {
			return nil, err
		}
		opts.Patterns = patterns
	}
	return signature.New(opts), nil
}

// ProvideAnalyzer builds the layout analyzer with the configured payload bias.
func ProvideAnalyzer(cfg *config.RuntimeConfig) *layout.Analyzer {
	opts := layout.DefaultOptions()
	opts.PayloadBias = cfg.Layout.PayloadBias
	return layout.New(opts)
}
