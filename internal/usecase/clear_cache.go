package usecase

import (
	"fmt"
	"log/slog"
)

// ClearCache drops every cached directory result.
type ClearCache struct {
	cache CandidateCache
	log   *slog.Logger
}

// NewClearCache creates a new ClearCache use case
func NewClearCache(cache CandidateCache, log *slog.Logger) *ClearCache {
	return &ClearCache{cache: cache, log: log.With("component", "ClearCache")}
}

// Run executes the clear cache use case
func (uc *ClearCache) Run() error {
	if err := uc.cache.Purge(); err != nil {
		return fmt.Errorf("failed to clear candidate cache: %w", err)
	}
	uc.log.Debug("Candidate cache cleared")
	return nil
}
