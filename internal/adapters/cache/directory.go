package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/trebuchet-org/calldata-lens/internal/adapters/storage"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

const keyPrefix = "candidates:"

// Directory wraps a SignatureDirectory with an in-memory cache in front of
// a persisted one. Both expire entries after the same TTL. Empty results are
// never cached so newly registered signatures show up on the next lookup.
type Directory struct {
	inner  usecase.SignatureDirectory
	memory *bigcache.BigCache
	db     *storage.BadgerStorage
	ttl    time.Duration
	log    *slog.Logger
}

var (
	_ usecase.SignatureDirectory = (*Directory)(nil)
	_ usecase.CandidateCache     = (*Directory)(nil)
)

// NewDirectory creates a caching directory. db may be nil to cache in memory
// only. A ttl of zero disables caching; lookups go straight to inner.
func NewDirectory(inner usecase.SignatureDirectory, db *storage.BadgerStorage, ttl time.Duration, log *slog.Logger) (*Directory, error) {
	if ttl <= 0 {
		return &Directory{inner: inner, db: db, log: log.With("component", "CandidateCache")}, nil
	}

	memory, err := bigcache.New(context.Background(), bigcache.Config{
		// number of shards (must be a power of 2)
		Shards: 64,

		// time after which entry can be evicted
		LifeWindow: ttl,

		// bigcache has a one second resolution
		CleanWindow: time.Minute,

		// used only in initial memory allocation
		MaxEntriesInWindow: 1024,
		MaxEntrySize:       1024,

		// cap at 32MB
		HardMaxCacheSize: 32,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate cache: %w", err)
	}

	return &Directory{
		inner:  inner,
		memory: memory,
		db:     db,
		ttl:    ttl,
		log:    log.With("component", "CandidateCache"),
	}, nil
}

func (d *Directory) Lookup(ctx context.Context, selector string) ([]domain.SignatureCandidate, error) {
	if candidates, ok := d.get(selector); ok {
		return candidates, nil
	}

	candidates, err := d.inner.Lookup(ctx, selector)
	if err != nil {
		return nil, err
	}
	d.put(selector, candidates)
	return candidates, nil
}

// LookupMany serves what it can from cache and forwards only the misses.
func (d *Directory) LookupMany(ctx context.Context, selectors []string) (map[string][]domain.SignatureCandidate, error) {
	out := make(map[string][]domain.SignatureCandidate, len(selectors))
	var misses []string
	for _, selector := range selectors {
		if candidates, ok := d.get(selector); ok {
			out[selector] = candidates
			continue
		}
		misses = append(misses, selector)
	}
	if len(misses) == 0 {
		return out, nil
	}

	found, err := d.inner.LookupMany(ctx, misses)
	if err != nil {
		return nil, err
	}
	for selector, candidates := range found {
		d.put(selector, candidates)
		out[selector] = candidates
	}
	return out, nil
}

// Purge drops every cached entry, including persisted ones written while
// caching was enabled.
func (d *Directory) Purge() error {
	if d.memory != nil {
		if err := d.memory.Reset(); err != nil {
			return err
		}
	}
	if d.db == nil {
		return nil
	}
	return d.db.DropPrefix([]byte(keyPrefix))
}

func (d *Directory) Close() error {
	if d.memory == nil {
		return nil
	}
	return d.memory.Close()
}

func (d *Directory) get(selector string) ([]domain.SignatureCandidate, bool) {
	if d.memory == nil {
		return nil, false
	}
	key := keyPrefix + selector

	data, err := d.memory.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) && d.db != nil {
		data, err = d.db.Get([]byte(key))
		if err == nil {
			// promote
			_ = d.memory.Set(key, data)
		}
	}
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) && !errors.Is(err, domain.ErrNotFound) {
			d.log.Warn("Cache read failed", "selector", selector, "err", err)
		}
		return nil, false
	}

	var candidates []domain.SignatureCandidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		d.log.Warn("Dropping corrupt cache entry", "selector", selector, "err", err)
		return nil, false
	}
	d.log.Debug("Cache hit", "selector", selector, "candidates", len(candidates))
	return candidates, true
}

func (d *Directory) put(selector string, candidates []domain.SignatureCandidate) {
	if d.memory == nil || len(candidates) == 0 {
		return
	}

	data, err := json.Marshal(candidates)
	if err != nil {
		return
	}

	key := keyPrefix + selector
	if err := d.memory.Set(key, data); err != nil {
		d.log.Warn("Cache write failed", "selector", selector, "err", err)
	}
	if d.db != nil {
		if err := d.db.SetWithTTL([]byte(key), data, d.ttl); err != nil {
			d.log.Warn("Cache write failed", "selector", selector, "err", err)
		}
	}
}
