package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
)

// SetSelectionResult reports a stored selection.
type SetSelectionResult struct {
	Record   *domain.SelectionRecord
	Verified bool
}

// ForgetResult lists which selectors were removed and which had no record.
type ForgetResult struct {
	Removed []string
	Missing []string
}

// ManageHistory reads and edits the selection history.
type ManageHistory struct {
	store SelectionStore
	log   *slog.Logger
}

// NewManageHistory creates a new ManageHistory use case
func NewManageHistory(store SelectionStore, log *slog.Logger) *ManageHistory {
	return &ManageHistory{
		store: store,
		log:   log.With("component", "ManageHistory"),
	}
}

// List returns every record ordered by selector.
func (uc *ManageHistory) List(ctx context.Context) ([]*domain.SelectionRecord, error) {
	records, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Selector < records[j].Selector
	})
	return records, nil
}

// Set stores sig as the selection for selector. A signature that doesn't hash
// to the selector is stored anyway but reported as unverified.
func (uc *ManageHistory) Set(ctx context.Context, selector, sig string) (*SetSelectionResult, error) {
	sel, err := domain.NormalizeSelector(selector)
	if err != nil {
		return nil, err
	}
	if sig == "" {
		return nil, fmt.Errorf("signature must not be empty")
	}

	record := &domain.SelectionRecord{
		Selector:  sel,
		Signature: sig,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uc.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save selection: %w", err)
	}

	verified := signature.Verify(sig, sel)
	if !verified {
		uc.log.Warn("Stored signature does not hash to selector", "selector", sel, "signature", sig)
	}
	return &SetSelectionResult{Record: record, Verified: verified}, nil
}

// Forget removes the records for selectors.
func (uc *ManageHistory) Forget(ctx context.Context, selectors []string) (*ForgetResult, error) {
	result := &ForgetResult{}
	for _, raw := range selectors {
		sel, err := domain.NormalizeSelector(raw)
		if err != nil {
			return nil, err
		}

		if _, err := uc.store.Get(ctx, sel); errors.Is(err, domain.ErrNotFound) {
			result.Missing = append(result.Missing, sel)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to read selection %s: %w", sel, err)
		}

		if err := uc.store.Delete(ctx, sel); err != nil {
			return nil, fmt.Errorf("failed to forget selection %s: %w", sel, err)
		}
		result.Removed = append(result.Removed, sel)
	}
	return result, nil
}
