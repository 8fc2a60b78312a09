package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
)

// LookupSignaturesParams contains parameters for a directory lookup
type LookupSignaturesParams struct {
	Selectors []string
	// Filter keeps only candidates whose text fuzzily matches.
	Filter string
}

// CandidateInfo is a directory candidate plus local checks.
type CandidateInfo struct {
	domain.SignatureCandidate
	Verified bool
	Selected bool
}

// SelectorCandidates groups the candidates of one selector.
type SelectorCandidates struct {
	Selector   string
	Candidates []CandidateInfo
}

// LookupResult contains one entry per requested selector, in request order.
type LookupResult struct {
	Entries []SelectorCandidates
}

// LookupSignatures queries the directory for one or more selectors.
type LookupSignatures struct {
	directory SignatureDirectory
	store     SelectionStore
	sink      ProgressSink
	log       *slog.Logger
}

// NewLookupSignatures creates a new LookupSignatures use case
func NewLookupSignatures(directory SignatureDirectory, store SelectionStore, sink ProgressSink, log *slog.Logger) *LookupSignatures {
	return &LookupSignatures{
		directory: directory,
		store:     store,
		sink:      sink,
		log:       log.With("component", "LookupSignatures"),
	}
}

// Run executes the lookup use case
func (uc *LookupSignatures) Run(ctx context.Context, params LookupSignaturesParams) (*LookupResult, error) {
	selectors := make([]string, 0, len(params.Selectors))
	for _, raw := range params.Selectors {
		sel, err := domain.NormalizeSelector(raw)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	selectors = lo.Uniq(selectors)
	if len(selectors) == 0 {
		return nil, fmt.Errorf("at least one selector is required")
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "lookup",
		Message: fmt.Sprintf("Looking up %d selector(s)", len(selectors)),
		Spinner: true,
	})
	found, err := uc.directory.LookupMany(ctx, selectors)
	if err != nil {
		return nil, fmt.Errorf("failed to look up selectors: %w", err)
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})

	result := &LookupResult{}
	for _, sel := range selectors {
		candidates := filterCandidates(found[sel], params.Filter)

		selected := ""
		if rec, err := uc.store.Get(ctx, sel); err == nil {
			selected = rec.Signature
		}

		entry := SelectorCandidates{Selector: sel}
		for _, c := range candidates {
			entry.Candidates = append(entry.Candidates, CandidateInfo{
				SignatureCandidate: c,
				Verified:           signature.Verify(c.TextSignature, sel),
				Selected:           c.TextSignature == selected,
			})
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// filterCandidates keeps fuzzy matches of query, best match first.
func filterCandidates(candidates []domain.SignatureCandidate, query string) []domain.SignatureCandidate {
	if query == "" {
		return candidates
	}
	texts := lo.Map(candidates, func(c domain.SignatureCandidate, _ int) string {
		return c.TextSignature
	})
	matches := fuzzy.Find(query, texts)
	return lo.Map(matches, func(m fuzzy.Match, _ int) domain.SignatureCandidate {
		return candidates[m.Index]
	})
}
