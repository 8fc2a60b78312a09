package usecase

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/layout"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
)

// DecodeCalldataParams contains parameters for decoding calldata
type DecodeCalldataParams struct {
	Calldata string

	// Signature skips the directory lookup and decodes against this text.
	Signature string

	// Pick asks the user to choose when there is more than one candidate.
	Pick bool

	// Remember stores the resolved signature as the selection for the selector.
	// Picking always remembers.
	Remember bool
}

// DecodeResult is everything known about one piece of calldata.
type DecodeResult struct {
	Calldata   domain.Calldata
	Candidates []domain.SignatureCandidate
	Prior      *domain.SelectionRecord
	Resolution domain.Resolution
	Parameters []domain.Parameter
	Segments   []domain.Segment
	// Pattern is the known family the decoded signature belongs to, if any.
	Pattern    *signature.Pattern
	Remembered bool
}

// Chosen returns the candidate the parameters were decoded with.
func (r *DecodeResult) Chosen() domain.SignatureCandidate {
	if r.Resolution.Index < 0 || r.Resolution.Index >= len(r.Candidates) {
		return domain.SignatureCandidate{TextSignature: r.Resolution.Signature}
	}
	return r.Candidates[r.Resolution.Index]
}

// DecodeCalldata resolves a signature for calldata, decodes its arguments and
// lays them over the tail.
type DecodeCalldata struct {
	directory SignatureDirectory
	store     SelectionStore
	decoder   ArgumentDecoder
	selector  CandidateSelector
	resolver  *signature.Resolver
	analyzer  *layout.Analyzer
	sink      ProgressSink
	log       *slog.Logger
}

// NewDecodeCalldata creates a new DecodeCalldata use case
func NewDecodeCalldata(
	directory SignatureDirectory,
	store SelectionStore,
	decoder ArgumentDecoder,
	selector CandidateSelector,
	resolver *signature.Resolver,
	analyzer *layout.Analyzer,
	sink ProgressSink,
	log *slog.Logger,
) *DecodeCalldata {
	return &DecodeCalldata{
		directory: directory,
		store:     store,
		decoder:   decoder,
		selector:  selector,
		resolver:  resolver,
		analyzer:  analyzer,
		sink:      sink,
		log:       log.With("component", "DecodeCalldata"),
	}
}

// Run executes the decode workflow
func (uc *DecodeCalldata) Run(ctx context.Context, params DecodeCalldataParams) (*DecodeResult, error) {
	calldata, err := domain.ParseCalldata(params.Calldata)
	if err != nil {
		return nil, err
	}
	tail, err := hex.DecodeString(calldata.Tail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCalldata, err)
	}

	result := &DecodeResult{Calldata: calldata}

	if params.Signature != "" {
		result.Candidates = []domain.SignatureCandidate{{
			TextSignature: params.Signature,
			HexSignature:  signature.Selector(params.Signature),
		}}
		result.Resolution = domain.Resolution{Signature: params.Signature, Source: domain.SourceForced}
		if !signature.Verify(params.Signature, calldata.Selector) {
			uc.log.Warn("Signature does not hash to selector", "signature", params.Signature, "selector", calldata.Selector)
		}
	} else if err := uc.resolve(ctx, params, result); err != nil {
		return nil, err
	}

	if err := uc.decode(result, tail); err != nil {
		return nil, err
	}
	result.Segments = uc.analyzer.ComputeSegments(result.Parameters, calldata.Tail)
	if p, ok := uc.resolver.Match(result.Resolution.Signature); ok {
		result.Pattern = &p
	}

	if params.Remember || result.Resolution.Source == domain.SourcePicked {
		if err := uc.remember(ctx, result); err != nil {
			return nil, err
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete", Message: "Calldata decoded"})
	return result, nil
}

func (uc *DecodeCalldata) resolve(ctx context.Context, params DecodeCalldataParams, result *DecodeResult) error {
	selector := result.Calldata.Selector

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "lookup",
		Message: fmt.Sprintf("Looking up %s", selector),
		Spinner: true,
	})
	candidates, err := uc.directory.Lookup(ctx, selector)
	if err != nil {
		return fmt.Errorf("failed to look up selector %s: %w", selector, err)
	}
	if len(candidates) == 0 {
		return domain.NoSignatureErr{Selector: selector}
	}
	result.Candidates = candidates

	prior, err := uc.store.Get(ctx, selector)
	switch {
	case err == nil:
		result.Prior = prior
	case errors.Is(err, domain.ErrNotFound):
	default:
		// History only breaks ties; decoding goes on without it.
		uc.log.Warn("Failed to read selection history", "selector", selector, "err", err)
	}

	texts := lo.Map(candidates, func(c domain.SignatureCandidate, _ int) string {
		return c.TextSignature
	})
	priorText := ""
	if result.Prior != nil {
		priorText = result.Prior.Signature
	}
	result.Resolution = uc.resolver.Resolve(texts, result.Calldata.Prefixed(), priorText)
	uc.log.Debug("Resolved signature",
		"selector", selector,
		"signature", result.Resolution.Signature,
		"source", result.Resolution.Source,
		"candidates", len(candidates))

	if params.Pick && len(candidates) > 1 {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "pick"})
		scores := uc.scores(texts, result)
		index, err := uc.selector.SelectCandidate(ctx, candidates, scores, fmt.Sprintf("Select signature for %s", selector))
		if err != nil {
			return err
		}
		result.Resolution = domain.Resolution{
			Signature: texts[index],
			Index:     index,
			Source:    domain.SourcePicked,
			Scores:    scores,
		}
	}

	return nil
}

// scores returns the heuristic score of every candidate, reusing the ones the
// resolver already computed.
func (uc *DecodeCalldata) scores(texts []string, result *DecodeResult) []float64 {
	if len(result.Resolution.Scores) == len(texts) {
		return result.Resolution.Scores
	}
	return lo.Map(texts, func(text string, _ int) float64 {
		return uc.resolver.Score(text, result.Calldata.Prefixed())
	})
}

// decode tries the resolved candidate first and then the others by
// descending score.
func (uc *DecodeCalldata) decode(result *DecodeResult, tail []byte) error {
	texts := lo.Map(result.Candidates, func(c domain.SignatureCandidate, _ int) string {
		return c.TextSignature
	})

	order := []int{result.Resolution.Index}
	if result.Resolution.Source != domain.SourceForced && len(texts) > 1 {
		scores := uc.scores(texts, result)
		rest := lo.Without(lo.Range(len(texts)), result.Resolution.Index)
		sort.SliceStable(rest, func(i, j int) bool {
			return scores[rest[i]] > scores[rest[j]]
		})
		order = append(order, rest...)
	}

	var lastErr error
	for _, i := range order {
		params, err := uc.decoder.Decode(texts[i], tail)
		if err != nil {
			uc.log.Debug("Candidate failed to decode", "signature", texts[i], "err", err)
			lastErr = err
			continue
		}

		if i != result.Resolution.Index {
			uc.log.Info("Falling back to next candidate", "from", result.Resolution.Signature, "to", texts[i])
			result.Resolution.Signature = texts[i]
			result.Resolution.Index = i
			result.Resolution.Fallback = true
		}
		result.Parameters = params
		return nil
	}

	return domain.DecodeErr{
		Selector: result.Calldata.Selector,
		Tried:    lo.Map(order, func(i int, _ int) string { return texts[i] }),
		Last:     lastErr,
	}
}

func (uc *DecodeCalldata) remember(ctx context.Context, result *DecodeResult) error {
	record := &domain.SelectionRecord{
		Selector:  result.Calldata.Selector,
		Signature: result.Resolution.Signature,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uc.store.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to remember selection: %w", err)
	}
	result.Remembered = true
	return nil
}
