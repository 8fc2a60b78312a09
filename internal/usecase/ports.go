package usecase

import (
	"context"

	"github.com/trebuchet-org/calldata-lens/internal/domain"
)

// SignatureDirectory looks up candidate text signatures for 4-byte selectors.
// Selectors are lowercase 0x-prefixed hex. An unknown selector yields an empty
// list, not an error.
type SignatureDirectory interface {
	Lookup(ctx context.Context, selector string) ([]domain.SignatureCandidate, error)
	LookupMany(ctx context.Context, selectors []string) (map[string][]domain.SignatureCandidate, error)
}

// CandidateCache is the cache in front of the SignatureDirectory.
type CandidateCache interface {
	Purge() error
}

// SelectionStore persists the signature a user confirmed for a selector.
// Get returns domain.ErrNotFound for selectors without a record.
type SelectionStore interface {
	Get(ctx context.Context, selector string) (*domain.SelectionRecord, error)
	Save(ctx context.Context, record *domain.SelectionRecord) error
	Delete(ctx context.Context, selector string) error
	List(ctx context.Context) ([]*domain.SelectionRecord, error)
}

// ArgumentDecoder decodes the calldata tail against a text signature.
type ArgumentDecoder interface {
	Decode(signature string, tail []byte) ([]domain.Parameter, error)
}

// CandidateSelector lets the user pick one of several candidates.
type CandidateSelector interface {
	SelectCandidate(ctx context.Context, candidates []domain.SignatureCandidate, scores []float64, prompt string) (int, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
