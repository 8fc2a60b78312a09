package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// MockDirectory is a mock implementation of SignatureDirectory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Lookup(ctx context.Context, selector string) ([]domain.SignatureCandidate, error) {
	args := m.Called(ctx, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SignatureCandidate), args.Error(1)
}

func (m *MockDirectory) LookupMany(ctx context.Context, selectors []string) (map[string][]domain.SignatureCandidate, error) {
	args := m.Called(ctx, selectors)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.SignatureCandidate), args.Error(1)
}

// MockSelectionStore is a mock implementation of SelectionStore
type MockSelectionStore struct {
	mock.Mock
}

func (m *MockSelectionStore) Get(ctx context.Context, selector string) (*domain.SelectionRecord, error) {
	args := m.Called(ctx, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SelectionRecord), args.Error(1)
}

func (m *MockSelectionStore) Save(ctx context.Context, record *domain.SelectionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSelectionStore) Delete(ctx context.Context, selector string) error {
	args := m.Called(ctx, selector)
	return args.Error(0)
}

func (m *MockSelectionStore) List(ctx context.Context) ([]*domain.SelectionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SelectionRecord), args.Error(1)
}

// MockDecoder is a mock implementation of ArgumentDecoder
type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(signature string, tail []byte) ([]domain.Parameter, error) {
	args := m.Called(signature, tail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Parameter), args.Error(1)
}

// MockCandidateSelector is a mock implementation of CandidateSelector
type MockCandidateSelector struct {
	mock.Mock
}

func (m *MockCandidateSelector) SelectCandidate(ctx context.Context, candidates []domain.SignatureCandidate, scores []float64, prompt string) (int, error) {
	args := m.Called(ctx, candidates, scores, prompt)
	return args.Int(0), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

func (m *MockProgressSink) stages() []string {
	stages := make([]string, len(m.events))
	for i, e := range m.events {
		stages[i] = e.Stage
	}
	return stages
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
