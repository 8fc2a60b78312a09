package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trebuchet-org/calldata-lens/internal/adapters/storage"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

const keyPrefix = "selection:"

// Store keeps selection records in the local database under
// selection:<0xselector>.
type Store struct {
	db *storage.BadgerStorage
}

var _ usecase.SelectionStore = (*Store)(nil)

// NewStore creates a new selection store
func NewStore(db *storage.BadgerStorage) *Store {
	return &Store{db: db}
}

func key(selector string) []byte {
	return []byte(keyPrefix + selector)
}

func (s *Store) Get(ctx context.Context, selector string) (*domain.SelectionRecord, error) {
	data, err := s.db.Get(key(selector))
	if err != nil {
		return nil, err
	}

	var record domain.SelectionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt selection record for %s: %w", selector, err)
	}
	return &record, nil
}

func (s *Store) Save(ctx context.Context, record *domain.SelectionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal selection record: %w", err)
	}
	return s.db.Set(key(record.Selector), data)
}

func (s *Store) Delete(ctx context.Context, selector string) error {
	return s.db.Delete(key(selector))
}

// List returns every record in key order. Unreadable records are skipped.
func (s *Store) List(ctx context.Context) ([]*domain.SelectionRecord, error) {
	items, err := s.db.GetByPrefix([]byte(keyPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to scan selections: %w", err)
	}

	records := make([]*domain.SelectionRecord, 0, len(items))
	for _, item := range items {
		var record domain.SelectionRecord
		if err := json.Unmarshal(item.Value, &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records, nil
}
