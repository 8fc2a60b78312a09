package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

func TestManageHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("list sorts by selector", func(t *testing.T) {
		store := new(MockSelectionStore)
		store.On("List", ctx).Return([]*domain.SelectionRecord{
			{Selector: "0xa9059cbb", Signature: "transfer(address,uint256)"},
			{Selector: "0x095ea7b3", Signature: "approve(address,uint256)"},
		}, nil)

		records, err := usecase.NewManageHistory(store, discardLogger()).List(ctx)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "0x095ea7b3", records[0].Selector)
		assert.Equal(t, "0xa9059cbb", records[1].Selector)
	})

	t.Run("set normalizes and verifies", func(t *testing.T) {
		store := new(MockSelectionStore)
		store.On("Save", ctx, mock.MatchedBy(func(r *domain.SelectionRecord) bool {
			return r.Selector == "0xa9059cbb" && r.Signature == "transfer(address,uint256)" && !r.UpdatedAt.IsZero()
		})).Return(nil)

		result, err := usecase.NewManageHistory(store, discardLogger()).Set(ctx, "A9059CBB", "transfer(address,uint256)")

		require.NoError(t, err)
		assert.True(t, result.Verified)
		store.AssertExpectations(t)
	})

	t.Run("set keeps unverified signatures", func(t *testing.T) {
		store := new(MockSelectionStore)
		store.On("Save", ctx, mock.Anything).Return(nil)

		result, err := usecase.NewManageHistory(store, discardLogger()).Set(ctx, "0xa9059cbb", "approve(address,uint256)")

		require.NoError(t, err)
		assert.False(t, result.Verified)
	})

	t.Run("set rejects bad input", func(t *testing.T) {
		uc := usecase.NewManageHistory(new(MockSelectionStore), discardLogger())

		_, err := uc.Set(ctx, "0x12", "transfer(address,uint256)")
		assert.ErrorIs(t, err, domain.ErrInvalidSelector)

		_, err = uc.Set(ctx, "0xa9059cbb", "")
		assert.Error(t, err)
	})

	t.Run("forget reports missing selectors", func(t *testing.T) {
		store := new(MockSelectionStore)
		store.On("Get", ctx, "0xa9059cbb").Return(&domain.SelectionRecord{Selector: "0xa9059cbb"}, nil)
		store.On("Get", ctx, "0x095ea7b3").Return(nil, domain.ErrNotFound)
		store.On("Delete", ctx, "0xa9059cbb").Return(nil)

		result, err := usecase.NewManageHistory(store, discardLogger()).Forget(ctx, []string{"0xa9059cbb", "0x095ea7b3"})

		require.NoError(t, err)
		assert.Equal(t, []string{"0xa9059cbb"}, result.Removed)
		assert.Equal(t, []string{"0x095ea7b3"}, result.Missing)
		store.AssertNotCalled(t, "Delete", ctx, "0x095ea7b3")
	})

	t.Run("forget surfaces store errors", func(t *testing.T) {
		store := new(MockSelectionStore)
		store.On("Get", ctx, "0xa9059cbb").Return(nil, errors.New("locked"))

		_, err := usecase.NewManageHistory(store, discardLogger()).Forget(ctx, []string{"0xa9059cbb"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "locked")
	})
}
