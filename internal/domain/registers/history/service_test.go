package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/registers/history"
	"storeledger/internal/testutil/memory"
)

func TestService_Append(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewHistory()
	svc := history.NewService(repo)
	branchID, productID := id.New(), id.New()

	entry := history.NewEntry(branchID, nil, productID, history.ChangeAdded, decimal.NewFromInt(50))
	require.NoError(t, svc.Append(ctx, entry))
	assert.False(t, id.IsNil(entry.ID))
	assert.False(t, entry.ChangedAt.IsZero())

	stored, err := svc.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, history.ChangeAdded, stored.ChangeType)

	t.Run("stored entries are never rewritten", func(t *testing.T) {
		err := svc.Append(ctx, entry)
		assert.True(t, apperror.IsImmutableRecord(err))

		err = repo.Insert(ctx, entry)
		assert.True(t, apperror.IsImmutableRecord(err))
		assert.Len(t, repo.All(), 1)
	})

	t.Run("rejects bad entries", func(t *testing.T) {
		bad := []*history.Entry{
			history.NewEntry(branchID, nil, productID, "Yo'qoldi", decimal.NewFromInt(1)),
			history.NewEntry(branchID, nil, productID, history.ChangeSold, decimal.NewFromInt(-1)),
			history.NewEntry(id.Nil(), nil, productID, history.ChangeSold, decimal.NewFromInt(1)),
		}
		for _, e := range bad {
			err := svc.Append(ctx, e)
			assert.True(t, apperror.IsValidation(err), "%v", err)
			assert.True(t, id.IsNil(e.ID))
		}
		assert.Len(t, repo.All(), 1)
	})
}

func TestService_ListByProduct(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewHistory()
	svc := history.NewService(repo)
	branchID, productID, otherID := id.New(), id.New(), id.New()
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	for i, pid := range []id.ID{productID, otherID, productID, productID} {
		e := history.NewEntry(branchID, nil, pid, history.ChangeSold, decimal.NewFromInt(int64(i+1)))
		e.ChangedAt = start.Add(time.Duration(i) * time.Hour)
		require.NoError(t, svc.Append(ctx, e))
	}

	all, err := svc.ListByProduct(ctx, productID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, decimal.NewFromInt(4).Equal(all[0].QuantityChanged), "newest first")

	from, to := start.Add(time.Hour), start.Add(2*time.Hour)
	window, err := svc.ListByProduct(ctx, productID, &from, &to)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(window[0].QuantityChanged))

	branch, err := svc.ListByBranch(ctx, branchID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, branch, 4)

	_, err = svc.ListByProduct(ctx, productID, &to, &from)
	assert.True(t, apperror.IsValidation(err))
}
