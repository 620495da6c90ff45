package customer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/testutil/memory"
)

func newService() (*customer.Service, *memory.Customers) {
	repo := memory.NewCustomers()
	return customer.NewService(repo, memory.NewTxManager(repo), nil), repo
}

func TestService_FindOrCreate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()
	branchID := id.New()

	created, err := svc.FindOrCreate(ctx, branchID, customer.Contact{Name: "  Aziz ", PhoneNumber: "90 123 45 67"})
	require.NoError(t, err)
	assert.Equal(t, "Aziz", created.Name)
	assert.Equal(t, "+998901234567", created.PhoneNumber)
	assert.True(t, created.Debt.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	found, err := svc.FindOrCreate(ctx, branchID, customer.Contact{Name: "Aziz", PhoneNumber: "+998901234567"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, 1, repo.Count())

	t.Run("another branch gets its own customer", func(t *testing.T) {
		other, err := svc.FindOrCreate(ctx, id.New(), customer.Contact{Name: "Aziz", PhoneNumber: "+998901234567"})
		require.NoError(t, err)
		assert.NotEqual(t, created.ID, other.ID)
	})

	t.Run("another name is another customer", func(t *testing.T) {
		other, err := svc.FindOrCreate(ctx, branchID, customer.Contact{Name: "Aziza", PhoneNumber: "+998901234567"})
		require.NoError(t, err)
		assert.NotEqual(t, created.ID, other.ID)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.FindOrCreate(ctx, id.Nil(), customer.Contact{Name: "Aziz", PhoneNumber: "+998901234567"})
		assert.True(t, apperror.IsValidation(err))

		_, err = svc.FindOrCreate(ctx, branchID, customer.Contact{Name: " ", PhoneNumber: "+998901234567"})
		assert.True(t, apperror.IsValidation(err))

		_, err = svc.FindOrCreate(ctx, branchID, customer.Contact{Name: "Aziz", PhoneNumber: "not a phone"})
		assert.Error(t, err)
	})
}

func TestService_Debt(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()

	c, err := svc.FindOrCreate(ctx, id.New(), customer.Contact{Name: "Bobur", PhoneNumber: "+998905550011"})
	require.NoError(t, err)

	require.NoError(t, svc.AdjustDebt(ctx, c.ID, decimal.NewFromInt(300)))
	require.NoError(t, svc.AdjustDebt(ctx, c.ID, decimal.NewFromInt(-100)))
	assert.True(t, decimal.NewFromInt(200).Equal(repo.Debt(c.ID)))

	require.NoError(t, svc.ReduceDebt(ctx, c.ID, decimal.NewFromInt(500)))
	assert.True(t, repo.Debt(c.ID).IsZero())

	err = svc.AdjustDebt(ctx, id.New(), decimal.NewFromInt(1))
	assert.True(t, apperror.IsNotFound(err))

	// zero moves never reach the store
	assert.NoError(t, svc.AdjustDebt(ctx, id.New(), decimal.Zero))
}

func TestService_UpdateKeepsDebt(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService()

	c, err := svc.FindOrCreate(ctx, id.New(), customer.Contact{Name: "Dilnoza", PhoneNumber: "+998907770000"})
	require.NoError(t, err)
	require.NoError(t, svc.AdjustDebt(ctx, c.ID, decimal.NewFromInt(75)))

	edit := *c
	edit.Name = "Dilnoza Karimova"
	edit.Debt = decimal.Zero
	require.NoError(t, svc.Update(ctx, &edit))

	stored, err := svc.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dilnoza Karimova", stored.Name)
	assert.True(t, decimal.NewFromInt(75).Equal(stored.Debt))
	assert.True(t, decimal.NewFromInt(75).Equal(repo.Debt(c.ID)))
}
