package persistence

import (
	"context"
	"testing"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormClosingBalanceRepository(t *testing.T) {
	db := setupTestDB(t)
	seedCompany(t, db, 1, 10, 11, 12)
	seedCompany(t, db, 2, 20)
	repo := NewGormClosingBalanceRepository(db)
	ctx := context.Background()

	t.Run("no history", func(t *testing.T) {
		latest, err := repo.LatestDate(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, latest)

		_, found, err := repo.ClosingAmount(ctx, 10, day(2024, 1, 1))
		require.NoError(t, err)
		assert.False(t, found)
	})

	insert := func(companyID, branchID int64, date string, amount string) {
		t.Helper()
		d, err := shared.ParseDate(date)
		require.NoError(t, err)
		cb, err := ledger.NewClosingBalance(companyID, branchID, d, amt(amount))
		require.NoError(t, err)
		require.NoError(t, repo.Insert(ctx, cb))
		assert.NotZero(t, cb.ID)
	}

	insert(1, 10, "2024-01-14", "100.5")
	insert(1, 11, "2024-01-14", "200")
	insert(1, 12, "2024-01-14", "300")
	insert(1, 10, "2024-01-15", "150.25")
	insert(1, 11, "2024-01-15", "250")
	insert(2, 20, "2024-02-01", "999")

	t.Run("latest date is per company", func(t *testing.T) {
		latest, err := repo.LatestDate(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, day(2024, 1, 15), *latest)
	})

	t.Run("counts and lists closed branches", func(t *testing.T) {
		count, err := repo.CountForDate(ctx, 1, day(2024, 1, 15))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		ids, err := repo.ClosedBranchIDs(ctx, 1, day(2024, 1, 15))
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 11}, ids)
	})

	t.Run("duplicate branch and date is a conflict", func(t *testing.T) {
		cb, err := ledger.NewClosingBalance(1, 10, day(2024, 1, 15), amt("1"))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Insert(ctx, cb), ledger.ErrClosingBalanceExists)

		count, err := repo.CountForDate(ctx, 1, day(2024, 1, 15))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("closing amount of a branch", func(t *testing.T) {
		v, found, err := repo.ClosingAmount(ctx, 10, day(2024, 1, 14))
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, amt("100.5").Equal(v))
	})

	t.Run("sum by scope", func(t *testing.T) {
		total, err := repo.SumClosingAmount(ctx, ledger.CompanyScope(1), day(2024, 1, 14))
		require.NoError(t, err)
		assert.True(t, amt("600.5").Equal(total), total.String())

		total, err = repo.SumClosingAmount(ctx, ledger.BranchScope(11), day(2024, 1, 14))
		require.NoError(t, err)
		assert.True(t, amt("200").Equal(total))

		total, err = repo.SumClosingAmount(ctx, ledger.CompanyScope(1), day(2023, 1, 1))
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("history of a branch", func(t *testing.T) {
		rows, err := repo.ListForBranch(ctx, 10, day(2024, 1, 1), day(2024, 1, 31))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, day(2024, 1, 14), rows[0].Date)
		assert.Equal(t, day(2024, 1, 15), rows[1].Date)
		assert.True(t, amt("150.25").Equal(rows[1].ClosingAmount))

		rows, err = repo.ListForBranch(ctx, 10, day(2024, 1, 15), day(2024, 1, 15))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestGormBranchRepository(t *testing.T) {
	db := setupTestDB(t)
	seedCompany(t, db, 1, 12, 10, 11)
	seedCompany(t, db, 2, 20)
	repo := NewGormBranchRepository(db)
	ctx := context.Background()

	count, err := repo.CountForCompany(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	ids, err := repo.IDsForCompany(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12}, ids)

	companyID, err := repo.CompanyOf(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), companyID)

	_, err = repo.CompanyOf(ctx, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	companies, err := repo.CompanyIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, companies)
}
