package persistence

import (
	"testing"
	"time"

	"github.com/hpfin/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func row(companyID, branchID int64, date time.Time) models.LedgerRow {
	return models.LedgerRow{CompanyID: companyID, BranchID: branchID, Date: date}
}

func amountRow(companyID, branchID int64, date time.Time, amount string) models.AmountRow {
	return models.AmountRow{LedgerRow: row(companyID, branchID, date), Amount: amt(amount)}
}

func typedRow(companyID, branchID int64, date time.Time, entryType, amount string) models.TypedAmountRow {
	return models.TypedAmountRow{AmountRow: amountRow(companyID, branchID, date, amount), EntryType: entryType}
}

func seedCompany(t *testing.T, db *gorm.DB, companyID int64, branchIDs ...int64) {
	t.Helper()
	require.NoError(t, db.Create(&models.CompanyModel{ID: companyID, Name: "Company"}).Error)
	for _, id := range branchIDs {
		require.NoError(t, db.Create(&models.BranchModel{ID: id, CompanyID: companyID, Name: "Branch"}).Error)
	}
}
