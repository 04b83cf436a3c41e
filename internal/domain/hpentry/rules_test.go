package hpentry

import (
	"errors"
	"testing"
	"time"

	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T", err)
	assert.Equal(t, code, de.Code)
	assert.NotEmpty(t, de.Message)
}

func TestCheckPDRCeiling(t *testing.T) {
	lock := ptr(dec("5000"))

	t.Run("amount equal to the lock passes", func(t *testing.T) {
		assert.NoError(t, CheckPDRCeiling(dec("5000"), lock))
	})

	t.Run("one paisa over the lock is rejected", func(t *testing.T) {
		requireCode(t, CheckPDRCeiling(dec("5000.01"), lock), shared.CodePDRLimitExceeded)
	})

	t.Run("branch without a lock passes", func(t *testing.T) {
		assert.NoError(t, CheckPDRCeiling(dec("999999"), nil))
	})
}

func TestCheckFundingRestriction(t *testing.T) {
	t.Run("no ceiling always passes", func(t *testing.T) {
		assert.NoError(t, CheckFundingRestriction(dec("10000000"), nil))
	})

	t.Run("equal to the ceiling passes", func(t *testing.T) {
		assert.NoError(t, CheckFundingRestriction(dec("60000"), ptr(dec("60000"))))
	})

	t.Run("above the ceiling is rejected", func(t *testing.T) {
		requireCode(t, CheckFundingRestriction(dec("60000.50"), ptr(dec("60000"))), shared.CodeFundingLimitExceeded)
	})
}

func TestAdjustmentWindow(t *testing.T) {
	anchor := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	w := NewAdjustmentWindow(anchor, 10)

	tests := []struct {
		date time.Time
		ok   bool
	}{
		{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 25, 23, 59, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 1, 26, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.date.Format(time.RFC3339), func(t *testing.T) {
			assert.Equal(t, tt.ok, w.Contains(tt.date))
			if tt.ok {
				assert.NoError(t, w.Check(tt.date))
			} else {
				requireCode(t, w.Check(tt.date), shared.CodeAdjustDateOutOfRange)
			}
		})
	}

	t.Run("zero days allows only the anchor", func(t *testing.T) {
		w := NewAdjustmentWindow(anchor, 0)
		assert.True(t, w.Contains(anchor))
		assert.False(t, w.Contains(anchor.AddDate(0, 0, 1)))
	})

	t.Run("negative days are treated as zero", func(t *testing.T) {
		w := NewAdjustmentWindow(anchor, -3)
		assert.Equal(t, anchor, w.From)
		assert.Equal(t, anchor, w.To)
	})
}

func TestCheckCashSufficiency(t *testing.T) {
	assert.NoError(t, CheckCashSufficiency(dec("10000"), dec("9000"), dec("1000")))
	requireCode(t, CheckCashSufficiency(dec("9999.99"), dec("9000"), dec("1000")), shared.CodeInsufficientBalance)
}

func TestCheckPartyDebitCoverage(t *testing.T) {
	t.Run("total below receipts is rejected", func(t *testing.T) {
		requireCode(t, CheckPartyDebitCoverage(dec("1000"), dec("150"), dec("1200")), shared.CodePartyDebitBelowReceipt)
	})

	t.Run("total above receipts passes", func(t *testing.T) {
		assert.NoError(t, CheckPartyDebitCoverage(dec("1000"), dec("300"), dec("1200")))
	})

	t.Run("total equal to receipts passes", func(t *testing.T) {
		assert.NoError(t, CheckPartyDebitCoverage(dec("1000"), dec("200"), dec("1200")))
	})
}

func TestCheckFinanceCoverage(t *testing.T) {
	assert.NoError(t, CheckFinanceCoverage(dec("5000"), dec("3000"), dec("2000")))
	requireCode(t, CheckFinanceCoverage(dec("4999.99"), dec("3000"), dec("2000")), shared.CodeFinanceBelowCollected)
}

func TestCheckDeleteCoverage(t *testing.T) {
	err := CheckDeleteCoverage(dec("500"), dec("600"))
	requireCode(t, err, shared.CodeDataInUse)
	assert.ErrorIs(t, err, shared.ErrDataInUse)

	assert.NoError(t, CheckDeleteCoverage(dec("700"), dec("600")))
}
