package hpentry

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() *HpEntry {
	return &HpEntry{
		CompanyID:        1,
		BranchID:         2,
		CustomerName:     "R. Kumar",
		VehicleID:        7,
		VehicleModelYear: 2023,
		FinanceValue:     dec("40000"),
		RTOCharge:        dec("1500"),
		HPCharge:         dec("10000"),
		DocCharges:       dec("500"),
		PartyDebitAmount: dec("2000"),
		AdjustDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Date:             time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestHpEntry_Totals(t *testing.T) {
	e := validEntry()
	assert.True(t, dec("42000").Equal(e.FundedTotal()))
	assert.True(t, dec("52000").Equal(e.FinancedTotal()))
	assert.True(t, e.HasPartyDebit())

	e.PartyDebitAmount = decimal.Zero
	assert.False(t, e.HasPartyDebit())
}

func TestHpEntry_ApplyDerived(t *testing.T) {
	e := validEntry()
	e.ApplyDerived()

	assert.True(t, dec("42000").Equal(e.HPFinanceValue))
	assert.True(t, dec("80").Equal(e.HPFinPer), e.HPFinPer.String())
	assert.True(t, dec("20").Equal(e.HPChargePer), e.HPChargePer.String())
}

func TestShares(t *testing.T) {
	t.Run("rounds to four places", func(t *testing.T) {
		fin, charge := Shares(dec("2"), dec("1"))
		assert.Equal(t, "66.6667", fin.String())
		assert.Equal(t, "33.3333", charge.String())
	})

	t.Run("zero total gives zero shares", func(t *testing.T) {
		fin, charge := Shares(decimal.Zero, decimal.Zero)
		assert.True(t, fin.IsZero())
		assert.True(t, charge.IsZero())
	})
}

func TestHpEntry_Validate(t *testing.T) {
	require.NoError(t, validEntry().Validate())

	tests := []struct {
		name   string
		mutate func(e *HpEntry)
	}{
		{"missing company", func(e *HpEntry) { e.CompanyID = 0 }},
		{"missing branch", func(e *HpEntry) { e.BranchID = 0 }},
		{"missing customer", func(e *HpEntry) { e.CustomerName = "" }},
		{"missing date", func(e *HpEntry) { e.Date = time.Time{} }},
		{"missing adjust date", func(e *HpEntry) { e.AdjustDate = time.Time{} }},
		{"negative finance", func(e *HpEntry) { e.FinanceValue = dec("-1") }},
		{"negative party debit", func(e *HpEntry) { e.PartyDebitAmount = dec("-0.01") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestNextVoucherNumber(t *testing.T) {
	assert.Equal(t, 1, NextVoucherNumber(0))
	assert.Equal(t, 42, NextVoucherNumber(41))
	assert.Equal(t, 2000, NextVoucherNumber(1999))
	assert.Equal(t, 1, NextVoucherNumber(2000))
	assert.Equal(t, 1, NextVoucherNumber(2500))
}

func TestNewPartyDebitFromEntry(t *testing.T) {
	e := validEntry()
	e.ID = 55
	e.AutoConsultantID = 9

	pd := NewPartyDebitFromEntry(e, 12)
	require.NotNil(t, pd.HpEntryID)
	assert.Equal(t, int64(55), *pd.HpEntryID)
	assert.True(t, pd.FromHpEntry)
	assert.Equal(t, 12, pd.VoucherNumber)
	assert.Equal(t, int64(9), pd.AutoConsultantID)
	assert.True(t, dec("2000").Equal(pd.Amount))
	assert.Equal(t, e.Date, pd.Date)
}
