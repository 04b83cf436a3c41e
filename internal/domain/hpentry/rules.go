package hpentry

import (
	"fmt"
	"time"

	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckPDRCeiling rejects a party debit above the branch lock amount.
// A nil ceiling means the branch has no lock configured.
func CheckPDRCeiling(partyDebit decimal.Decimal, ceiling *decimal.Decimal) error {
	if ceiling == nil || partyDebit.LessThanOrEqual(*ceiling) {
		return nil
	}
	return shared.NewDomainError(shared.CodePDRLimitExceeded,
		fmt.Sprintf("Party debit amount %s exceeds the branch PDR lock amount %s", partyDebit.StringFixed(2), ceiling.StringFixed(2)))
}

// CheckFundingRestriction rejects a funded total above the vehicle ceiling.
// A nil ceiling means the vehicle and model year are unrestricted.
func CheckFundingRestriction(funded decimal.Decimal, ceiling *decimal.Decimal) error {
	if ceiling == nil || funded.LessThanOrEqual(*ceiling) {
		return nil
	}
	return shared.NewDomainError(shared.CodeFundingLimitExceeded,
		fmt.Sprintf("Finance value with doc and RTO charges (%s) exceeds the funding limit %s for this vehicle model", funded.StringFixed(2), ceiling.StringFixed(2)))
}

// AdjustmentWindow is the inclusive range an adjust date may fall in.
type AdjustmentWindow struct {
	From time.Time
	To   time.Time
}

// NewAdjustmentWindow centres a window of days either side of anchor.
func NewAdjustmentWindow(anchor time.Time, days int) AdjustmentWindow {
	if days < 0 {
		days = 0
	}
	return AdjustmentWindow{
		From: shared.AddDays(anchor, -days),
		To:   shared.AddDays(anchor, days),
	}
}

// Contains reports whether date falls inside the window, bounds included.
func (w AdjustmentWindow) Contains(date time.Time) bool {
	d := shared.CivilDate(date)
	return !d.Before(w.From) && !d.After(w.To)
}

// Check rejects an adjust date outside the window.
func (w AdjustmentWindow) Check(date time.Time) error {
	if w.Contains(date) {
		return nil
	}
	return shared.NewDomainError(shared.CodeAdjustDateOutOfRange,
		fmt.Sprintf("Adjust date %s must be between %s and %s",
			date.Format(shared.DateLayout), w.From.Format(shared.DateLayout), w.To.Format(shared.DateLayout)))
}

// CheckCashSufficiency rejects an entry whose payout exceeds the branch cash.
func CheckCashSufficiency(available, finance, partyDebit decimal.Decimal) error {
	required := finance.Add(partyDebit)
	if available.GreaterThanOrEqual(required) {
		return nil
	}
	return shared.NewDomainError(shared.CodeInsufficientBalance,
		fmt.Sprintf("Insufficient branch balance: available %s, required %s", available.StringFixed(2), required.StringFixed(2)))
}

// CheckPartyDebitCoverage rejects an update that would leave party debits
// below what has already been collected on the entry.
func CheckPartyDebitCoverage(existing, newAmount, receipts decimal.Decimal) error {
	total := existing.Add(newAmount)
	if total.GreaterThanOrEqual(receipts) {
		return nil
	}
	return shared.NewDomainError(shared.CodePartyDebitBelowReceipt,
		fmt.Sprintf("Party debit total %s cannot be less than receipts already paid %s", total.StringFixed(2), receipts.StringFixed(2)))
}

// CheckFinanceCoverage rejects an update that shrinks the financed total
// below receipts plus HP returns.
func CheckFinanceCoverage(financed, receipts, returns decimal.Decimal) error {
	collected := receipts.Add(returns)
	if financed.GreaterThanOrEqual(collected) {
		return nil
	}
	return shared.NewDomainError(shared.CodeFinanceBelowCollected,
		fmt.Sprintf("Financed total %s cannot be less than receipts and returns already recorded %s", financed.StringFixed(2), collected.StringFixed(2)))
}

// CheckDeleteCoverage rejects deleting an entry whose receipts exceed its party debits.
func CheckDeleteCoverage(partyDebits, receipts decimal.Decimal) error {
	if partyDebits.GreaterThanOrEqual(receipts) {
		return nil
	}
	return shared.NewDomainError(shared.CodeDataInUse,
		fmt.Sprintf("HP entry has receipts of %s against party debits of %s, cannot delete", receipts.StringFixed(2), partyDebits.StringFixed(2)))
}
