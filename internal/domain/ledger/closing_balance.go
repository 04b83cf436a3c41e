package ledger

import (
	"time"

	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SeedClosingDate is the cursor for a company with no closing history.
var SeedClosingDate = time.Date(2016, 5, 18, 0, 0, 0, 0, time.UTC)

// ClosingBalance is the persisted end-of-day cash position of one branch.
// Rows are insert-only.
type ClosingBalance struct {
	ID            int64           `json:"id"`
	CompanyID     int64           `json:"company_id"`
	BranchID      int64           `json:"branch_id"`
	Date          time.Time       `json:"date"`
	ClosingAmount decimal.Decimal `json:"closing_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewClosingBalance creates a closing balance row for a branch and date.
func NewClosingBalance(companyID, branchID int64, date time.Time, amount decimal.Decimal) (*ClosingBalance, error) {
	if companyID <= 0 {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID is required")
	}
	if branchID <= 0 {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID is required")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Closing date is required")
	}
	return &ClosingBalance{
		CompanyID:     companyID,
		BranchID:      branchID,
		Date:          shared.CivilDate(date),
		ClosingAmount: amount,
	}, nil
}

// NextClosingDate decides the company's closing cursor.
// lastDate is the most recent date in the closing ledger (nil when there is
// none) and closedCount the number of branch rows on that date. Once every
// branch is closed the cursor moves to the following day.
func NextClosingDate(branchCount, closedCount int64, lastDate *time.Time) time.Time {
	date := SeedClosingDate
	if lastDate != nil {
		date = shared.CivilDate(*lastDate)
	}
	if branchCount <= closedCount {
		return shared.AddDays(date, 1)
	}
	return date
}

// PendingBranches returns the branches that are not in closed, preserving order.
func PendingBranches(all []int64, closed []int64) []int64 {
	done := make(map[int64]struct{}, len(closed))
	for _, id := range closed {
		done[id] = struct{}{}
	}
	pending := make([]int64, 0, len(all))
	for _, id := range all {
		if _, ok := done[id]; !ok {
			pending = append(pending, id)
		}
	}
	return pending
}
