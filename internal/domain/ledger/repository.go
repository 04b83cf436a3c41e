package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrClosingBalanceExists is returned when a branch is already closed for a date.
var ErrClosingBalanceExists = errors.New("closing balance already recorded for branch and date")

// SnapshotReader computes ledger snapshots from the source tables.
type SnapshotReader interface {
	// Aggregate sums every ledger category for the scope on the given date
	Aggregate(ctx context.Context, scope Scope, date time.Time) (*Snapshot, error)
}

// ClosingBalanceRepository defines persistence for closing balance rows
type ClosingBalanceRepository interface {
	// LatestDate returns the most recent closed date for a company, nil if none
	LatestDate(ctx context.Context, companyID int64) (*time.Time, error)

	// CountForDate counts branch rows of a company on a date
	CountForDate(ctx context.Context, companyID int64, date time.Time) (int64, error)

	// ClosedBranchIDs lists branches of a company already closed on a date
	ClosedBranchIDs(ctx context.Context, companyID int64, date time.Time) ([]int64, error)

	// ClosingAmount returns the stored closing of a branch on a date
	ClosingAmount(ctx context.Context, branchID int64, date time.Time) (decimal.Decimal, bool, error)

	// SumClosingAmount sums stored closings for every branch in scope on a date
	SumClosingAmount(ctx context.Context, scope Scope, date time.Time) (decimal.Decimal, error)

	// Insert saves a new row; returns ErrClosingBalanceExists on a duplicate
	Insert(ctx context.Context, cb *ClosingBalance) error

	// ListForBranch lists closing rows of a branch between two dates inclusive
	ListForBranch(ctx context.Context, branchID int64, from, to time.Time) ([]ClosingBalance, error)
}

// BranchRepository exposes the branch lookups the ledger needs
type BranchRepository interface {
	// CountForCompany counts the branches of a company
	CountForCompany(ctx context.Context, companyID int64) (int64, error)

	// IDsForCompany lists branch ids of a company in id order
	IDsForCompany(ctx context.Context, companyID int64) ([]int64, error)

	// CompanyOf returns the owning company of a branch
	CompanyOf(ctx context.Context, branchID int64) (int64, error)

	// CompanyIDs lists every company id
	CompanyIDs(ctx context.Context) ([]int64, error)
}
