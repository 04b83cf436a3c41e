package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DaySheet is the cash book of one scope for one day.
type DaySheet struct {
	Scope       ledger.Scope                        `json:"scope"`
	Date        time.Time                           `json:"date"`
	Opening     decimal.Decimal                     `json:"opening"`
	Totals      map[ledger.Category]decimal.Decimal `json:"totals"`
	TotalCredit decimal.Decimal                     `json:"total_credit"`
	TotalDebit  decimal.Decimal                     `json:"total_debit"`
	DayBalance  decimal.Decimal                     `json:"day_balance"`
	Closing     decimal.Decimal                     `json:"closing"`
}

// OpeningBalanceService reads opening balances and day sheets for a branch or a whole company.
type OpeningBalanceService struct {
	branches  ledger.BranchRepository
	closings  ledger.ClosingBalanceRepository
	snapshots ledger.SnapshotReader
}

// NewOpeningBalanceService creates a new OpeningBalanceService
func NewOpeningBalanceService(
	branches ledger.BranchRepository,
	closings ledger.ClosingBalanceRepository,
	snapshots ledger.SnapshotReader,
) *OpeningBalanceService {
	return &OpeningBalanceService{
		branches:  branches,
		closings:  closings,
		snapshots: snapshots,
	}
}

// GetOpeningBalance is the stored closing of the scope on the day before date.
// Branches without a stored closing contribute zero.
func (s *OpeningBalanceService) GetOpeningBalance(ctx context.Context, companyID int64, scope ledger.Scope, date time.Time) (decimal.Decimal, error) {
	if err := s.authorize(ctx, companyID, scope); err != nil {
		return decimal.Zero, err
	}
	return s.opening(ctx, scope, shared.CivilDate(date))
}

// GetDaySheet combines the opening balance with the day's category totals.
func (s *OpeningBalanceService) GetDaySheet(ctx context.Context, companyID int64, scope ledger.Scope, date time.Time) (*DaySheet, error) {
	if err := s.authorize(ctx, companyID, scope); err != nil {
		return nil, err
	}
	date = shared.CivilDate(date)

	opening, err := s.opening(ctx, scope, date)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.snapshots.Aggregate(ctx, scope, date)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", scope, err)
	}

	return &DaySheet{
		Scope:       scope,
		Date:        date,
		Opening:     opening,
		Totals:      snapshot.Totals,
		TotalCredit: snapshot.TotalCredit(),
		TotalDebit:  snapshot.TotalDebit(),
		DayBalance:  snapshot.DayBalance(),
		Closing:     ledger.ClosingAmount(snapshot, opening),
	}, nil
}

func (s *OpeningBalanceService) opening(ctx context.Context, scope ledger.Scope, date time.Time) (decimal.Decimal, error) {
	amount, err := s.closings.SumClosingAmount(ctx, scope, shared.AddDays(date, -1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read opening balance of %s: %w", scope, err)
	}
	return amount, nil
}

// authorize confines a caller to scopes inside their own company.
func (s *OpeningBalanceService) authorize(ctx context.Context, companyID int64, scope ledger.Scope) error {
	if err := scope.Validate(); err != nil {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, err.Error())
	}
	switch scope.Kind {
	case ledger.ScopeCompany:
		if scope.ID != companyID {
			return shared.ErrNotFound
		}
	case ledger.ScopeBranch:
		owner, err := s.branches.CompanyOf(ctx, scope.ID)
		if err != nil {
			return err
		}
		if owner != companyID {
			return shared.ErrNotFound
		}
	}
	return nil
}
