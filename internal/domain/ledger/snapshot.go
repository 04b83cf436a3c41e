package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ScopeKind selects which column the ledger is filtered on.
type ScopeKind string

const (
	ScopeBranch  ScopeKind = "branch"
	ScopeCompany ScopeKind = "company"
)

// IsValid checks if the scope kind is valid
func (k ScopeKind) IsValid() bool {
	return k == ScopeBranch || k == ScopeCompany
}

// Scope is the branch or company a ledger figure is computed for.
type Scope struct {
	Kind ScopeKind `json:"kind"`
	ID   int64     `json:"id"`
}

// BranchScope scopes a ledger computation to a single branch.
func BranchScope(branchID int64) Scope {
	return Scope{Kind: ScopeBranch, ID: branchID}
}

// CompanyScope scopes a ledger computation to every branch of a company.
func CompanyScope(companyID int64) Scope {
	return Scope{Kind: ScopeCompany, ID: companyID}
}

// Validate checks the scope can be used in a query.
func (s Scope) Validate() error {
	if !s.Kind.IsValid() {
		return fmt.Errorf("invalid ledger scope kind %q", s.Kind)
	}
	if s.ID <= 0 {
		return fmt.Errorf("invalid ledger scope id %d", s.ID)
	}
	return nil
}

func (s Scope) String() string {
	return fmt.Sprintf("%s:%d", s.Kind, s.ID)
}

// Snapshot holds the per-category totals for one scope and date.
// It is computed on demand and never persisted.
type Snapshot struct {
	Scope  Scope
	Date   time.Time
	Totals map[Category]decimal.Decimal
}

// NewSnapshot creates an empty snapshot with every category set to zero.
func NewSnapshot(scope Scope, date time.Time) *Snapshot {
	totals := make(map[Category]decimal.Decimal, len(creditCategories)+len(debitCategories))
	for _, c := range Categories() {
		totals[c] = decimal.Zero
	}
	return &Snapshot{Scope: scope, Date: date, Totals: totals}
}

// Get returns the total for a category, zero when absent.
func (s *Snapshot) Get(c Category) decimal.Decimal {
	if v, ok := s.Totals[c]; ok {
		return v
	}
	return decimal.Zero
}

// Set records the total for a category.
func (s *Snapshot) Set(c Category, v decimal.Decimal) {
	s.Totals[c] = v
}

// TotalCredit sums every credit-side category.
func (s *Snapshot) TotalCredit() decimal.Decimal {
	return s.sum(creditCategories)
}

// TotalDebit sums every debit-side category.
func (s *Snapshot) TotalDebit() decimal.Decimal {
	return s.sum(debitCategories)
}

// DayBalance is total credit minus total debit.
func (s *Snapshot) DayBalance() decimal.Decimal {
	return s.TotalCredit().Sub(s.TotalDebit())
}

func (s *Snapshot) sum(categories []Category) decimal.Decimal {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(s.Get(c))
	}
	return total
}

// ClosingAmount carries the previous day's closing forward onto the day balance.
func ClosingAmount(s *Snapshot, previousClosing decimal.Decimal) decimal.Decimal {
	return s.DayBalance().Add(previousClosing)
}
