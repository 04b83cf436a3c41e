package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ledgerSource maps one ledger category onto the table and column it is summed from.
type ledgerSource struct {
	category ledger.Category
	table    string
	column   string
	filter   string
}

// ledgerSources is the chart of accounts projected by the aggregation query.
// Every category appears exactly once.
var ledgerSources = []ledgerSource{
	{ledger.CapitalCredit, "capital_entries", "amount", "entry_type = 'CREDIT'"},
	{ledger.PartyCredit, "party_credits", "amount", ""},
	{ledger.PendingCredit, "pending_accounts", "amount", "entry_type = 'CREDIT'"},
	{ledger.ReceiptAmount, "receipts", "amount", ""},
	{ledger.ODInterestReceipt, "receipts", "od_interest", ""},
	{ledger.ReceiptPDR, "receipts", "pdr_amount", ""},
	{ledger.PDRInterestReceipt, "receipts", "pdr_interest", ""},
	{ledger.CampCharge, "receipts", "camp_charge", ""},
	{ledger.LoanCredit, "loans", "amount", "entry_type = 'CREDIT'"},
	{ledger.SalaryAdvanceCredit, "salary_advances", "amount", "entry_type = 'CREDIT'"},

	{ledger.HPEntryFinance, "hp_entries", "finance_value", ""},
	{ledger.Refinance, "refinances", "amount", ""},
	{ledger.HPEntryPDR, "hp_entries", "party_debit_amount", ""},
	{ledger.Expense, "expenses", "amount", ""},
	{ledger.CapitalDebit, "capital_entries", "amount", "entry_type = 'DEBIT'"},
	// Party debits raised by HP entries are already counted through hp_entry_pdr.
	{ledger.PartyDebit, "party_debits", "amount", "from_hp_entry = FALSE"},
	{ledger.PendingDebit, "pending_accounts", "amount", "entry_type = 'DEBIT'"},
	{ledger.RTOPaid, "rto_payments", "amount", ""},
	{ledger.DOCPaid, "doc_payments", "amount", ""},
	{ledger.LoanDebit, "loans", "amount", "entry_type = 'DEBIT'"},
	{ledger.SalaryAdvanceDebit, "salary_advances", "amount", "entry_type = 'DEBIT'"},
	{ledger.Salary, "salaries", "amount", ""},
	{ledger.BankReceiptTotal, "bank_receipts", "amount", ""},
}

// scopeColumns whitelists the columns a snapshot may be filtered on.
var scopeColumns = map[ledger.ScopeKind]string{
	ledger.ScopeBranch:  "branch_id",
	ledger.ScopeCompany: "company_id",
}

// buildAggregationSQL renders one statement of scalar sub-selects, one per category.
// Only identifiers from ledgerSources and scopeColumns are interpolated.
func buildAggregationSQL(scopeColumn string) string {
	var b strings.Builder
	b.WriteString("SELECT\n")
	for i, src := range ledgerSources {
		fmt.Fprintf(&b, "  (SELECT COALESCE(SUM(%s), 0) FROM %s WHERE date = @date AND %s = @scope",
			src.column, src.table, scopeColumn)
		if src.filter != "" {
			b.WriteString(" AND ")
			b.WriteString(src.filter)
		}
		fmt.Fprintf(&b, ") AS %s", src.category)
		if i < len(ledgerSources)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// GormLedgerSnapshotRepository implements ledger.SnapshotReader using GORM
type GormLedgerSnapshotRepository struct {
	db      *gorm.DB
	queries map[ledger.ScopeKind]string
}

// NewGormLedgerSnapshotRepository creates a new GormLedgerSnapshotRepository
func NewGormLedgerSnapshotRepository(db *gorm.DB) *GormLedgerSnapshotRepository {
	queries := make(map[ledger.ScopeKind]string, len(scopeColumns))
	for kind, column := range scopeColumns {
		queries[kind] = buildAggregationSQL(column)
	}
	return &GormLedgerSnapshotRepository{db: db, queries: queries}
}

// Aggregate sums every ledger category for the scope on the given date
func (r *GormLedgerSnapshotRepository) Aggregate(ctx context.Context, scope ledger.Scope, date time.Time) (*ledger.Snapshot, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).
		Raw(r.queries[scope.Kind], map[string]any{"date": date, "scope": scope.ID}).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("aggregate ledger for %s on %s: %w", scope, date.Format(time.DateOnly), err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("aggregate ledger for %s: no row returned", scope)
	}

	values := make([]decimal.Decimal, len(ledgerSources))
	dest := make([]any, len(ledgerSources))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan ledger totals: %w", err)
	}

	snapshot := ledger.NewSnapshot(scope, date)
	for i, src := range ledgerSources {
		snapshot.Set(src.category, values[i])
	}
	return snapshot, rows.Err()
}
