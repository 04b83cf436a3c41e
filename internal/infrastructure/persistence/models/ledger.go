package models

import (
	"time"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ClosingBalanceModel is the persistence model for closing balances.
// The unique index stops two concurrent advancers closing a branch twice.
type ClosingBalanceModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	CompanyID     int64           `gorm:"not null;uniqueIndex:idx_closing_company_branch_date,priority:1;index:idx_closing_company_date,priority:1"`
	BranchID      int64           `gorm:"not null;uniqueIndex:idx_closing_company_branch_date,priority:2"`
	Date          time.Time       `gorm:"type:date;not null;uniqueIndex:idx_closing_company_branch_date,priority:3;index:idx_closing_company_date,priority:2"`
	ClosingAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (ClosingBalanceModel) TableName() string {
	return "closing_balances"
}

// ToDomain converts the model to a domain entity
func (m *ClosingBalanceModel) ToDomain() *ledger.ClosingBalance {
	return &ledger.ClosingBalance{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		BranchID:      m.BranchID,
		Date:          m.Date.UTC(),
		ClosingAmount: m.ClosingAmount,
		CreatedAt:     m.CreatedAt,
	}
}

// ClosingBalanceModelFromDomain creates a model from a domain entity
func ClosingBalanceModelFromDomain(cb *ledger.ClosingBalance) *ClosingBalanceModel {
	return &ClosingBalanceModel{
		ID:            cb.ID,
		CompanyID:     cb.CompanyID,
		BranchID:      cb.BranchID,
		Date:          cb.Date,
		ClosingAmount: cb.ClosingAmount,
		CreatedAt:     cb.CreatedAt,
	}
}

// LedgerRow holds the columns every ledger source table shares.
type LedgerRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CompanyID int64     `gorm:"not null;index"`
	BranchID  int64     `gorm:"not null;index:,composite:branch_date"`
	Date      time.Time `gorm:"type:date;not null;index:,composite:branch_date"`
}

// AmountRow is a ledger source row with a single amount.
type AmountRow struct {
	LedgerRow
	Amount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// EntryType marks two-sided ledger sources.
const (
	EntryTypeCredit = "CREDIT"
	EntryTypeDebit  = "DEBIT"
)

// TypedAmountRow is a ledger source row that can be either a credit or a debit.
type TypedAmountRow struct {
	AmountRow
	EntryType string `gorm:"type:varchar(10);not null"`
}

// CapitalEntryModel records capital introduced or withdrawn
type CapitalEntryModel struct{ TypedAmountRow }

// TableName returns the table name for GORM
func (CapitalEntryModel) TableName() string { return "capital_entries" }

// PartyCreditModel records money received from third parties
type PartyCreditModel struct{ AmountRow }

// TableName returns the table name for GORM
func (PartyCreditModel) TableName() string { return "party_credits" }

// PendingAccountModel records pending account movements
type PendingAccountModel struct{ TypedAmountRow }

// TableName returns the table name for GORM
func (PendingAccountModel) TableName() string { return "pending_accounts" }

// ReceiptModel records an installment collected against an HP entry
type ReceiptModel struct {
	LedgerRow
	HpEntryID   int64           `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ODInterest  decimal.Decimal `gorm:"column:od_interest;type:decimal(18,2);not null;default:0"`
	PDRAmount   decimal.Decimal `gorm:"column:pdr_amount;type:decimal(18,2);not null;default:0"`
	PDRInterest decimal.Decimal `gorm:"column:pdr_interest;type:decimal(18,2);not null;default:0"`
	CampCharge  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string { return "receipts" }

// HpReturnModel records money returned against an HP entry
type HpReturnModel struct {
	AmountRow
	HpEntryID int64 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (HpReturnModel) TableName() string { return "hp_returns" }

// LoanModel records loans taken or repaid by a branch
type LoanModel struct{ TypedAmountRow }

// TableName returns the table name for GORM
func (LoanModel) TableName() string { return "loans" }

// SalaryAdvanceModel records salary advances paid or recovered
type SalaryAdvanceModel struct{ TypedAmountRow }

// TableName returns the table name for GORM
func (SalaryAdvanceModel) TableName() string { return "salary_advances" }

// RefinanceModel records refinance payouts
type RefinanceModel struct{ AmountRow }

// TableName returns the table name for GORM
func (RefinanceModel) TableName() string { return "refinances" }

// ExpenseModel records branch expenses
type ExpenseModel struct{ AmountRow }

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string { return "expenses" }

// RTOPaymentModel records RTO charges paid out
type RTOPaymentModel struct{ AmountRow }

// TableName returns the table name for GORM
func (RTOPaymentModel) TableName() string { return "rto_payments" }

// DocPaymentModel records document charges paid out
type DocPaymentModel struct{ AmountRow }

// TableName returns the table name for GORM
func (DocPaymentModel) TableName() string { return "doc_payments" }

// SalaryModel records salaries paid
type SalaryModel struct{ AmountRow }

// TableName returns the table name for GORM
func (SalaryModel) TableName() string { return "salaries" }

// BankReceiptModel records cash deposited to the bank
type BankReceiptModel struct{ AmountRow }

// TableName returns the table name for GORM
func (BankReceiptModel) TableName() string { return "bank_receipts" }
