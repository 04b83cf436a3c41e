package hpentry

import (
	"time"

	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// sharePrecision is the number of decimal places kept for HPFinPer and HPChargePer.
const sharePrecision = 4

var hundred = decimal.NewFromInt(100)

// HpEntry is a hire-purchase loan record for a customer and vehicle.
type HpEntry struct {
	ID        int64 `json:"id"`
	CompanyID int64 `json:"company_id"`
	BranchID  int64 `json:"branch_id"`

	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	VehicleID        int64  `json:"vehicle_id"`
	VehicleModelYear int    `json:"vehicle_model_year"`
	VehicleNumber    string `json:"vehicle_number"`

	FinanceValue     decimal.Decimal `json:"finance_value"`
	RTOCharge        decimal.Decimal `json:"rto_charge"`
	HPCharge         decimal.Decimal `json:"hp_charge"`
	DocCharges       decimal.Decimal `json:"doc_charges"`
	PartyDebitAmount decimal.Decimal `json:"party_debit_amount"`
	HPFinanceValue   decimal.Decimal `json:"hp_finance_value"`
	HPFinPer         decimal.Decimal `json:"hp_fin_per"`
	HPChargePer      decimal.Decimal `json:"hp_charge_per"`

	AreaID           int64 `json:"area_id"`
	MandalID         int64 `json:"mandal_id"`
	AutoConsultantID int64 `json:"auto_consultant_id"`
	EmployeeID       int64 `json:"employee_id"`

	AdjustDate time.Time `json:"adjust_date"`
	Date       time.Time `json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FundedTotal is finance value plus document and RTO charges. It is the
// figure checked against funding ceilings and stored as HPFinanceValue.
func (e *HpEntry) FundedTotal() decimal.Decimal {
	return e.FinanceValue.Add(e.DocCharges).Add(e.RTOCharge)
}

// FinancedTotal is everything the customer owes on the loan.
func (e *HpEntry) FinancedTotal() decimal.Decimal {
	return e.FundedTotal().Add(e.HPCharge)
}

// HasPartyDebit reports whether the entry carries a party debit.
func (e *HpEntry) HasPartyDebit() bool {
	return e.PartyDebitAmount.IsPositive()
}

// ApplyDerived recomputes HPFinanceValue and the finance/charge shares.
func (e *HpEntry) ApplyDerived() {
	e.HPFinanceValue = e.FundedTotal()
	e.HPFinPer, e.HPChargePer = Shares(e.FinanceValue, e.HPCharge)
}

// Shares splits finance value and HP charge into percentages of their sum,
// rounded to four places. Both are zero when the sum is zero.
func Shares(finance, hpCharge decimal.Decimal) (finPer, chargePer decimal.Decimal) {
	total := finance.Add(hpCharge)
	if total.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	finPer = finance.Mul(hundred).DivRound(total, sharePrecision)
	chargePer = hpCharge.Mul(hundred).DivRound(total, sharePrecision)
	return finPer, chargePer
}

// Validate checks the structural fields of an entry.
func (e *HpEntry) Validate() error {
	if e.CompanyID <= 0 {
		return shared.NewDomainError("INVALID_COMPANY", "Company ID is required")
	}
	if e.BranchID <= 0 {
		return shared.NewDomainError("INVALID_BRANCH", "Branch ID is required")
	}
	if e.CustomerName == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if e.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Entry date is required")
	}
	if e.AdjustDate.IsZero() {
		return shared.NewDomainError("INVALID_ADJUST_DATE", "Adjust date is required")
	}
	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"Finance value", e.FinanceValue},
		{"RTO charge", e.RTOCharge},
		{"HP charge", e.HPCharge},
		{"Doc charges", e.DocCharges},
		{"Party debit amount", e.PartyDebitAmount},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", a.name+" cannot be negative")
		}
	}
	return nil
}
