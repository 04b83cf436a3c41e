package hpentry

import (
	"errors"
	"time"

	"github.com/hpfin/backend/internal/domain/hpentry"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// HpEntryRequest carries every editable field of an HP entry. It is used for
// both create and full update.
type HpEntryRequest struct {
	BranchID         int64           `json:"branch_id" binding:"required,gt=0"`
	CustomerName     string          `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerPhone    string          `json:"customer_phone" binding:"max=20"`
	CustomerAddress  string          `json:"customer_address" binding:"max=500"`
	VehicleID        int64           `json:"vehicle_id" binding:"gte=0"`
	VehicleModelYear int             `json:"vehicle_model_year" binding:"gte=0"`
	VehicleNumber    string          `json:"vehicle_number" binding:"max=30"`
	FinanceValue     decimal.Decimal `json:"finance_value" binding:"decimal_gte0"`
	RTOCharge        decimal.Decimal `json:"rto_charge" binding:"decimal_gte0"`
	HPCharge         decimal.Decimal `json:"hp_charge" binding:"decimal_gte0"`
	DocCharges       decimal.Decimal `json:"doc_charges" binding:"decimal_gte0"`
	PartyDebitAmount decimal.Decimal `json:"party_debit_amount" binding:"decimal_gte0"`
	AreaID           int64           `json:"area_id" binding:"gte=0"`
	MandalID         int64           `json:"mandal_id" binding:"gte=0"`
	AutoConsultantID int64           `json:"auto_consultant_id" binding:"gte=0"`
	EmployeeID       int64           `json:"employee_id" binding:"gte=0"`
	AdjustDate       string          `json:"adjust_date" binding:"required,datetime=2006-01-02"`
	Date             string          `json:"date" binding:"omitempty,datetime=2006-01-02"` // defaults to today on create
}

// toEntry builds the domain entry; an empty Date falls back to defaultDate.
func (r HpEntryRequest) toEntry(companyID int64, defaultDate time.Time) (*hpentry.HpEntry, error) {
	adjust, err := shared.ParseDate(r.AdjustDate)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "adjust_date must be a YYYY-MM-DD date")
	}
	date := shared.CivilDate(defaultDate)
	if r.Date != "" {
		date, err = shared.ParseDate(r.Date)
		if err != nil {
			return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "date must be a YYYY-MM-DD date")
		}
	}
	return &hpentry.HpEntry{
		CompanyID:        companyID,
		BranchID:         r.BranchID,
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		CustomerAddress:  r.CustomerAddress,
		VehicleID:        r.VehicleID,
		VehicleModelYear: r.VehicleModelYear,
		VehicleNumber:    r.VehicleNumber,
		FinanceValue:     r.FinanceValue,
		RTOCharge:        r.RTOCharge,
		HPCharge:         r.HPCharge,
		DocCharges:       r.DocCharges,
		PartyDebitAmount: r.PartyDebitAmount,
		AreaID:           r.AreaID,
		MandalID:         r.MandalID,
		AutoConsultantID: r.AutoConsultantID,
		EmployeeID:       r.EmployeeID,
		AdjustDate:       adjust,
		Date:             date,
	}, nil
}

// CheckAmountsRequest asks whether a party debit fits under the branch PDR lock.
type CheckAmountsRequest struct {
	BranchID         int64           `json:"branch_id" binding:"required,gt=0"`
	PartyDebitAmount decimal.Decimal `json:"party_debit_amount" binding:"decimal_gte0"`
}

// CheckFundingRequest asks whether a funded total fits under the vehicle ceiling.
type CheckFundingRequest struct {
	BranchID     int64           `json:"branch_id" binding:"required,gt=0"`
	VehicleID    int64           `json:"vehicle_id" binding:"gte=0"`
	ModelYear    int             `json:"model_year" binding:"gte=0"`
	FinanceValue decimal.Decimal `json:"finance_value" binding:"decimal_gte0"`
	DocCharges   decimal.Decimal `json:"doc_charges" binding:"decimal_gte0"`
	RTOCharges   decimal.Decimal `json:"rto_charges" binding:"decimal_gte0"`
}

// CheckResult is the verdict of a pre-submit check.
type CheckResult struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// checkResult turns a rule rejection into a negative verdict and passes other errors through.
func checkResult(err error) (*CheckResult, error) {
	if err == nil {
		return &CheckResult{OK: true}, nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return &CheckResult{OK: false, Code: domainErr.Code, Message: domainErr.Message}, nil
	}
	return nil, err
}
