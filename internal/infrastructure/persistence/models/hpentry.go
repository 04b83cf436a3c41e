package models

import (
	"time"

	"github.com/hpfin/backend/internal/domain/hpentry"
	"github.com/shopspring/decimal"
)

// HpEntryModel is the persistence model for HP entries
type HpEntryModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CompanyID int64 `gorm:"not null;index"`
	BranchID  int64 `gorm:"not null;index:idx_hp_entries_branch_date,priority:1"`

	CustomerName    string `gorm:"type:varchar(200);not null"`
	CustomerPhone   string `gorm:"type:varchar(20)"`
	CustomerAddress string `gorm:"type:text"`

	VehicleID        int64  `gorm:"not null"`
	VehicleModelYear int    `gorm:"not null"`
	VehicleNumber    string `gorm:"type:varchar(30)"`

	FinanceValue     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RTOCharge        decimal.Decimal `gorm:"column:rto_charge;type:decimal(18,2);not null;default:0"`
	HPCharge         decimal.Decimal `gorm:"column:hp_charge;type:decimal(18,2);not null;default:0"`
	DocCharges       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PartyDebitAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	HPFinanceValue   decimal.Decimal `gorm:"column:hp_finance_value;type:decimal(18,2);not null;default:0"`
	HPFinPer         decimal.Decimal `gorm:"column:hp_fin_per;type:decimal(9,4);not null;default:0"`
	HPChargePer      decimal.Decimal `gorm:"column:hp_charge_per;type:decimal(9,4);not null;default:0"`

	AreaID           int64
	MandalID         int64
	AutoConsultantID int64
	EmployeeID       int64

	AdjustDate time.Time `gorm:"type:date;not null"`
	Date       time.Time `gorm:"type:date;not null;index:idx_hp_entries_branch_date,priority:2"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (HpEntryModel) TableName() string {
	return "hp_entries"
}

// ToDomain converts the model to a domain entity
func (m *HpEntryModel) ToDomain() *hpentry.HpEntry {
	return &hpentry.HpEntry{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		BranchID:         m.BranchID,
		CustomerName:     m.CustomerName,
		CustomerPhone:    m.CustomerPhone,
		CustomerAddress:  m.CustomerAddress,
		VehicleID:        m.VehicleID,
		VehicleModelYear: m.VehicleModelYear,
		VehicleNumber:    m.VehicleNumber,
		FinanceValue:     m.FinanceValue,
		RTOCharge:        m.RTOCharge,
		HPCharge:         m.HPCharge,
		DocCharges:       m.DocCharges,
		PartyDebitAmount: m.PartyDebitAmount,
		HPFinanceValue:   m.HPFinanceValue,
		HPFinPer:         m.HPFinPer,
		HPChargePer:      m.HPChargePer,
		AreaID:           m.AreaID,
		MandalID:         m.MandalID,
		AutoConsultantID: m.AutoConsultantID,
		EmployeeID:       m.EmployeeID,
		AdjustDate:       m.AdjustDate.UTC(),
		Date:             m.Date.UTC(),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// HpEntryModelFromDomain creates a model from a domain entity
func HpEntryModelFromDomain(e *hpentry.HpEntry) *HpEntryModel {
	return &HpEntryModel{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		BranchID:         e.BranchID,
		CustomerName:     e.CustomerName,
		CustomerPhone:    e.CustomerPhone,
		CustomerAddress:  e.CustomerAddress,
		VehicleID:        e.VehicleID,
		VehicleModelYear: e.VehicleModelYear,
		VehicleNumber:    e.VehicleNumber,
		FinanceValue:     e.FinanceValue,
		RTOCharge:        e.RTOCharge,
		HPCharge:         e.HPCharge,
		DocCharges:       e.DocCharges,
		PartyDebitAmount: e.PartyDebitAmount,
		HPFinanceValue:   e.HPFinanceValue,
		HPFinPer:         e.HPFinPer,
		HPChargePer:      e.HPChargePer,
		AreaID:           e.AreaID,
		MandalID:         e.MandalID,
		AutoConsultantID: e.AutoConsultantID,
		EmployeeID:       e.EmployeeID,
		AdjustDate:       e.AdjustDate,
		Date:             e.Date,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// PartyDebitModel is the persistence model for party debits.
// At most one FromHpEntry row exists per HP entry (partial unique index in migrations).
type PartyDebitModel struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	CompanyID        int64           `gorm:"not null;index"`
	BranchID         int64           `gorm:"not null;index"`
	HpEntryID        *int64          `gorm:"index"`
	AutoConsultantID int64
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VoucherNumber    int             `gorm:"not null"`
	Date             time.Time       `gorm:"type:date;not null"`
	FromHpEntry      bool            `gorm:"not null;default:false"`
	Remarks          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PartyDebitModel) TableName() string {
	return "party_debits"
}

// ToDomain converts the model to a domain entity
func (m *PartyDebitModel) ToDomain() *hpentry.PartyDebit {
	return &hpentry.PartyDebit{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		BranchID:         m.BranchID,
		HpEntryID:        m.HpEntryID,
		AutoConsultantID: m.AutoConsultantID,
		Amount:           m.Amount,
		VoucherNumber:    m.VoucherNumber,
		Date:             m.Date.UTC(),
		FromHpEntry:      m.FromHpEntry,
		Remarks:          m.Remarks,
	}
}

// PartyDebitModelFromDomain creates a model from a domain entity
func PartyDebitModelFromDomain(pd *hpentry.PartyDebit) *PartyDebitModel {
	return &PartyDebitModel{
		ID:               pd.ID,
		CompanyID:        pd.CompanyID,
		BranchID:         pd.BranchID,
		HpEntryID:        pd.HpEntryID,
		AutoConsultantID: pd.AutoConsultantID,
		Amount:           pd.Amount,
		VoucherNumber:    pd.VoucherNumber,
		Date:             pd.Date,
		FromHpEntry:      pd.FromHpEntry,
		Remarks:          pd.Remarks,
	}
}

// AllModels lists every model in dependency order, for AutoMigrate in tests and tooling.
func AllModels() []any {
	return []any{
		&CompanyModel{},
		&BranchModel{},
		&PDRLockModel{},
		&OverFundingModel{},
		&AdjustmentDaysModel{},
		&ClosingBalanceModel{},
		&HpEntryModel{},
		&PartyDebitModel{},
		&CapitalEntryModel{},
		&PartyCreditModel{},
		&PendingAccountModel{},
		&ReceiptModel{},
		&HpReturnModel{},
		&LoanModel{},
		&SalaryAdvanceModel{},
		&RefinanceModel{},
		&ExpenseModel{},
		&RTOPaymentModel{},
		&DocPaymentModel{},
		&SalaryModel{},
		&BankReceiptModel{},
	}
}
