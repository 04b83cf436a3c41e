package models

import "github.com/shopspring/decimal"

// CompanyModel is the persistence model for companies
type CompanyModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// BranchModel is the persistence model for branches
type BranchModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	CompanyID int64  `gorm:"not null;index"`
	Name      string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// PDRLockModel holds the per-branch party debit ceiling
type PDRLockModel struct {
	BranchID   int64           `gorm:"primaryKey;autoIncrement:false"`
	LockAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PDRLockModel) TableName() string {
	return "pdr_locks"
}

// OverFundingModel holds the funding ceiling for a branch vehicle model
type OverFundingModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	BranchID  int64           `gorm:"not null;uniqueIndex:idx_over_funding_vehicle"`
	VehicleID int64           `gorm:"not null;uniqueIndex:idx_over_funding_vehicle"`
	ModelYear int             `gorm:"not null;uniqueIndex:idx_over_funding_vehicle"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OverFundingModel) TableName() string {
	return "over_fundings"
}

// AdjustmentDaysModel holds the global adjust date window size
type AdjustmentDaysModel struct {
	ID   int64 `gorm:"primaryKey;autoIncrement"`
	Days int   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdjustmentDaysModel) TableName() string {
	return "adjustment_days"
}
