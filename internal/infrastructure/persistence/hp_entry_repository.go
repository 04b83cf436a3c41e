package persistence

import (
	"context"
	"errors"

	"github.com/hpfin/backend/internal/domain/hpentry"
	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormHpEntryRepository implements hpentry.Repository using GORM
type GormHpEntryRepository struct {
	db *gorm.DB
}

// NewGormHpEntryRepository creates a new GormHpEntryRepository
func NewGormHpEntryRepository(db *gorm.DB) *GormHpEntryRepository {
	return &GormHpEntryRepository{db: db}
}

// FindByID finds an entry of a company by id
func (r *GormHpEntryRepository) FindByID(ctx context.Context, companyID, id int64) (*hpentry.HpEntry, error) {
	var model models.HpEntryModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts the entry and sets its generated id
func (r *GormHpEntryRepository) Create(ctx context.Context, e *hpentry.HpEntry) error {
	model := models.HpEntryModelFromDomain(e)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	e.ID = model.ID
	e.CreatedAt = model.CreatedAt
	e.UpdatedAt = model.UpdatedAt
	return nil
}

// Update writes every mutable field of the entry
func (r *GormHpEntryRepository) Update(ctx context.Context, e *hpentry.HpEntry) error {
	model := models.HpEntryModelFromDomain(e)
	result := r.db.WithContext(ctx).
		Model(&models.HpEntryModel{}).
		Where("id = ? AND company_id = ?", e.ID, e.CompanyID).
		Select("*").
		Omit("id", "company_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateFinanceValue stores the derived HP finance value
func (r *GormHpEntryRepository) UpdateFinanceValue(ctx context.Context, id int64, value decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.HpEntryModel{}).
		Where("id = ?", id).
		Update("hp_finance_value", value).Error
}

// Delete removes the entry
func (r *GormHpEntryRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.HpEntryModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormPartyDebitRepository implements hpentry.PartyDebitRepository using GORM
type GormPartyDebitRepository struct {
	db *gorm.DB
}

// NewGormPartyDebitRepository creates a new GormPartyDebitRepository
func NewGormPartyDebitRepository(db *gorm.DB) *GormPartyDebitRepository {
	return &GormPartyDebitRepository{db: db}
}

// FindFromHpEntry returns the entry's paired party debit, nil when none
func (r *GormPartyDebitRepository) FindFromHpEntry(ctx context.Context, hpEntryID int64) (*hpentry.PartyDebit, error) {
	var model models.PartyDebitModel
	err := r.db.WithContext(ctx).
		Where("hp_entry_id = ? AND from_hp_entry = ?", hpEntryID, true).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a party debit
func (r *GormPartyDebitRepository) Create(ctx context.Context, pd *hpentry.PartyDebit) error {
	model := models.PartyDebitModelFromDomain(pd)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	pd.ID = model.ID
	return nil
}

// Update writes amount, date and consultant of a party debit
func (r *GormPartyDebitRepository) Update(ctx context.Context, pd *hpentry.PartyDebit) error {
	return r.db.WithContext(ctx).
		Model(&models.PartyDebitModel{}).
		Where("id = ?", pd.ID).
		Updates(map[string]any{
			"amount":             pd.Amount,
			"date":               pd.Date,
			"auto_consultant_id": pd.AutoConsultantID,
			"branch_id":          pd.BranchID,
		}).Error
}

// DeleteFromHpEntry removes the entry's paired party debits
func (r *GormPartyDebitRepository) DeleteFromHpEntry(ctx context.Context, hpEntryID int64) error {
	return r.db.WithContext(ctx).
		Where("hp_entry_id = ? AND from_hp_entry = ?", hpEntryID, true).
		Delete(&models.PartyDebitModel{}).Error
}

// TotalExcludingHpEntry sums the entry's party debits not created by the HP workflow
func (r *GormPartyDebitRepository) TotalExcludingHpEntry(ctx context.Context, hpEntryID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.PartyDebitModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("hp_entry_id = ? AND from_hp_entry = ?", hpEntryID, false).
		Scan(&total).Error
	return total, err
}

// LastVoucherNumber returns the voucher of the company's newest party debit, 0 when none
func (r *GormPartyDebitRepository) LastVoucherNumber(ctx context.Context, companyID int64) (int, error) {
	var model models.PartyDebitModel
	err := r.db.WithContext(ctx).
		Select("voucher_number").
		Where("company_id = ?", companyID).
		Order("id DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return model.VoucherNumber, nil
}

// GormCollectionRepository implements hpentry.CollectionReader using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// TotalPaid sums receipts paid against the entry
func (r *GormCollectionRepository) TotalPaid(ctx context.Context, hpEntryID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.ReceiptModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("hp_entry_id = ?", hpEntryID).
		Scan(&total).Error
	return total, err
}

// TotalReturned sums HP returns recorded against the entry
func (r *GormCollectionRepository) TotalReturned(ctx context.Context, hpEntryID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.HpReturnModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("hp_entry_id = ?", hpEntryID).
		Scan(&total).Error
	return total, err
}
