package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/hpfin/backend/internal/domain/ledger"
	"github.com/hpfin/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormClosingBalanceRepository implements ledger.ClosingBalanceRepository using GORM
type GormClosingBalanceRepository struct {
	db *gorm.DB
}

// NewGormClosingBalanceRepository creates a new GormClosingBalanceRepository
func NewGormClosingBalanceRepository(db *gorm.DB) *GormClosingBalanceRepository {
	return &GormClosingBalanceRepository{db: db}
}

// LatestDate returns the most recent closed date for a company, nil if none
func (r *GormClosingBalanceRepository) LatestDate(ctx context.Context, companyID int64) (*time.Time, error) {
	var model models.ClosingBalanceModel
	err := r.db.WithContext(ctx).
		Select("date").
		Where("company_id = ?", companyID).
		Order("date DESC").
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	date := model.Date.UTC()
	return &date, nil
}

// CountForDate counts branch rows of a company on a date
func (r *GormClosingBalanceRepository) CountForDate(ctx context.Context, companyID int64, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClosingBalanceModel{}).
		Where("company_id = ? AND date = ?", companyID, date).
		Count(&count).Error
	return count, err
}

// ClosedBranchIDs lists branches of a company already closed on a date
func (r *GormClosingBalanceRepository) ClosedBranchIDs(ctx context.Context, companyID int64, date time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.ClosingBalanceModel{}).
		Where("company_id = ? AND date = ?", companyID, date).
		Order("branch_id").
		Pluck("branch_id", &ids).Error
	return ids, err
}

// ClosingAmount returns the stored closing of a branch on a date
func (r *GormClosingBalanceRepository) ClosingAmount(ctx context.Context, branchID int64, date time.Time) (decimal.Decimal, bool, error) {
	var model models.ClosingBalanceModel
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date = ?", branchID, date).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return model.ClosingAmount, true, nil
}

// SumClosingAmount sums stored closings for every branch in scope on a date
func (r *GormClosingBalanceRepository) SumClosingAmount(ctx context.Context, scope ledger.Scope, date time.Time) (decimal.Decimal, error) {
	if err := scope.Validate(); err != nil {
		return decimal.Zero, err
	}
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.ClosingBalanceModel{}).
		Select("COALESCE(SUM(closing_amount), 0)").
		Where(scopeColumns[scope.Kind]+" = ? AND date = ?", scope.ID, date).
		Scan(&total).Error
	return total, err
}

// Insert saves a new row; returns ledger.ErrClosingBalanceExists on a duplicate
func (r *GormClosingBalanceRepository) Insert(ctx context.Context, cb *ledger.ClosingBalance) error {
	model := models.ClosingBalanceModelFromDomain(cb)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ledger.ErrClosingBalanceExists
		}
		return err
	}
	cb.ID = model.ID
	cb.CreatedAt = model.CreatedAt
	return nil
}

// ListForBranch lists closing rows of a branch between two dates inclusive
func (r *GormClosingBalanceRepository) ListForBranch(ctx context.Context, branchID int64, from, to time.Time) ([]ledger.ClosingBalance, error) {
	var rows []models.ClosingBalanceModel
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND date BETWEEN ? AND ?", branchID, from, to).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ledger.ClosingBalance, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}
