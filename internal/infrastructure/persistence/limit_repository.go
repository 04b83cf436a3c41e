package persistence

import (
	"context"
	"errors"

	"github.com/hpfin/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLimitRepository implements hpentry.LimitReader using GORM.
// Limits are read through on every call; nothing is cached.
type GormLimitRepository struct {
	db *gorm.DB
}

// NewGormLimitRepository creates a new GormLimitRepository
func NewGormLimitRepository(db *gorm.DB) *GormLimitRepository {
	return &GormLimitRepository{db: db}
}

// PDRLock returns the branch party debit ceiling, nil when not configured
func (r *GormLimitRepository) PDRLock(ctx context.Context, branchID int64) (*decimal.Decimal, error) {
	var model models.PDRLockModel
	err := r.db.WithContext(ctx).Where("branch_id = ?", branchID).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.LockAmount, nil
}

// OverFunding returns the funding ceiling for a branch vehicle model, nil when unrestricted
func (r *GormLimitRepository) OverFunding(ctx context.Context, branchID, vehicleID int64, modelYear int) (*decimal.Decimal, error) {
	var model models.OverFundingModel
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND vehicle_id = ? AND model_year = ?", branchID, vehicleID, modelYear).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.Amount, nil
}

// AdjustmentDays returns the global adjust window size, 0 when not configured
func (r *GormLimitRepository) AdjustmentDays(ctx context.Context) (int, error) {
	var model models.AdjustmentDaysModel
	err := r.db.WithContext(ctx).Order("id DESC").Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return model.Days, nil
}
