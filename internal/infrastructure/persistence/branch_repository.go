package persistence

import (
	"context"
	"errors"

	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBranchRepository implements ledger.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// CountForCompany counts the branches of a company
func (r *GormBranchRepository) CountForCompany(ctx context.Context, companyID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BranchModel{}).
		Where("company_id = ?", companyID).
		Count(&count).Error
	return count, err
}

// IDsForCompany lists branch ids of a company in id order
func (r *GormBranchRepository) IDsForCompany(ctx context.Context, companyID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.BranchModel{}).
		Where("company_id = ?", companyID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// CompanyOf returns the owning company of a branch
func (r *GormBranchRepository) CompanyOf(ctx context.Context, branchID int64) (int64, error) {
	var model models.BranchModel
	err := r.db.WithContext(ctx).Select("company_id").Take(&model, "id = ?", branchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, shared.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return model.CompanyID, nil
}

// CompanyIDs lists every company id
func (r *GormBranchRepository) CompanyIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.CompanyModel{}).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
