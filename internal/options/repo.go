package options

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an options repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByProduct(ctx context.Context, productID int64) ([]models.Option, error) {
	var list []models.Option
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindOption(ctx context.Context, productID, optionID int64) (*models.Option, error) {
	var option models.Option
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", optionID, productID).
		First(&option).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *repository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Option{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateOption(ctx context.Context, option *models.Option) (*models.Option, error) {
	if err := r.db.WithContext(ctx).Create(option).Error; err != nil {
		return nil, err
	}
	return option, nil
}

func (r *repository) UpdateOption(ctx context.Context, optionID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Option{}).
		Where("id = ?", optionID).
		Updates(updates).Error
}

func (r *repository) DeleteOption(ctx context.Context, optionID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", optionID).
		Delete(&models.Option{}).Error
}

func (r *repository) CountLinksForValue(ctx context.Context, optionID int64, value string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VariantOption{}).
		Where("option_id = ? AND option_value = ?", optionID, value).
		Count(&count).Error
	return count, err
}

func (r *repository) SetLinkPosition(ctx context.Context, optionID int64, position int) error {
	return r.db.WithContext(ctx).
		Model(&models.VariantOption{}).
		Where("option_id = ?", optionID).
		Update("position", position).Error
}
