package images

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

// Repository defines persistence operations for image metadata.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ProductExists(ctx context.Context, productID int64) (bool, error)
	VariantExists(ctx context.Context, productID, variantID int64) (bool, error)
	FindByProduct(ctx context.Context, productID int64) ([]models.Image, error)
	FindImage(ctx context.Context, productID, imageID int64) (*models.Image, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
	CreateImage(ctx context.Context, image *models.Image) (*models.Image, error)
	UpdateImage(ctx context.Context, imageID int64, updates map[string]any) error
	DeleteImage(ctx context.Context, imageID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an images repository bound to the provided DB.
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

func (r *repository) VariantExists(ctx context.Context, productID, variantID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ? AND product_id = ?", variantID, productID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindByProduct(ctx context.Context, productID int64) ([]models.Image, error) {
	var list []models.Image
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindImage(ctx context.Context, productID, imageID int64) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *repository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateImage(ctx context.Context, image *models.Image) (*models.Image, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func (r *repository) UpdateImage(ctx context.Context, imageID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("id = ?", imageID).
		Updates(updates).Error
}

func (r *repository) DeleteImage(ctx context.Context, imageID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", imageID).
		Delete(&models.Image{}).Error
}
