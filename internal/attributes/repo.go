package attributes

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

// Repository defines persistence operations for attributes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ProductExists(ctx context.Context, productID int64) (bool, error)
	VariantExists(ctx context.Context, productID, variantID int64) (bool, error)
	FindByProduct(ctx context.Context, productID int64) ([]models.Attribute, error)
	FindAttribute(ctx context.Context, productID, attributeID int64) (*models.Attribute, error)
	KeyExists(ctx context.Context, productID int64, variantID *int64, namespace, key string, excludeID int64) (bool, error)
	CreateAttribute(ctx context.Context, attribute *models.Attribute) (*models.Attribute, error)
	UpdateAttribute(ctx context.Context, attributeID int64, updates map[string]any) error
	DeleteAttribute(ctx context.Context, attributeID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an attributes repository bound to the provided DB.
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

func (r *repository) FindByProduct(ctx context.Context, productID int64) ([]models.Attribute, error) {
	var list []models.Attribute
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("namespace ASC, key ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindAttribute(ctx context.Context, productID, attributeID int64) (*models.Attribute, error) {
	var attribute models.Attribute
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", attributeID, productID).
		First(&attribute).Error
	if err != nil {
		return nil, err
	}
	return &attribute, nil
}

func (r *repository) KeyExists(ctx context.Context, productID int64, variantID *int64, namespace, key string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Attribute{}).
		Where("product_id = ? AND namespace = ? AND key = ?", productID, namespace, key)
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	} else {
		query = query.Where("variant_id IS NULL")
	}
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateAttribute(ctx context.Context, attribute *models.Attribute) (*models.Attribute, error) {
	if err := r.db.WithContext(ctx).Create(attribute).Error; err != nil {
		return nil, err
	}
	return attribute, nil
}

func (r *repository) UpdateAttribute(ctx context.Context, attributeID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Attribute{}).
		Where("id = ?", attributeID).
		Updates(updates).Error
}

func (r *repository) DeleteAttribute(ctx context.Context, attributeID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", attributeID).
		Delete(&models.Attribute{}).Error
}
