package shopifyexport

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

// Repository loads export candidates and records the remote ids Shopify
// assigns.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductForExport(ctx context.Context, productID int64) (*models.Product, error)
	SetProductShopifyID(ctx context.Context, productID, shopifyID int64) error
	SetVariantShopifyID(ctx context.Context, variantID, shopifyID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an export repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindProductForExport loads the product with every relation the payload
// needs. Variants come back in id order, which is the order the payload keeps.
func (r *repository) FindProductForExport(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Variants.VariantOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Attributes", "variant_id IS NULL").
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) SetProductShopifyID(ctx context.Context, productID, shopifyID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("shopify_id", shopifyID).Error
}

func (r *repository) SetVariantShopifyID(ctx context.Context, variantID, shopifyID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ?", variantID).
		Update("shopify_id", shopifyID).Error
}
