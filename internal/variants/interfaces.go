package variants

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

// Repository defines persistence operations for variants and their option
// links.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProductWithOptions(ctx context.Context, productID int64) (*models.Product, error)
	FindVariantsByProduct(ctx context.Context, productID int64) ([]models.Variant, error)
	FindVariant(ctx context.Context, productID, variantID int64) (*models.Variant, error)
	CountVariantsByProduct(ctx context.Context, productID int64) (int64, error)
	CreateVariant(ctx context.Context, variant *models.Variant) (*models.Variant, error)
	CreateVariantOptions(ctx context.Context, links []models.VariantOption) error
	UpdateVariant(ctx context.Context, variantID int64, updates map[string]any) error
	DeleteVariant(ctx context.Context, variantID int64) error
}

// Service exposes the variant operations the API layer consumes.
type Service interface {
	List(ctx context.Context, productID int64) ([]models.Variant, error)
	Get(ctx context.Context, productID, variantID int64) (*models.Variant, error)
	Create(ctx context.Context, input CreateInput) (*models.Variant, error)
	Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error)
	AvailableCombinations(ctx context.Context, productID int64) ([]AvailableCombination, error)
	BulkUpdate(ctx context.Context, input BulkUpdateInput) ([]models.Variant, error)
	Update(ctx context.Context, productID int64, update VariantUpdate) (*models.Variant, error)
	Delete(ctx context.Context, productID, variantID int64) error
}
