package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	"github.com/lmorandi/catalog-admin-backend/pkg/pagination"
)

// Repository defines persistence operations for products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error)
	FindByID(ctx context.Context, productID int64) (*models.Product, error)
	FindDetail(ctx context.Context, productID int64) (*models.Product, error)
	HandleExists(ctx context.Context, handle string, excludeID int64) (bool, error)
	CategoryExists(ctx context.Context, categoryID int64) (bool, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID int64, updates map[string]any) error
	DeleteProduct(ctx context.Context, productID int64) error
}

// Service exposes the product operations the API layer consumes.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error)
	Get(ctx context.Context, productID int64) (*models.Product, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, productID int64) error
}
