package options

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

// Repository defines persistence operations for product options.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ProductExists(ctx context.Context, productID int64) (bool, error)
	FindByProduct(ctx context.Context, productID int64) ([]models.Option, error)
	FindOption(ctx context.Context, productID, optionID int64) (*models.Option, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
	CreateOption(ctx context.Context, option *models.Option) (*models.Option, error)
	UpdateOption(ctx context.Context, optionID int64, updates map[string]any) error
	DeleteOption(ctx context.Context, optionID int64) error
	CountLinksForValue(ctx context.Context, optionID int64, value string) (int64, error)
	SetLinkPosition(ctx context.Context, optionID int64, position int) error
}

// Service exposes the option operations the API layer consumes.
type Service interface {
	List(ctx context.Context, productID int64) ([]models.Option, error)
	Create(ctx context.Context, input CreateInput) (*models.Option, error)
	Update(ctx context.Context, input UpdateInput) (*models.Option, error)
	Delete(ctx context.Context, productID, optionID int64) error
}
