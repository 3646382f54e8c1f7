package categories

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

// Repository defines persistence operations for categories and their fields.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, categoryID int64) (*models.Category, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, updates map[string]any) error
	DeleteCategory(ctx context.Context, categoryID int64) error
	FindField(ctx context.Context, categoryID, fieldID int64) (*models.CategoryField, error)
	FindFieldsByCategory(ctx context.Context, categoryID int64) ([]models.CategoryField, error)
	CreateField(ctx context.Context, field *models.CategoryField) (*models.CategoryField, error)
	UpdateField(ctx context.Context, fieldID int64, updates map[string]any) error
	DeleteField(ctx context.Context, fieldID int64) error
}

// Service exposes the category operations the API layer consumes.
type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, categoryID int64) (*models.Category, error)
	Create(ctx context.Context, input CreateInput) (*models.Category, error)
	Update(ctx context.Context, input UpdateInput) (*models.Category, error)
	Delete(ctx context.Context, categoryID int64) error
	AddField(ctx context.Context, input FieldInput) (*models.CategoryField, error)
	UpdateField(ctx context.Context, input FieldUpdateInput) (*models.CategoryField, error)
	DeleteField(ctx context.Context, categoryID, fieldID int64) error
}
