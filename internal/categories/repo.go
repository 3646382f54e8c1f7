package categories

import (
	"context"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a categories repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("name ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) FindByID(ctx context.Context, categoryID int64) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", categoryID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) UpdateCategory(ctx context.Context, categoryID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", categoryID).
		Updates(updates).Error
}

func (r *repository) DeleteCategory(ctx context.Context, categoryID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		Delete(&models.Category{}).Error
}

func (r *repository) FindField(ctx context.Context, categoryID, fieldID int64) (*models.CategoryField, error) {
	var field models.CategoryField
	err := r.db.WithContext(ctx).
		Where("id = ? AND category_id = ?", fieldID, categoryID).
		First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *repository) FindFieldsByCategory(ctx context.Context, categoryID int64) ([]models.CategoryField, error) {
	var fields []models.CategoryField
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("position ASC").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *repository) CreateField(ctx context.Context, field *models.CategoryField) (*models.CategoryField, error) {
	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		return nil, err
	}
	return field, nil
}

func (r *repository) UpdateField(ctx context.Context, fieldID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CategoryField{}).
		Where("id = ?", fieldID).
		Updates(updates).Error
}

func (r *repository) DeleteField(ctx context.Context, fieldID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", fieldID).
		Delete(&models.CategoryField{}).Error
}
