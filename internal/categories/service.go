package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	dbtypes "github.com/lmorandi/catalog-admin-backend/pkg/db/types"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a category service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, categoryID int64) (*models.Category, error) {
	return s.loadCategory(ctx, s.repo, categoryID)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Category, error) {
	status := enums.CategoryStatusActive
	if input.Status != "" {
		parsed, err := enums.ParseCategoryStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = parsed
	}

	var created *models.Category
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		taken, err := repo.NameExists(ctx, input.Name, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("category %q already exists", input.Name))
		}

		category := &models.Category{
			Name:               input.Name,
			Description:        input.Description,
			ShopifyProductType: input.ShopifyProductType,
			Status:             status,
		}
		if _, err := repo.CreateCategory(ctx, category); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
		}
		created = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Category, error) {
	var updated *models.Category
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		category, err := s.loadCategory(ctx, repo, input.CategoryID)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if input.Name != nil && !strings.EqualFold(*input.Name, category.Name) {
			taken, err := repo.NameExists(ctx, *input.Name, category.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
			}
			if taken {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("category %q already exists", *input.Name))
			}
			fields["name"] = *input.Name
		}
		if input.Description != nil {
			fields["description"] = *input.Description
		}
		if input.ShopifyProductType != nil {
			fields["shopify_product_type"] = *input.ShopifyProductType
		}
		if input.Status != nil {
			status, err := enums.ParseCategoryStatus(*input.Status)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			fields["status"] = status
		}

		if len(fields) == 0 {
			updated = category
			return nil
		}
		if err := repo.UpdateCategory(ctx, category.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
		}

		reloaded, err := s.loadCategory(ctx, repo, category.ID)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a category. Its fields cascade; products keep existing with
// their category reference cleared.
func (s *service) Delete(ctx context.Context, categoryID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadCategory(ctx, repo, categoryID); err != nil {
			return err
		}
		if err := repo.DeleteCategory(ctx, categoryID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
		}
		return nil
	})
}

func (s *service) AddField(ctx context.Context, input FieldInput) (*models.CategoryField, error) {
	fieldType, err := enums.ParseFieldType(input.FieldType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	options, err := fieldOptions(fieldType, input.Options)
	if err != nil {
		return nil, err
	}

	var created *models.CategoryField
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.loadCategory(ctx, repo, input.CategoryID); err != nil {
			return err
		}

		siblings, err := repo.FindFieldsByCategory(ctx, input.CategoryID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category fields")
		}
		for _, sibling := range siblings {
			if strings.EqualFold(sibling.Name, input.Name) {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("field %q already exists on this category", input.Name))
			}
		}

		field := &models.CategoryField{
			CategoryID:   input.CategoryID,
			Name:         input.Name,
			FieldType:    fieldType,
			Required:     input.Required,
			Position:     len(siblings) + 1,
			Options:      options,
			DefaultValue: input.DefaultValue,
		}
		if _, err := repo.CreateField(ctx, field); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category field")
		}
		created = field
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) UpdateField(ctx context.Context, input FieldUpdateInput) (*models.CategoryField, error) {
	var updated *models.CategoryField
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		field, err := s.loadField(ctx, repo, input.CategoryID, input.FieldID)
		if err != nil {
			return err
		}

		fieldType := field.FieldType
		fields := map[string]any{}
		if input.FieldType != nil {
			parsed, err := enums.ParseFieldType(*input.FieldType)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			fieldType = parsed
			fields["field_type"] = parsed
		}
		if input.Name != nil && !strings.EqualFold(*input.Name, field.Name) {
			siblings, err := repo.FindFieldsByCategory(ctx, input.CategoryID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category fields")
			}
			for _, sibling := range siblings {
				if sibling.ID != field.ID && strings.EqualFold(sibling.Name, *input.Name) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("field %q already exists on this category", *input.Name))
				}
			}
			fields["name"] = *input.Name
		}
		if input.Required != nil {
			fields["required"] = *input.Required
		}
		if input.DefaultValue != nil {
			fields["default_value"] = *input.DefaultValue
		}
		if input.Options != nil {
			options, err := fieldOptions(fieldType, input.Options)
			if err != nil {
				return err
			}
			fields["options"] = options
		} else if fieldType == enums.FieldTypeSelect && len(field.Options) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "select fields require an options list")
		}

		if len(fields) == 0 {
			updated = field
			return nil
		}
		if err := repo.UpdateField(ctx, field.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category field")
		}

		reloaded, err := s.loadField(ctx, repo, input.CategoryID, field.ID)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteField(ctx context.Context, categoryID, fieldID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadField(ctx, repo, categoryID, fieldID); err != nil {
			return err
		}
		if err := repo.DeleteField(ctx, fieldID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category field")
		}
		return nil
	})
}

func (s *service) loadCategory(ctx context.Context, repo Repository, categoryID int64) (*models.Category, error) {
	if categoryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) loadField(ctx context.Context, repo Repository, categoryID, fieldID int64) (*models.CategoryField, error) {
	field, err := repo.FindField(ctx, categoryID, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category field not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category field")
	}
	return field, nil
}

// fieldOptions validates the options list against the field type. Select
// fields must declare at least one option; other types must not.
func fieldOptions(fieldType enums.FieldType, raw []string) (dbtypes.StringList, error) {
	if fieldType == enums.FieldTypeSelect {
		if len(raw) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "select fields require an options list")
		}
		options := make(dbtypes.StringList, 0, len(raw))
		seen := make(map[string]struct{}, len(raw))
		for _, option := range raw {
			trimmed := strings.TrimSpace(option)
			if trimmed == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "options cannot contain blank entries")
			}
			if _, dup := seen[trimmed]; dup {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("duplicate option %q", trimmed))
			}
			seen[trimmed] = struct{}{}
			options = append(options, trimmed)
		}
		return options, nil
	}
	if len(raw) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("options are only allowed on select fields, not %q", fieldType))
	}
	return nil, nil
}
