package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a product service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	if filters.Status != "" {
		if _, err := enums.ParseProductStatus(filters.Status); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := s.repo.FindDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	status := enums.ProductStatusDraft
	if input.Status != "" {
		parsed, err := enums.ParseProductStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = parsed
	}

	handle := input.Handle
	if handle == "" {
		handle = slug.Make(input.Title)
	} else {
		handle = slug.Make(handle)
	}
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot derive a handle from the title")
	}

	var created *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		taken, err := repo.HandleExists(ctx, handle, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check handle")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("handle %q is already in use", handle))
		}

		if input.CategoryID != nil {
			if err := s.requireCategory(ctx, repo, *input.CategoryID); err != nil {
				return err
			}
		}

		product := &models.Product{
			Title:       input.Title,
			Description: input.Description,
			Vendor:      input.Vendor,
			ProductType: input.ProductType,
			Tags:        input.Tags,
			Handle:      handle,
			Status:      status,
			CategoryID:  input.CategoryID,
		}
		if _, err := repo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Product, error) {
	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		fields := map[string]any{}
		if input.Title != nil {
			fields["title"] = *input.Title
		}
		if input.Description != nil {
			fields["description"] = *input.Description
		}
		if input.Vendor != nil {
			fields["vendor"] = *input.Vendor
		}
		if input.ProductType != nil {
			fields["product_type"] = *input.ProductType
		}
		if input.Tags != nil {
			fields["tags"] = *input.Tags
		}
		if input.Status != nil {
			status, err := enums.ParseProductStatus(*input.Status)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			fields["status"] = status
		}
		if input.Handle != nil {
			handle := slug.Make(*input.Handle)
			if handle == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "handle cannot be blank")
			}
			if handle != product.Handle {
				taken, err := repo.HandleExists(ctx, handle, product.ID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check handle")
				}
				if taken {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("handle %q is already in use", handle))
				}
				fields["handle"] = handle
			}
		}
		if input.CategoryID != nil {
			if *input.CategoryID > 0 {
				if err := s.requireCategory(ctx, repo, *input.CategoryID); err != nil {
					return err
				}
				fields["category_id"] = *input.CategoryID
			} else {
				// Zero detaches the product from its category.
				fields["category_id"] = nil
			}
		}

		if len(fields) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
		}
		if err := repo.UpdateProduct(ctx, product.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}

		reloaded, err := repo.FindDetail(ctx, product.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product; options, variants, images, and attributes cascade.
func (s *service) Delete(ctx context.Context, productID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if err := repo.DeleteProduct(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
}

func (s *service) requireCategory(ctx context.Context, repo Repository, categoryID int64) error {
	exists, err := repo.CategoryExists(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("category %d does not exist", categoryID))
	}
	return nil
}
