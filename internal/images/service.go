package images

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput registers hosted image metadata on a product or one of its
// variants.
type CreateInput struct {
	ProductID int64
	VariantID *int64  `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	Src       string  `json:"src" validate:"required,url"`
	AltText   *string `json:"alt_text,omitempty"`
	Width     *int    `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height    *int    `json:"height,omitempty" validate:"omitempty,gt=0"`
	Size      *int    `json:"size,omitempty" validate:"omitempty,gt=0"`
	Filename  *string `json:"filename,omitempty"`
}

// UpdateInput patches image metadata. Nil fields are left untouched.
type UpdateInput struct {
	ProductID int64
	ImageID   int64
	Src       *string `json:"src,omitempty" validate:"omitempty,url"`
	AltText   *string `json:"alt_text,omitempty"`
}

// Service exposes the image operations the API layer consumes.
type Service interface {
	List(ctx context.Context, productID int64) ([]models.Image, error)
	Create(ctx context.Context, input CreateInput) (*models.Image, error)
	Update(ctx context.Context, input UpdateInput) (*models.Image, error)
	Reorder(ctx context.Context, productID int64, orderedIDs []int64) ([]models.Image, error)
	Delete(ctx context.Context, productID, imageID int64) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an image service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("images repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, productID int64) ([]models.Image, error) {
	if err := s.requireProduct(ctx, s.repo, productID); err != nil {
		return nil, err
	}
	list, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list images")
	}
	return list, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Image, error) {
	var created *models.Image
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := s.requireProduct(ctx, repo, input.ProductID); err != nil {
			return err
		}
		if input.VariantID != nil {
			ok, err := repo.VariantExists(ctx, input.ProductID, *input.VariantID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check variant")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("variant %d does not belong to product %d", *input.VariantID, input.ProductID))
			}
		}

		count, err := repo.CountByProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count images")
		}

		image := &models.Image{
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Src:       input.Src,
			AltText:   input.AltText,
			Position:  int(count) + 1,
			Width:     input.Width,
			Height:    input.Height,
			Size:      input.Size,
			Filename:  input.Filename,
		}
		if _, err := repo.CreateImage(ctx, image); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create image")
		}
		created = image
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Image, error) {
	var updated *models.Image
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		image, err := s.loadImage(ctx, repo, input.ProductID, input.ImageID)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if input.Src != nil {
			fields["src"] = *input.Src
		}
		if input.AltText != nil {
			fields["alt_text"] = *input.AltText
		}
		if len(fields) == 0 {
			updated = image
			return nil
		}
		if err := repo.UpdateImage(ctx, image.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update image")
		}

		reloaded, err := s.loadImage(ctx, repo, input.ProductID, image.ID)
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

// Reorder rewrites every image's position from the given id order. The list
// must name each of the product's images exactly once.
func (s *service) Reorder(ctx context.Context, productID int64, orderedIDs []int64) ([]models.Image, error) {
	if len(orderedIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image order cannot be empty")
	}

	var reordered []models.Image
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := s.requireProduct(ctx, repo, productID); err != nil {
			return err
		}

		current, err := repo.FindByProduct(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load images")
		}
		if len(orderedIDs) != len(current) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("order must list all %d images, got %d", len(current), len(orderedIDs)))
		}

		known := make(map[int64]struct{}, len(current))
		for _, image := range current {
			known[image.ID] = struct{}{}
		}
		seen := make(map[int64]struct{}, len(orderedIDs))
		for position, id := range orderedIDs {
			if _, ok := known[id]; !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("image %d does not belong to product %d", id, productID))
			}
			if _, dup := seen[id]; dup {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("image %d listed more than once", id))
			}
			seen[id] = struct{}{}
			if err := repo.UpdateImage(ctx, id, map[string]any{"position": position + 1}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reorder image")
			}
		}

		list, err := repo.FindByProduct(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload images")
		}
		reordered = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

func (s *service) Delete(ctx context.Context, productID, imageID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadImage(ctx, repo, productID, imageID); err != nil {
			return err
		}
		if err := repo.DeleteImage(ctx, imageID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image")
		}
		return nil
	})
}

func (s *service) requireProduct(ctx context.Context, repo Repository, productID int64) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	exists, err := repo.ProductExists(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) loadImage(ctx context.Context, repo Repository, productID, imageID int64) (*models.Image, error) {
	image, err := repo.FindImage(ctx, productID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load image")
	}
	return image, nil
}
