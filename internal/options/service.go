package options

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	dbtypes "github.com/lmorandi/catalog-admin-backend/pkg/db/types"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an option service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("options repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, productID int64) ([]models.Option, error) {
	if err := s.requireProduct(ctx, s.repo, productID); err != nil {
		return nil, err
	}
	list, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list options")
	}
	return list, nil
}

// Create declares a new option axis. Position is the next free slot, capped
// at MaxOptionsPerProduct.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Option, error) {
	values, err := normalizeValues(input.Values)
	if err != nil {
		return nil, err
	}

	var created *models.Option
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := s.requireProduct(ctx, repo, input.ProductID); err != nil {
			return err
		}

		existing, err := repo.FindByProduct(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing options")
		}
		if len(existing) >= models.MaxOptionsPerProduct {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product cannot have more than %d options", models.MaxOptionsPerProduct))
		}
		for _, opt := range existing {
			if strings.EqualFold(opt.Name, input.Name) {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("option %q already exists on this product", input.Name))
			}
		}

		option := &models.Option{
			ProductID: input.ProductID,
			Name:      input.Name,
			Position:  len(existing) + 1,
			Values:    values,
		}
		if _, err := repo.CreateOption(ctx, option); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create option")
		}
		created = option
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update patches an option's name or values. A value still referenced by a
// variant cannot be removed.
func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Option, error) {
	var values dbtypes.StringList
	if input.Values != nil {
		normalized, err := normalizeValues(input.Values)
		if err != nil {
			return nil, err
		}
		values = normalized
	}

	var updated *models.Option
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		option, err := s.loadOption(ctx, repo, input.ProductID, input.OptionID)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if input.Name != nil && !strings.EqualFold(option.Name, *input.Name) {
			siblings, err := repo.FindByProduct(ctx, input.ProductID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sibling options")
			}
			for _, sibling := range siblings {
				if sibling.ID != option.ID && strings.EqualFold(sibling.Name, *input.Name) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("option %q already exists on this product", *input.Name))
				}
			}
			fields["name"] = *input.Name
		}

		if input.Values != nil {
			for _, value := range removedValues(option.Values, values) {
				count, err := repo.CountLinksForValue(ctx, option.ID, value)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check value usage")
				}
				if count > 0 {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("value %q is used by %d variant(s) and cannot be removed", value, count))
				}
			}
			fields["values"] = values
		}

		if len(fields) == 0 {
			updated = option
			return nil
		}
		if err := repo.UpdateOption(ctx, option.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update option")
		}

		reloaded, err := repo.FindOption(ctx, input.ProductID, option.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload option")
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an option. Variant links referencing it go with it via
// cascade; the affected variants keep their remaining selections. Surviving
// options are re-packed to positions 1..n and their links follow, keeping
// position unique per product and per variant.
func (s *service) Delete(ctx context.Context, productID, optionID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadOption(ctx, repo, productID, optionID); err != nil {
			return err
		}
		if err := repo.DeleteOption(ctx, optionID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete option")
		}

		remaining, err := repo.FindByProduct(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load remaining options")
		}
		// Ascending order: positions only move down, so no two links of the
		// same variant ever collide mid-rewrite.
		for i, opt := range remaining {
			position := i + 1
			if opt.Position == position {
				continue
			}
			if err := repo.UpdateOption(ctx, opt.ID, map[string]any{"position": position}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compact option positions")
			}
			if err := repo.SetLinkPosition(ctx, opt.ID, position); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compact selection positions")
			}
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

func (s *service) loadOption(ctx context.Context, repo Repository, productID, optionID int64) (*models.Option, error) {
	option, err := repo.FindOption(ctx, productID, optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "option not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load option")
	}
	return option, nil
}

// normalizeValues trims entries and rejects blanks and duplicates.
func normalizeValues(raw []string) (dbtypes.StringList, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "values cannot be empty")
	}
	values := make(dbtypes.StringList, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "values cannot contain blank entries")
		}
		if _, dup := seen[trimmed]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("duplicate value %q", trimmed))
		}
		seen[trimmed] = struct{}{}
		values = append(values, trimmed)
	}
	return values, nil
}

func removedValues(before, after dbtypes.StringList) []string {
	kept := make(map[string]struct{}, len(after))
	for _, value := range after {
		kept[value] = struct{}{}
	}
	var removed []string
	for _, value := range before {
		if _, ok := kept[value]; !ok {
			removed = append(removed, value)
		}
	}
	return removed
}
