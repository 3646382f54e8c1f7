package attributes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
)

const defaultNamespace = "custom"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput attaches a namespaced key/value pair to a product or one of its
// variants.
type CreateInput struct {
	ProductID int64
	VariantID *int64  `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	Namespace string  `json:"namespace,omitempty" validate:"omitempty,min=1,max=255"`
	Key       string  `json:"key" validate:"required,min=1,max=255"`
	Value     *string `json:"value,omitempty"`
	ValueType string  `json:"value_type,omitempty"`
	Category  *string `json:"category,omitempty"`
}

// UpdateInput patches an attribute's value. Namespace and key are immutable;
// delete and recreate to move an attribute.
type UpdateInput struct {
	ProductID   int64
	AttributeID int64
	Value       *string `json:"value,omitempty"`
	ValueType   *string `json:"value_type,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// Service exposes the attribute operations the API layer consumes.
type Service interface {
	List(ctx context.Context, productID int64) ([]models.Attribute, error)
	Create(ctx context.Context, input CreateInput) (*models.Attribute, error)
	Update(ctx context.Context, input UpdateInput) (*models.Attribute, error)
	Delete(ctx context.Context, productID, attributeID int64) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an attribute service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attributes repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, productID int64) ([]models.Attribute, error) {
	if err := s.requireProduct(ctx, s.repo, productID); err != nil {
		return nil, err
	}
	list, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attributes")
	}
	return list, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Attribute, error) {
	valueType := enums.ValueTypeString
	if input.ValueType != "" {
		parsed, err := enums.ParseValueType(input.ValueType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		valueType = parsed
	}
	namespace := input.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	var created *models.Attribute
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

		taken, err := repo.KeyExists(ctx, input.ProductID, input.VariantID, namespace, input.Key, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check attribute key")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("attribute %s.%s already exists on this entity", namespace, input.Key))
		}

		attribute := &models.Attribute{
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Namespace: namespace,
			Key:       input.Key,
			Value:     input.Value,
			ValueType: valueType,
			Category:  input.Category,
		}
		if _, err := repo.CreateAttribute(ctx, attribute); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attribute")
		}
		created = attribute
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Attribute, error) {
	var updated *models.Attribute
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		attribute, err := s.loadAttribute(ctx, repo, input.ProductID, input.AttributeID)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if input.Value != nil {
			fields["value"] = *input.Value
		}
		if input.ValueType != nil {
			valueType, err := enums.ParseValueType(*input.ValueType)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
			}
			fields["value_type"] = valueType
		}
		if input.Category != nil {
			fields["category"] = *input.Category
		}

		if len(fields) == 0 {
			updated = attribute
			return nil
		}
		if err := repo.UpdateAttribute(ctx, attribute.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update attribute")
		}

		reloaded, err := s.loadAttribute(ctx, repo, input.ProductID, attribute.ID)
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

func (s *service) Delete(ctx context.Context, productID, attributeID int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadAttribute(ctx, repo, productID, attributeID); err != nil {
			return err
		}
		if err := repo.DeleteAttribute(ctx, attributeID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete attribute")
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

func (s *service) loadAttribute(ctx context.Context, repo Repository, productID, attributeID int64) (*models.Attribute, error) {
	attribute, err := repo.FindAttribute(ctx, productID, attributeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attribute not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attribute")
	}
	return attribute, nil
}
