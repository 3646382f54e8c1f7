package shopifyexport

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/shopify"
)

// API is the slice of the Shopify client the export flow depends on.
type API interface {
	TestConnection(ctx context.Context) (*shopify.Shop, error)
	CreateProduct(ctx context.Context, product shopify.Product) (*shopify.Product, error)
	UpdateProduct(ctx context.Context, shopifyID int64, product shopify.Product) (*shopify.Product, error)
	RateLimit(ctx context.Context) (*shopify.RateLimitStatus, error)
}

// ExportResult reports the outcome of one export call.
type ExportResult struct {
	ProductID      int64 `json:"product_id"`
	ShopifyID      int64 `json:"shopify_id"`
	Created        bool  `json:"created"`
	VariantsLinked int   `json:"variants_linked"`
}

// Service pushes catalog products to the connected shop.
type Service interface {
	Export(ctx context.Context, productID int64, force bool) (*ExportResult, error)
	TestConnection(ctx context.Context) (*shopify.Shop, error)
	RateLimit(ctx context.Context) (*shopify.RateLimitStatus, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    Repository
	api     API
	tx      txRunner
	enabled bool
}

// NewService builds the export service. When enabled is false every operation
// fails fast without touching the network.
func NewService(repo Repository, api API, tx txRunner, enabled bool) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("export repository required")
	}
	if api == nil {
		return nil, fmt.Errorf("shopify api client required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, api: api, tx: tx, enabled: enabled}, nil
}

func (s *service) TestConnection(ctx context.Context) (*shopify.Shop, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.api.TestConnection(ctx)
}

func (s *service) RateLimit(ctx context.Context) (*shopify.RateLimitStatus, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.api.RateLimit(ctx)
}

// Export pushes one product. A product with no shopify_id is created; one
// already exported is only touched again when force is set, in which case the
// remote product is updated in place. Remote ids are written back to the
// product and its variants in one transaction. A failure after the remote
// write is surfaced as-is; the caller decides whether to re-issue.
func (s *service) Export(ctx context.Context, productID int64, force bool) (*ExportResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductForExport(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for export")
	}

	if product.ShopifyID != nil && !force {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("product already exported as shopify id %d, pass force to update", *product.ShopifyID))
	}
	if err := validateExport(product); err != nil {
		return nil, err
	}

	payload := exportPayload(product)

	var remote *shopify.Product
	creating := product.ShopifyID == nil
	if creating {
		remote, err = s.api.CreateProduct(ctx, payload)
	} else {
		remote, err = s.api.UpdateProduct(ctx, *product.ShopifyID, payload)
	}
	if err != nil {
		return nil, err
	}

	linked := 0
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SetProductShopifyID(ctx, product.ID, remote.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record product shopify id")
		}
		// The payload keeps variant order, so remote rows line up by index.
		// The default variant injected for option-less products is skipped.
		for i, remoteVariant := range remote.Variants {
			if i >= len(product.Variants) {
				break
			}
			if err := repo.SetVariantShopifyID(ctx, product.Variants[i].ID, remoteVariant.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record variant shopify id")
			}
			linked++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		ProductID:      product.ID,
		ShopifyID:      remote.ID,
		Created:        creating,
		VariantsLinked: linked,
	}, nil
}

func (s *service) ready() error {
	if !s.enabled {
		return pkgerrors.New(pkgerrors.CodeInvalidState, "shopify integration is not configured")
	}
	return nil
}
