package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lmorandi/catalog-admin-backend/api/responses"
	"github.com/lmorandi/catalog-admin-backend/api/validators"
	variantsvc "github.com/lmorandi/catalog-admin-backend/internal/variants"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/logger"
)

func ListVariants(svc variantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variants, err := svc.List(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.Fields{"data": variants})
	}
}

func GenerateVariants(svc variantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload generateVariantsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toGenerateInput(productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Generate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, responses.Fields{
			"created":  len(result.Created),
			"skipped":  result.Skipped,
			"total":    result.Total,
			"variants": result.Created,
		})
	}
}

func CreateVariant(svc variantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createVariantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput(productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, responses.Fields{"data": variant})
	}
}

func AvailableCombinations(svc variantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		combos, err := svc.AvailableCombinations(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.Fields{"data": combos, "count": len(combos)})
	}
}

func BulkUpdateVariants(svc variantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bulkUpdateVariantsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variants, err := svc.BulkUpdate(r.Context(), variantsvc.BulkUpdateInput{
			ProductID: productID,
			Updates:   payload.Variants,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.Fields{"data": variants})
	}
}

func DeleteVariant(svc variantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := validators.URLParamID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, responses.Fields{"message": "variant deleted"})
	}
}

type variantDefaultsRequest struct {
	Price               decimal.Decimal  `json:"price"`
	CompareAtPrice      *decimal.Decimal `json:"compare_at_price,omitempty"`
	SKUPrefix           string           `json:"sku_prefix,omitempty"`
	InventoryQuantity   int              `json:"inventory_quantity,omitempty"`
	InventoryManagement string           `json:"inventory_management,omitempty"`
	Weight              *decimal.Decimal `json:"weight,omitempty"`
	WeightUnit          string           `json:"weight_unit,omitempty"`
}

func (r variantDefaultsRequest) toDefaults() (variantsvc.VariantDefaults, error) {
	defaults := variantsvc.VariantDefaults{
		Price:             r.Price,
		CompareAtPrice:    r.CompareAtPrice,
		SKUPrefix:         strings.TrimSpace(r.SKUPrefix),
		InventoryQuantity: r.InventoryQuantity,
		Weight:            r.Weight,
	}
	if r.InventoryManagement != "" {
		management, err := enums.ParseInventoryManagement(r.InventoryManagement)
		if err != nil {
			return variantsvc.VariantDefaults{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inventory management")
		}
		defaults.InventoryManagement = management
	}
	if r.WeightUnit != "" {
		unit, err := enums.ParseWeightUnit(r.WeightUnit)
		if err != nil {
			return variantsvc.VariantDefaults{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid weight unit")
		}
		defaults.WeightUnit = unit
	}
	return defaults, nil
}

type generateVariantsRequest struct {
	Mode         string                        `json:"mode,omitempty"`
	Combinations []variantsvc.CombinationInput `json:"combinations,omitempty" validate:"omitempty,dive"`
	Defaults     variantDefaultsRequest        `json:"defaults"`
}

func (r generateVariantsRequest) toGenerateInput(productID int64) (variantsvc.GenerateInput, error) {
	defaults, err := r.Defaults.toDefaults()
	if err != nil {
		return variantsvc.GenerateInput{}, err
	}
	return variantsvc.GenerateInput{
		ProductID:    productID,
		Mode:         variantsvc.GenerateMode(r.Mode),
		Combinations: r.Combinations,
		Defaults:     defaults,
	}, nil
}

type createVariantRequest struct {
	Options             []variantsvc.SelectionInput `json:"options" validate:"required,min=1,dive"`
	SKU                 *string                     `json:"sku,omitempty"`
	Barcode             *string                     `json:"barcode,omitempty"`
	Price               decimal.Decimal             `json:"price"`
	CompareAtPrice      *decimal.Decimal            `json:"compare_at_price,omitempty"`
	InventoryQuantity   int                         `json:"inventory_quantity,omitempty" validate:"omitempty,min=0"`
	InventoryManagement string                      `json:"inventory_management,omitempty"`
	Weight              *decimal.Decimal            `json:"weight,omitempty"`
	WeightUnit          string                      `json:"weight_unit,omitempty"`
}

func (r createVariantRequest) toCreateInput(productID int64) (variantsvc.CreateInput, error) {
	input := variantsvc.CreateInput{
		ProductID:         productID,
		Selections:        r.Options,
		SKU:               r.SKU,
		Barcode:           r.Barcode,
		Price:             r.Price,
		CompareAtPrice:    r.CompareAtPrice,
		InventoryQuantity: r.InventoryQuantity,
	}
	if r.InventoryManagement != "" {
		management, err := enums.ParseInventoryManagement(r.InventoryManagement)
		if err != nil {
			return variantsvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inventory management")
		}
		input.InventoryManagement = management
	}
	if r.Weight != nil {
		input.Weight = r.Weight
	}
	if r.WeightUnit != "" {
		unit, err := enums.ParseWeightUnit(r.WeightUnit)
		if err != nil {
			return variantsvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid weight unit")
		}
		input.WeightUnit = unit
	}
	return input, nil
}

type bulkUpdateVariantsRequest struct {
	Variants []variantsvc.VariantUpdate `json:"variants" validate:"required,min=1,dive"`
}
