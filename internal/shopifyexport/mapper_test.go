package shopifyexport

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	dbtypes "github.com/lmorandi/catalog-admin-backend/pkg/db/types"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
	pkgerrors "github.com/lmorandi/catalog-admin-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestExportPayloadMapsFullProduct(t *testing.T) {
	compare := decimal.NewFromFloat(24.5)
	weight := decimal.NewFromFloat(0.3)
	product := &models.Product{
		ID:          1,
		Title:       "Trail Shirt",
		Description: strPtr("<p>Breathable.</p>"),
		Vendor:      strPtr("Acme"),
		Handle:      "trail-shirt",
		Status:      enums.ProductStatusActive,
		Category:    &models.Category{ShopifyProductType: strPtr("Apparel")},
		Options: []models.Option{
			{Name: "Size", Position: 2, Values: dbtypes.StringList{"S", "M"}},
			{Name: "Color", Position: 1, Values: dbtypes.StringList{"Red", "Blue"}},
		},
		Variants: []models.Variant{
			{
				ID:                  10,
				SKU:                 strPtr("TS-RED-S"),
				Price:               decimal.NewFromFloat(19.9),
				CompareAtPrice:      &compare,
				InventoryQuantity:   5,
				InventoryManagement: enums.InventoryManagementManual,
				Weight:              &weight,
				WeightUnit:          enums.WeightUnitKilogram,
				VariantOptions: []models.VariantOption{
					{OptionValue: "S", Position: 2},
					{OptionValue: "Red", Position: 1},
				},
			},
			{
				ID:                  11,
				Price:               decimal.NewFromInt(21),
				InventoryManagement: enums.InventoryManagementNone,
				VariantOptions: []models.VariantOption{
					{OptionValue: "Blue", Position: 1},
					{OptionValue: "M", Position: 2},
				},
			},
		},
		Images: []models.Image{
			{Src: "https://cdn.example.com/b.jpg", Position: 2},
			{Src: "https://cdn.example.com/a.jpg", AltText: strPtr("front"), Position: 1},
		},
		Attributes: []models.Attribute{
			{Namespace: "custom", Key: "material", Value: strPtr("cotton"), ValueType: enums.ValueTypeString},
			{Namespace: "custom", Key: "organic", Value: strPtr("true"), ValueType: enums.ValueTypeBoolean},
		},
	}

	payload := exportPayload(product)

	assert.Equal(t, "Trail Shirt", payload.Title)
	assert.Equal(t, "<p>Breathable.</p>", payload.BodyHTML)
	assert.Equal(t, "Apparel", payload.Type)
	assert.Equal(t, "active", payload.Status)

	require.Len(t, payload.Options, 2)
	assert.Equal(t, "Color", payload.Options[0].Name)
	assert.Equal(t, []string{"Red", "Blue"}, payload.Options[0].Values)
	assert.Equal(t, "Size", payload.Options[1].Name)

	require.Len(t, payload.Variants, 2)
	first := payload.Variants[0]
	assert.Equal(t, "19.90", first.Price)
	require.NotNil(t, first.CompareAtPrice)
	assert.Equal(t, "24.50", *first.CompareAtPrice)
	assert.Equal(t, "TS-RED-S", first.SKU)
	require.NotNil(t, first.InventoryManagement)
	assert.Equal(t, "shopify", *first.InventoryManagement)
	require.NotNil(t, first.Weight)
	assert.InDelta(t, 0.3, *first.Weight, 0.0001)
	assert.Equal(t, "kg", first.WeightUnit)
	require.NotNil(t, first.Option1)
	assert.Equal(t, "Red", *first.Option1)
	require.NotNil(t, first.Option2)
	assert.Equal(t, "S", *first.Option2)
	assert.Nil(t, first.Option3)

	second := payload.Variants[1]
	assert.Equal(t, "21.00", second.Price)
	assert.Nil(t, second.InventoryManagement)
	assert.Equal(t, "Blue", *second.Option1)

	require.Len(t, payload.Images, 2)
	assert.Equal(t, "https://cdn.example.com/a.jpg", payload.Images[0].Src)
	assert.Equal(t, "front", payload.Images[0].Alt)

	require.Len(t, payload.Metafields, 2)
	assert.Equal(t, "single_line_text_field", payload.Metafields[0].Type)
	assert.Equal(t, "boolean", payload.Metafields[1].Type)
}

func TestExportPayloadDefaultVariant(t *testing.T) {
	payload := exportPayload(&models.Product{Title: "Bare", Handle: "bare", Status: enums.ProductStatusDraft})

	require.Len(t, payload.Variants, 1)
	assert.Equal(t, "0.00", payload.Variants[0].Price)
	require.NotNil(t, payload.Variants[0].InventoryManagement)
	assert.Equal(t, "shopify", *payload.Variants[0].InventoryManagement)
	assert.Empty(t, payload.Options)
}

func TestExportPayloadFallbackOptionSlot(t *testing.T) {
	payload := exportPayload(&models.Product{
		Title:  "No Options",
		Handle: "no-options",
		Variants: []models.Variant{
			{Price: decimal.NewFromInt(5), SKU: strPtr("NO-1")},
			{Price: decimal.NewFromInt(5)},
		},
	})

	require.Len(t, payload.Variants, 2)
	require.NotNil(t, payload.Variants[0].Option1)
	assert.Equal(t, "NO-1", *payload.Variants[0].Option1)
	require.NotNil(t, payload.Variants[1].Option1)
	assert.Equal(t, "Variant 2", *payload.Variants[1].Option1)
}

func TestValidateExport(t *testing.T) {
	manyVariants := make([]models.Variant, models.MaxVariantsPerProduct+1)
	for i := range manyVariants {
		manyVariants[i] = models.Variant{Price: decimal.NewFromInt(1)}
	}

	tests := []struct {
		name    string
		product models.Product
		wantMsg string
	}{
		{
			name:    "missing title",
			product: models.Product{Title: "  "},
			wantMsg: "title is required",
		},
		{
			name: "too many options",
			product: models.Product{
				Title: "P",
				Options: []models.Option{
					{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"},
				},
			},
			wantMsg: "at most 3 options",
		},
		{
			name:    "too many variants",
			product: models.Product{Title: "P", Variants: manyVariants},
			wantMsg: fmt.Sprintf("at most %d variants", models.MaxVariantsPerProduct),
		},
		{
			name: "duplicate sku",
			product: models.Product{
				Title: "P",
				Variants: []models.Variant{
					{Price: decimal.NewFromInt(1), SKU: strPtr("DUP")},
					{Price: decimal.NewFromInt(2), SKU: strPtr("DUP")},
				},
			},
			wantMsg: `duplicate sku "DUP"`,
		},
		{
			name: "negative price",
			product: models.Product{
				Title:    "P",
				Variants: []models.Variant{{Price: decimal.NewFromInt(-1)}},
			},
			wantMsg: "cannot be negative",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateExport(&tc.product)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestValidateExportAllowsBlankSKUs(t *testing.T) {
	product := models.Product{
		Title: "P",
		Variants: []models.Variant{
			{Price: decimal.NewFromInt(1)},
			{Price: decimal.NewFromInt(2)},
		},
	}
	require.NoError(t, validateExport(&product))
}
