package variants

import (
	"github.com/shopspring/decimal"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
)

// SelectionInput is one option/value pair supplied by the caller when creating
// a single variant by hand.
type SelectionInput struct {
	OptionID int64  `json:"option_id" validate:"required,gt=0"`
	Value    string `json:"value" validate:"required"`
}

// CreateInput creates one variant with an explicit combination.
type CreateInput struct {
	ProductID           int64
	Selections          []SelectionInput
	SKU                 *string
	Barcode             *string
	Price               decimal.Decimal
	CompareAtPrice      *decimal.Decimal
	InventoryQuantity   int
	InventoryManagement enums.InventoryManagement
	Weight              *decimal.Decimal
	WeightUnit          enums.WeightUnit
}

// VariantDefaults seeds the scalar fields of every variant minted by a
// generate call.
type VariantDefaults struct {
	Price               decimal.Decimal
	CompareAtPrice      *decimal.Decimal
	SKUPrefix           string
	InventoryQuantity   int
	InventoryManagement enums.InventoryManagement
	Weight              *decimal.Decimal
	WeightUnit          enums.WeightUnit
}

// GenerateMode selects between expanding the whole option matrix and
// materializing a caller-chosen subset.
type GenerateMode string

const (
	GenerateModeAll       GenerateMode = "all"
	GenerateModeSelective GenerateMode = "selective"
)

// CombinationInput is one caller-chosen combination for selective generation.
// Nil override fields fall back to the call's defaults.
type CombinationInput struct {
	Selections        []SelectionInput `json:"options" validate:"required,min=1,dive"`
	SKU               *string          `json:"sku,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price,omitempty"`
	InventoryQuantity *int             `json:"inventory_quantity,omitempty"`
}

// GenerateInput expands option combinations into variants. Mode "all" walks
// the full Cartesian product; "selective" only attempts the combinations the
// caller supplies.
type GenerateInput struct {
	ProductID    int64
	Mode         GenerateMode
	Combinations []CombinationInput
	Defaults     VariantDefaults
}

// GenerateResult reports what a generate call did. Skipped counts the
// combinations that already had a variant.
type GenerateResult struct {
	Created []models.Variant `json:"created"`
	Skipped int              `json:"skipped"`
	Total   int              `json:"total"`
}

// VariantUpdate is one row of a bulk update. Nil fields are left untouched.
type VariantUpdate struct {
	ID                  int64            `json:"id" validate:"required,gt=0"`
	Price               *decimal.Decimal `json:"price,omitempty"`
	CompareAtPrice      *decimal.Decimal `json:"compare_at_price,omitempty"`
	SKU                 *string          `json:"sku,omitempty"`
	Barcode             *string          `json:"barcode,omitempty"`
	InventoryQuantity   *int             `json:"inventory_quantity,omitempty"`
	InventoryManagement *string          `json:"inventory_management,omitempty"`
	Weight              *decimal.Decimal `json:"weight,omitempty"`
	WeightUnit          *string          `json:"weight_unit,omitempty"`
}

// BulkUpdateInput applies per-variant patches atomically. Any invalid row
// aborts the whole batch.
type BulkUpdateInput struct {
	ProductID int64
	Updates   []VariantUpdate
}

// AvailableCombination is a combination that no existing variant occupies.
type AvailableCombination struct {
	Title      string      `json:"title"`
	Selections []Selection `json:"selections"`
}
