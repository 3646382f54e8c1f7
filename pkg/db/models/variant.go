package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
)

// MaxVariantsPerProduct caps how many variants a product can hold, matching
// the Shopify REST limit of one hundred.
const MaxVariantsPerProduct = 100

// Variant is one purchasable SKU of a product. Its combinatorial identity is
// the unordered set of its VariantOption rows.
type Variant struct {
	ID                  int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID           int64                     `gorm:"column:product_id;not null;index"`
	SKU                 *string                   `gorm:"column:sku;uniqueIndex"`
	Price               decimal.Decimal           `gorm:"column:price;type:decimal(10,2);not null"`
	CompareAtPrice      *decimal.Decimal          `gorm:"column:compare_at_price;type:decimal(10,2)"`
	Barcode             *string                   `gorm:"column:barcode"`
	InventoryQuantity   int                       `gorm:"column:inventory_quantity;not null;default:0"`
	InventoryManagement enums.InventoryManagement `gorm:"column:inventory_management;not null;default:manual"`
	ShopifyID           *int64                    `gorm:"column:shopify_id;uniqueIndex"`
	Weight              *decimal.Decimal          `gorm:"column:weight;type:decimal(8,3)"`
	WeightUnit          enums.WeightUnit          `gorm:"column:weight_unit;default:kg"`

	VariantOptions []VariantOption `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Images         []Image         `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	Attributes     []Attribute     `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// VariantOption binds a variant to one chosen value of one option. Rows are
// written only as part of variant creation, never standalone.
type VariantOption struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VariantID   int64     `gorm:"column:variant_id;not null;uniqueIndex:uniq_variant_option;uniqueIndex:uniq_variant_position"`
	OptionID    int64     `gorm:"column:option_id;not null;index;uniqueIndex:uniq_variant_option"`
	OptionValue string    `gorm:"column:option_value;not null"`
	Position    int       `gorm:"column:position;not null;default:1;uniqueIndex:uniq_variant_position"`
	Option      *Option   `gorm:"foreignKey:OptionID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
