package models

import (
	"time"

	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
)

// Attribute is a namespaced key/value pair attached to a product or, when
// VariantID is set, to one of its variants. Exported to Shopify as a metafield.
type Attribute struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64           `gorm:"column:product_id;not null;index;uniqueIndex:uniq_attribute_per_entity"`
	VariantID *int64          `gorm:"column:variant_id;index;uniqueIndex:uniq_attribute_per_entity"`
	Category  *string         `gorm:"column:category;default:custom"`
	Key       string          `gorm:"column:key;not null;uniqueIndex:uniq_attribute_per_entity"`
	Value     *string         `gorm:"column:value"`
	ValueType enums.ValueType `gorm:"column:value_type;not null;default:string"`
	Namespace string          `gorm:"column:namespace;not null;default:custom;uniqueIndex:uniq_attribute_per_entity"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
