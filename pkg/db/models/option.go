package models

import (
	"time"

	dbtypes "github.com/lmorandi/catalog-admin-backend/pkg/db/types"
)

// MaxOptionsPerProduct caps how many option axes a product can declare,
// matching the Shopify limit of three.
const MaxOptionsPerProduct = 3

// Option is a named axis of customization (e.g. "Color") with an ordered list
// of allowed values. Name is unique per product; position runs 1..3.
type Option struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64              `gorm:"column:product_id;not null;index"`
	Name      string             `gorm:"column:name;not null"`
	Position  int                `gorm:"column:position;not null;default:1"`
	Values    dbtypes.StringList `gorm:"column:values;type:text;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
