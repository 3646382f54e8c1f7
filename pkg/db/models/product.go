package models

import (
	"time"

	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
)

// Product is the canonical catalog listing. Options, variants, images, and
// attributes all hang off it and are removed with it.
type Product struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string              `gorm:"column:title;not null;index"`
	Description *string             `gorm:"column:description"`
	Vendor      *string             `gorm:"column:vendor"`
	ProductType *string             `gorm:"column:product_type"`
	Tags        *string             `gorm:"column:tags"`
	Handle      string              `gorm:"column:handle;not null;uniqueIndex"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:draft;index"`
	ShopifyID   *int64              `gorm:"column:shopify_id;uniqueIndex"`
	CategoryID  *int64              `gorm:"column:category_id;index"`

	Category   *Category   `gorm:"foreignKey:CategoryID"`
	Options    []Option    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants   []Variant   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images     []Image     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Attributes []Attribute `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
