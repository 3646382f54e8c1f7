package models

import (
	"time"

	dbtypes "github.com/lmorandi/catalog-admin-backend/pkg/db/types"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
)

// Category groups products and declares the custom fields they can carry.
type Category struct {
	ID                 int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Name               string              `gorm:"column:name;not null;uniqueIndex"`
	Description        *string             `gorm:"column:description"`
	ShopifyProductType *string             `gorm:"column:shopify_product_type"`
	Status             enums.CategoryStatus `gorm:"column:status;not null;default:active"`
	Fields             []CategoryField     `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Products           []Product           `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// CategoryField is one typed custom field declared by a category.
type CategoryField struct {
	ID           int64              `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID   int64              `gorm:"column:category_id;not null;index"`
	Name         string             `gorm:"column:name;not null"`
	FieldType    enums.FieldType    `gorm:"column:field_type;not null;default:string"`
	Required     bool               `gorm:"column:required;not null;default:false"`
	Position     int                `gorm:"column:position;not null;default:0"`
	Options      dbtypes.StringList `gorm:"column:options;type:text"`
	DefaultValue *string            `gorm:"column:default_value"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
