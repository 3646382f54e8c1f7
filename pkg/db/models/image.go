package models

import "time"

// Image stores metadata for a hosted product or variant image.
type Image struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64     `gorm:"column:product_id;not null;index"`
	VariantID *int64    `gorm:"column:variant_id;index"`
	Src       string    `gorm:"column:src;not null"`
	AltText   *string   `gorm:"column:alt_text"`
	Position  int       `gorm:"column:position;not null;default:1"`
	Width     *int      `gorm:"column:width"`
	Height    *int      `gorm:"column:height"`
	Size      *int      `gorm:"column:size"`
	Filename  *string   `gorm:"column:filename"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
