package products

import (
	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	"github.com/lmorandi/catalog-admin-backend/pkg/pagination"
)

// ListFilters narrows the product list query.
type ListFilters struct {
	Status     string
	CategoryID *int64
	Search     string
}

// ProductList is a page of products with pagination metadata.
type ProductList struct {
	Products []models.Product `json:"products"`
	Meta     pagination.Meta  `json:"pagination"`
}

// CreateInput creates a product. Handle is slugged from the title when blank.
type CreateInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Vendor      *string `json:"vendor,omitempty"`
	ProductType *string `json:"product_type,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	Handle      string  `json:"handle,omitempty" validate:"omitempty,max=255"`
	Status      string  `json:"status,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateInput patches a product. Nil fields are left untouched.
type UpdateInput struct {
	ProductID   int64
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	Vendor      *string `json:"vendor,omitempty"`
	ProductType *string `json:"product_type,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	Handle      *string `json:"handle,omitempty" validate:"omitempty,min=1,max=255"`
	Status      *string `json:"status,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
}
