package categories

// CreateInput declares a new category.
type CreateInput struct {
	Name               string  `json:"name" validate:"required,min=1,max=255"`
	Description        *string `json:"description,omitempty"`
	ShopifyProductType *string `json:"shopify_product_type,omitempty"`
	Status             string  `json:"status,omitempty"`
}

// UpdateInput patches a category. Nil fields are left untouched.
type UpdateInput struct {
	CategoryID         int64
	Name               *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description        *string `json:"description,omitempty"`
	ShopifyProductType *string `json:"shopify_product_type,omitempty"`
	Status             *string `json:"status,omitempty"`
}

// FieldInput declares one typed custom field. Options are required when the
// field type is select.
type FieldInput struct {
	CategoryID   int64
	Name         string   `json:"name" validate:"required,min=1,max=255"`
	FieldType    string   `json:"field_type" validate:"required"`
	Required     bool     `json:"required"`
	Options      []string `json:"options,omitempty"`
	DefaultValue *string  `json:"default_value,omitempty"`
}

// FieldUpdateInput patches a custom field. Nil fields are left untouched; a
// non-nil Options slice replaces the whole list.
type FieldUpdateInput struct {
	CategoryID   int64
	FieldID      int64
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	FieldType    *string  `json:"field_type,omitempty"`
	Required     *bool    `json:"required,omitempty"`
	Options      []string `json:"options,omitempty"`
	DefaultValue *string  `json:"default_value,omitempty"`
}
