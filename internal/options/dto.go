package options

// CreateInput declares a new option axis on a product. Position is assigned
// automatically from the number of existing options.
type CreateInput struct {
	ProductID int64
	Name      string   `json:"name" validate:"required,min=1,max=255"`
	Values    []string `json:"values" validate:"required,min=1,dive,required"`
}

// UpdateInput patches an option. Nil fields are left untouched; a non-nil
// Values slice replaces the whole list.
type UpdateInput struct {
	ProductID int64
	OptionID  int64
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Values    []string `json:"values,omitempty" validate:"omitempty,min=1,dive,required"`
}
