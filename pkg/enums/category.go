package enums

import "fmt"

// CategoryStatus gates whether a category is offered when editing products.
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

func (s CategoryStatus) String() string {
	return string(s)
}

func ParseCategoryStatus(value string) (CategoryStatus, error) {
	switch CategoryStatus(value) {
	case CategoryStatusActive, CategoryStatusInactive:
		return CategoryStatus(value), nil
	default:
		return "", fmt.Errorf("invalid category status %q", value)
	}
}

// FieldType enumerates the custom field kinds a category can declare.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeText    FieldType = "text"
	FieldTypeSelect  FieldType = "select"
)

func (t FieldType) String() string {
	return string(t)
}

func ParseFieldType(value string) (FieldType, error) {
	switch FieldType(value) {
	case FieldTypeString, FieldTypeNumber, FieldTypeBoolean, FieldTypeDate, FieldTypeText, FieldTypeSelect:
		return FieldType(value), nil
	default:
		return "", fmt.Errorf("invalid field type %q", value)
	}
}
