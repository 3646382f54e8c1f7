package enums

import "fmt"

// ValueType describes how an attribute's stored value should be interpreted.
type ValueType string

const (
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeDate    ValueType = "date"
	ValueTypeJSON    ValueType = "json"
)

func (t ValueType) String() string {
	return string(t)
}

func ParseValueType(value string) (ValueType, error) {
	switch ValueType(value) {
	case ValueTypeString, ValueTypeNumber, ValueTypeBoolean, ValueTypeDate, ValueTypeJSON:
		return ValueType(value), nil
	default:
		return "", fmt.Errorf("invalid value type %q", value)
	}
}
