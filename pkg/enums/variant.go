package enums

import "fmt"

// WeightUnit is the shipping weight unit attached to a variant.
type WeightUnit string

const (
	WeightUnitGram     WeightUnit = "g"
	WeightUnitKilogram WeightUnit = "kg"
	WeightUnitOunce    WeightUnit = "oz"
	WeightUnitPound    WeightUnit = "lb"
)

func (u WeightUnit) String() string {
	return string(u)
}

func ParseWeightUnit(value string) (WeightUnit, error) {
	switch WeightUnit(value) {
	case WeightUnitGram, WeightUnitKilogram, WeightUnitOunce, WeightUnitPound:
		return WeightUnit(value), nil
	default:
		return "", fmt.Errorf("invalid weight unit %q", value)
	}
}

// InventoryManagement names the system tracking a variant's stock.
type InventoryManagement string

const (
	InventoryManagementShopify InventoryManagement = "shopify"
	InventoryManagementManual  InventoryManagement = "manual"
	InventoryManagementNone    InventoryManagement = "none"
)

func (m InventoryManagement) String() string {
	return string(m)
}

func ParseInventoryManagement(value string) (InventoryManagement, error) {
	switch InventoryManagement(value) {
	case InventoryManagementShopify, InventoryManagementManual, InventoryManagementNone:
		return InventoryManagement(value), nil
	default:
		return "", fmt.Errorf("invalid inventory management %q", value)
	}
}
