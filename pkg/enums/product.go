package enums

import "fmt"

// ProductStatus mirrors the Shopify product lifecycle states.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
	ProductStatusDraft    ProductStatus = "draft"
)

func (s ProductStatus) String() string {
	return string(s)
}

func ParseProductStatus(value string) (ProductStatus, error) {
	switch ProductStatus(value) {
	case ProductStatusActive, ProductStatusArchived, ProductStatusDraft:
		return ProductStatus(value), nil
	default:
		return "", fmt.Errorf("invalid product status %q", value)
	}
}
