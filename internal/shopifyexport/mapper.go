package shopifyexport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lmorandi/catalog-admin-backend/pkg/db/models"
	"github.com/lmorandi/catalog-admin-backend/pkg/enums"
	"github.com/lmorandi/catalog-admin-backend/pkg/errors"
	"github.com/lmorandi/catalog-admin-backend/pkg/shopify"
)

// validateExport rejects products the Admin REST API would refuse outright.
func validateExport(product *models.Product) error {
	if strings.TrimSpace(product.Title) == "" {
		return errors.New(errors.CodeValidation, "product title is required for export")
	}
	if len(product.Options) > models.MaxOptionsPerProduct {
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("shopify supports at most %d options", models.MaxOptionsPerProduct))
	}
	if len(product.Variants) > models.MaxVariantsPerProduct {
		return errors.New(errors.CodeValidation,
			fmt.Sprintf("shopify supports at most %d variants", models.MaxVariantsPerProduct))
	}
	seen := make(map[string]struct{}, len(product.Variants))
	for _, variant := range product.Variants {
		if variant.Price.IsNegative() {
			return errors.New(errors.CodeValidation, "variant price cannot be negative")
		}
		if variant.SKU == nil || *variant.SKU == "" {
			continue
		}
		if _, dup := seen[*variant.SKU]; dup {
			return errors.New(errors.CodeValidation,
				fmt.Sprintf("duplicate sku %q across variants", *variant.SKU))
		}
		seen[*variant.SKU] = struct{}{}
	}
	return nil
}

// exportPayload maps a fully loaded product to the Admin REST product shape.
// Variant rows keep the load order so remote ids can be written back by index.
func exportPayload(product *models.Product) shopify.Product {
	payload := shopify.Product{
		Title:      product.Title,
		BodyHTML:   deref(product.Description),
		Vendor:     deref(product.Vendor),
		Type:       deref(product.ProductType),
		Tags:       deref(product.Tags),
		Handle:     product.Handle,
		Status:     string(product.Status),
		Options:    optionPayloads(product.Options),
		Variants:   variantPayloads(product.Variants),
		Images:     imagePayloads(product.Images),
		Metafields: metafieldPayloads(product.Attributes),
	}
	if payload.Type == "" && product.Category != nil {
		payload.Type = deref(product.Category.ShopifyProductType)
	}
	return payload
}

func optionPayloads(options []models.Option) []shopify.Option {
	if len(options) == 0 {
		return nil
	}
	sorted := make([]models.Option, len(options))
	copy(sorted, options)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	out := make([]shopify.Option, 0, len(sorted))
	for _, option := range sorted {
		out = append(out, shopify.Option{
			Name:     option.Name,
			Position: option.Position,
			Values:   option.Values,
		})
	}
	return out
}

func variantPayloads(variants []models.Variant) []shopify.Variant {
	if len(variants) == 0 {
		// Shopify requires at least one variant per product.
		return []shopify.Variant{{
			Price:               "0.00",
			InventoryManagement: trackedManagement(enums.InventoryManagementManual),
			InventoryPolicy:     "deny",
			FulfillmentService:  "manual",
			RequiresShipping:    true,
			Taxable:             true,
		}}
	}

	out := make([]shopify.Variant, 0, len(variants))
	for i, variant := range variants {
		row := shopify.Variant{
			Price:               variant.Price.StringFixed(2),
			SKU:                 deref(variant.SKU),
			Barcode:             deref(variant.Barcode),
			InventoryQuantity:   variant.InventoryQuantity,
			InventoryManagement: trackedManagement(variant.InventoryManagement),
			InventoryPolicy:     "deny",
			FulfillmentService:  "manual",
			RequiresShipping:    true,
			Taxable:             true,
		}
		if variant.ShopifyID != nil {
			row.ID = *variant.ShopifyID
		}
		if variant.CompareAtPrice != nil {
			compare := variant.CompareAtPrice.StringFixed(2)
			row.CompareAtPrice = &compare
		}
		if variant.Weight != nil {
			weight := variant.Weight.InexactFloat64()
			row.Weight = &weight
			row.WeightUnit = string(variant.WeightUnit)
		}
		applyOptionSlots(&row, variant, i)
		out = append(out, row)
	}
	return out
}

// applyOptionSlots sets option1..option3 from the variant's position-sorted
// selections. Variants without selections still need a distinct option1 value
// or Shopify rejects the batch as duplicates.
func applyOptionSlots(row *shopify.Variant, variant models.Variant, index int) {
	links := make([]models.VariantOption, len(variant.VariantOptions))
	copy(links, variant.VariantOptions)
	sort.Slice(links, func(i, j int) bool { return links[i].Position < links[j].Position })

	slots := []**string{&row.Option1, &row.Option2, &row.Option3}
	if len(links) == 0 {
		fallback := deref(variant.SKU)
		if fallback == "" {
			fallback = fmt.Sprintf("Variant %d", index+1)
		}
		row.Option1 = &fallback
		return
	}
	for i, link := range links {
		if i >= len(slots) {
			break
		}
		value := link.OptionValue
		*slots[i] = &value
	}
}

func imagePayloads(images []models.Image) []shopify.Image {
	if len(images) == 0 {
		return nil
	}
	sorted := make([]models.Image, len(images))
	copy(sorted, images)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	out := make([]shopify.Image, 0, len(sorted))
	for _, image := range sorted {
		out = append(out, shopify.Image{
			Src:      image.Src,
			Alt:      deref(image.AltText),
			Position: image.Position,
		})
	}
	return out
}

func metafieldPayloads(attributes []models.Attribute) []shopify.Metafield {
	if len(attributes) == 0 {
		return nil
	}
	out := make([]shopify.Metafield, 0, len(attributes))
	for _, attribute := range attributes {
		out = append(out, shopify.Metafield{
			Namespace: attribute.Namespace,
			Key:       attribute.Key,
			Value:     deref(attribute.Value),
			Type:      metafieldType(attribute.ValueType),
		})
	}
	return out
}

// trackedManagement translates the local inventory mode. Manual tracking maps
// to shopify-managed stock so exported quantities stay visible; "none" leaves
// the variant untracked.
func trackedManagement(management enums.InventoryManagement) *string {
	if management == enums.InventoryManagementNone {
		return nil
	}
	tracked := string(enums.InventoryManagementShopify)
	return &tracked
}

func metafieldType(valueType enums.ValueType) string {
	switch valueType {
	case enums.ValueTypeNumber:
		return "number_integer"
	case enums.ValueTypeBoolean:
		return "boolean"
	case enums.ValueTypeDate:
		return "date"
	case enums.ValueTypeJSON:
		return "json"
	default:
		return "single_line_text_field"
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
