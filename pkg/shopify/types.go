package shopify

// Wire types for the Admin REST products API. Fields mirror the subset of the
// payload this tool writes; everything else is left to Shopify defaults.

type Product struct {
	ID         int64       `json:"id,omitempty"`
	Title      string      `json:"title"`
	BodyHTML   string      `json:"body_html,omitempty"`
	Vendor     string      `json:"vendor,omitempty"`
	Type       string      `json:"product_type,omitempty"`
	Tags       string      `json:"tags,omitempty"`
	Handle     string      `json:"handle,omitempty"`
	Status     string      `json:"status,omitempty"`
	Variants   []Variant   `json:"variants,omitempty"`
	Options    []Option    `json:"options,omitempty"`
	Images     []Image     `json:"images,omitempty"`
	Metafields []Metafield `json:"metafields,omitempty"`
}

type Variant struct {
	ID                  int64    `json:"id,omitempty"`
	Price               string   `json:"price"`
	CompareAtPrice      *string  `json:"compare_at_price,omitempty"`
	SKU                 string   `json:"sku,omitempty"`
	Barcode             string   `json:"barcode,omitempty"`
	InventoryQuantity   int      `json:"inventory_quantity"`
	InventoryManagement *string  `json:"inventory_management,omitempty"`
	InventoryPolicy     string   `json:"inventory_policy,omitempty"`
	FulfillmentService  string   `json:"fulfillment_service,omitempty"`
	RequiresShipping    bool     `json:"requires_shipping"`
	Taxable             bool     `json:"taxable"`
	Weight              *float64 `json:"weight,omitempty"`
	WeightUnit          string   `json:"weight_unit,omitempty"`
	Option1             *string  `json:"option1,omitempty"`
	Option2             *string  `json:"option2,omitempty"`
	Option3             *string  `json:"option3,omitempty"`
}

type Option struct {
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Values   []string `json:"values"`
}

type Image struct {
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
	Position int    `json:"position,omitempty"`
}

type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type Shop struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Email  string `json:"email"`
	Plan   string `json:"plan_name"`
}

// ProductResponse is the envelope Shopify returns on product writes.
type ProductResponse struct {
	Product Product `json:"product"`
}

type shopResponse struct {
	Shop Shop `json:"shop"`
}

type productRequest struct {
	Product Product `json:"product"`
}
