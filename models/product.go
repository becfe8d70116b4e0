package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Gender struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

type Color struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	HexCode string `json:"hex_code"`
}

type Size struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int    `json:"sort_order"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"category_id,omitempty"`
	BrandID     *string   `json:"brand_id,omitempty"`
	GenderID    *string   `json:"gender_id,omitempty"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductVariant struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	SKU       string           `json:"sku"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	ColorID   *string          `json:"color_id,omitempty"`
	SizeID    *string          `json:"size_id,omitempty"`
	InStock   int              `json:"in_stock"`
	Color     *Color           `json:"color,omitempty"`
	Size      *Size            `json:"size,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type ProductImage struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	URL       string  `json:"url"`
	SortOrder int     `json:"sort_order"`
	IsPrimary bool    `json:"is_primary"`
}

// ProductListItem is one row of the catalog listing: the product plus the
// price range and hero image derived from its variants.
type ProductListItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	MinPrice  decimal.Decimal  `json:"min_price"`
	MaxPrice  decimal.Decimal  `json:"max_price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	ImageURL  string           `json:"image_url"`
	CreatedAt time.Time        `json:"created_at"`
}

// ProductDetail is the product page payload.
type ProductDetail struct {
	Product  Product          `json:"product"`
	Variants []ProductVariant `json:"variants"`
	Images   []ProductImage   `json:"images"`
}

// ProductFilter carries the catalog browse filters decoded from the query
// string. Zero values mean "not filtered".
type ProductFilter struct {
	Search     string
	GenderSlug string
	ColorSlug  string
	SizeSlug   string
	Category   string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Sort       string // newest | price_asc | price_desc
	Page       int
	Limit      int
}
