package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartLine is one product variant entry in a cart. While an add is still
// waiting on the server the line carries a client-generated temporary id;
// reconciling against a server snapshot is what swaps it for the real one.
type CartLine struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"product_id"`
	VariantID   string           `json:"variant_id"`
	ProductName string           `json:"product_name"`
	VariantName string           `json:"variant_name"`
	ColorName   *string          `json:"color_name,omitempty"`
	SizeName    *string          `json:"size_name,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	ImageURL    string           `json:"image_url"`
	Quantity    int              `json:"quantity"`
	MaxStock    int              `json:"max_stock"`
}

// EffectivePrice is the sale price when one is set, the regular price otherwise.
func (l CartLine) EffectivePrice() decimal.Decimal {
	if l.SalePrice != nil {
		return *l.SalePrice
	}
	return l.Price
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the aggregate handed to the presentation layer. Subtotal and
// TotalQuantity are always derived from Lines, never patched in place.
type Cart struct {
	ID            string          `json:"id"`
	Lines         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalQuantity int             `json:"total_quantity"`
}

func EmptyCart() *Cart {
	return &Cart{
		ID:       "",
		Lines:    []CartLine{},
		Subtotal: decimal.Zero,
	}
}

// RecomputeTotals rebuilds Subtotal and TotalQuantity from the current line
// collection.
func (c *Cart) RecomputeTotals() {
	subtotal := decimal.Zero
	qty := 0
	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.LineTotal())
		qty += line.Quantity
	}
	c.Subtotal = subtotal
	c.TotalQuantity = qty
}

// VariantDisplayName joins the color and size names, e.g. "Space Grey / M".
func VariantDisplayName(colorName, sizeName *string) string {
	parts := []string{}
	if colorName != nil && *colorName != "" {
		parts = append(parts, *colorName)
	}
	if sizeName != nil && *sizeName != "" {
		parts = append(parts, *sizeName)
	}
	if len(parts) == 0 {
		return "Standard"
	}
	return strings.Join(parts, " / ")
}
