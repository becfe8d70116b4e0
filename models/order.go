package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          *string         `json:"user_id,omitempty"`
	GuestEmail      *string         `json:"guest_email,omitempty"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingPrice   decimal.Decimal `json:"shipping_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryMethod  string          `json:"delivery_method"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryAddress string          `json:"delivery_address"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	// Nil once the variant has been deleted from the catalog; the name and
	// price snapshots below keep the history readable.
	VariantID       *string         `json:"product_variant_id,omitempty"`
	ProductName     string          `json:"product_name"`
	VariantName     string          `json:"variant_name"`
	ImageURL        string          `json:"image_url"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}
