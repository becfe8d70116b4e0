package models

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,min=3"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`

	// Display details so the cart can render before the server round trip
	// finishes. Authoritative values replace these on the next reload.
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	ProductName string           `json:"product_name" binding:"required"`
	VariantName string           `json:"variant_name"`
	ImageURL    string           `json:"image_url"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	GuestEmail      string `json:"guest_email"`
	DeliveryMethod  string `json:"delivery_method" binding:"required,oneof=standard express"`
	PaymentMethod   string `json:"payment_method" binding:"required,oneof=card cod"`
	DeliveryAddress string `json:"delivery_address" binding:"required"`
}

type WishlistRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	VariantID *string `json:"variant_id"`
}
