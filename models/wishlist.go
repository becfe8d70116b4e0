package models

import "time"

type WishlistItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ProductID   string    `json:"product_id"`
	VariantID   *string   `json:"variant_id,omitempty"`
	ProductName string    `json:"product_name"`
	ImageURL    string    `json:"image_url"`
	AddedAt     time.Time `json:"added_at"`
}
