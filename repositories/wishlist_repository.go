package repositories

import (
	"context"

	"storefront/models"
)

type WishlistRepository struct{}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{}
}

// Add inserts a wishlist entry; adding an already-wishlisted product is a
// no-op.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string, variantID *string) error {
	_, err := models.DB.Exec(ctx, `
		INSERT INTO wishlists (user_id, product_id, variant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id, variant_id) DO NOTHING`,
		userID, productID, variantID)
	return err
}

// Remove deletes the entry for the product; when variantID is nil every
// variant entry for the product goes.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string, variantID *string) error {
	if variantID != nil {
		_, err := models.DB.Exec(ctx,
			`DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2 AND variant_id = $3`,
			userID, productID, *variantID)
		return err
	}
	_, err := models.DB.Exec(ctx,
		`DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	return err
}

func (r *WishlistRepository) GetByUser(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	rows, err := models.DB.Query(ctx, `
		SELECT
			w.id, w.user_id, w.product_id, w.variant_id, p.name,
			COALESCE((
				SELECT pi.url FROM product_images pi
				WHERE pi.product_id = p.id
				ORDER BY pi.is_primary DESC, pi.sort_order ASC
				LIMIT 1
			), '/placeholder.jpg'),
			w.added_at
		FROM wishlists w
		JOIN products p ON w.product_id = p.id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.VariantID,
			&item.ProductName, &item.ImageURL, &item.AddedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
