package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront/models"
)

// ErrItemNotFound is returned when a mutation targets a cart item the store
// does not hold (stale id, or an item scoped to another cart).
var ErrItemNotFound = errors.New("cart item not found")

const guestSessionTTL = 30 * 24 * time.Hour

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// CartExists reports whether a cart row exists for the id.
func (r *CartRepository) CartExists(ctx context.Context, cartID string) (bool, error) {
	var id string
	err := models.DB.QueryRow(ctx, `SELECT id FROM carts WHERE id = $1`, cartID).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateGuestCart creates a guest session row and an attached cart, and
// returns the new cart id. Guest carts are created lazily on the first write.
func (r *CartRepository) CreateGuestCart(ctx context.Context) (string, error) {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	sessionToken := uuid.NewString()
	expiresAt := time.Now().Add(guestSessionTTL)

	var guestID string
	err = tx.QueryRow(ctx,
		`INSERT INTO guests (session_token, expires_at) VALUES ($1, $2) RETURNING id`,
		sessionToken, expiresAt,
	).Scan(&guestID)
	if err != nil {
		return "", err
	}

	var cartID string
	err = tx.QueryRow(ctx,
		`INSERT INTO carts (guest_id) VALUES ($1) RETURNING id`,
		guestID,
	).Scan(&cartID)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return cartID, nil
}

// GetOrCreateUserCart returns the user's cart id, creating the cart row on
// first use.
func (r *CartRepository) GetOrCreateUserCart(ctx context.Context, userID string) (string, error) {
	var cartID string
	err := models.DB.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if err != pgx.ErrNoRows {
		return "", err
	}

	err = models.DB.QueryRow(ctx,
		`INSERT INTO carts (user_id) VALUES ($1) RETURNING id`,
		userID,
	).Scan(&cartID)
	return cartID, err
}

// LoadCart builds the authoritative snapshot: cart lines joined with current
// catalog name, price, stock and hero image, newest line first. Returns nil
// when no cart exists for the id.
func (r *CartRepository) LoadCart(ctx context.Context, cartID string) (*models.Cart, error) {
	exists, err := r.CartExists(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := models.DB.Query(ctx, `
		SELECT
			ci.id,
			pv.product_id,
			ci.product_variant_id,
			ci.quantity,
			pv.price::text,
			pv.sale_price::text,
			pv.in_stock,
			p.name,
			c.name,
			s.name,
			(
				SELECT pi.url FROM product_images pi
				WHERE pi.product_id = p.id
				  AND (pi.variant_id = pv.id OR pi.variant_id IS NULL)
				ORDER BY pi.is_primary DESC, pi.sort_order ASC
				LIMIT 1
			)
		FROM cart_items ci
		JOIN product_variants pv ON ci.product_variant_id = pv.id
		JOIN products p ON pv.product_id = p.id
		LEFT JOIN colors c ON pv.color_id = c.id
		LEFT JOIN sizes s ON pv.size_id = s.id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at DESC, ci.id DESC`,
		cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &models.Cart{ID: cartID, Lines: []models.CartLine{}}
	for rows.Next() {
		var line models.CartLine
		var price string
		var salePrice *string
		var imageURL *string

		err := rows.Scan(
			&line.ID, &line.ProductID, &line.VariantID, &line.Quantity,
			&price, &salePrice, &line.MaxStock,
			&line.ProductName, &line.ColorName, &line.SizeName, &imageURL,
		)
		if err != nil {
			return nil, err
		}

		line.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		if salePrice != nil {
			sp, err := decimal.NewFromString(*salePrice)
			if err != nil {
				return nil, err
			}
			line.SalePrice = &sp
		}

		line.VariantName = models.VariantDisplayName(line.ColorName, line.SizeName)
		line.ImageURL = "/placeholder.jpg"
		if imageURL != nil {
			line.ImageURL = *imageURL
		}

		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cart.RecomputeTotals()
	return cart, nil
}

// AddItem inserts a line or, when the variant is already in the cart, adds
// the quantity onto the existing line. Returns the persisted line id either
// way, so retries and duplicate adds are merge-safe.
func (r *CartRepository) AddItem(ctx context.Context, cartID, variantID string, quantity int) (string, error) {
	var itemID string
	err := models.DB.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_variant_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING id`,
		cartID, variantID, quantity,
	).Scan(&itemID)
	return itemID, err
}

// SetItemQuantity sets an absolute quantity; zero or below deletes the line.
// The item must belong to the cart.
func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	if quantity <= 0 {
		tag, err := models.DB.Exec(ctx,
			`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`,
			itemID, cartID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrItemNotFound
		}
		return nil
	}

	tag, err := models.DB.Exec(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = now() WHERE id = $2 AND cart_id = $3`,
		quantity, itemID, cartID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// RemoveItem deletes a line scoped to the cart. Deleting an absent line is
// not an error.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	_, err := models.DB.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`,
		itemID, cartID)
	return err
}

// MergeGuestCart folds a guest cart into the user's cart in one transaction:
// quantities are summed on variant collisions, then the guest cart and its
// session row are deleted. Running it twice is harmless; the second run
// finds no guest cart. Returns the user cart id.
func (r *CartRepository) MergeGuestCart(ctx context.Context, guestCartID, userID string) (string, error) {
	userCartID, err := r.GetOrCreateUserCart(ctx, userID)
	if err != nil {
		return "", err
	}

	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var guestID *string
	err = tx.QueryRow(ctx,
		`SELECT guest_id FROM carts WHERE id = $1 AND guest_id IS NOT NULL`,
		guestCartID,
	).Scan(&guestID)
	if err == pgx.ErrNoRows {
		// Already merged, or never was a guest cart.
		return userCartID, nil
	}
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cart_items (cart_id, product_variant_id, quantity)
		SELECT $1, product_variant_id, quantity FROM cart_items WHERE cart_id = $2
		ON CONFLICT (cart_id, product_variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`,
		userCartID, guestCartID)
	if err != nil {
		return "", err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, guestCartID); err != nil {
		return "", err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, guestCartID); err != nil {
		return "", err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM guests WHERE id = $1`, *guestID); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return userCartID, nil
}
