package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront/models"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateOrderFromCart places an order for the given cart snapshot in a
// single transaction: stock is checked and decremented under row locks, the
// order and its price-at-purchase line snapshots are inserted, and the cart
// is emptied. The order's totals must already be set by the caller.
func (r *OrderRepository) CreateOrderFromCart(ctx context.Context, cart *models.Cart, order *models.Order) error {
	tx, err := models.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, line := range cart.Lines {
		var inStock int
		err := tx.QueryRow(ctx,
			`SELECT in_stock FROM product_variants WHERE id = $1 FOR UPDATE`,
			line.VariantID,
		).Scan(&inStock)
		if err != nil {
			return fmt.Errorf("lock stock for %s: %w", line.VariantID, err)
		}
		if inStock < line.Quantity {
			return fmt.Errorf("%w for %s", ErrInsufficientStock, line.ProductName)
		}
	}

	order.OrderNumber = newOrderNumber()
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, guest_email, status, subtotal,
			shipping_price, total_amount, delivery_method, payment_method, delivery_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		order.OrderNumber, order.UserID, order.GuestEmail, order.Status,
		order.Subtotal.StringFixed(2), order.ShippingPrice.StringFixed(2),
		order.TotalAmount.StringFixed(2), order.DeliveryMethod,
		order.PaymentMethod, order.DeliveryAddress,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return err
	}

	for _, line := range cart.Lines {
		variantID := line.VariantID
		item := models.OrderItem{
			OrderID:         order.ID,
			VariantID:       &variantID,
			ProductName:     line.ProductName,
			VariantName:     line.VariantName,
			ImageURL:        line.ImageURL,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.EffectivePrice(),
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_variant_id, product_name,
				variant_name, image_url, quantity, price_at_purchase)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			item.OrderID, item.VariantID, item.ProductName, item.VariantName,
			item.ImageURL, item.Quantity, item.PriceAtPurchase.StringFixed(2),
		).Scan(&item.ID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE product_variants SET in_stock = in_stock - $1 WHERE id = $2`,
			line.Quantity, line.VariantID)
		if err != nil {
			return err
		}

		order.Items = append(order.Items, item)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var subtotal, shipping, total string

	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.GuestEmail, &o.Status,
		&subtotal, &shipping, &total, &o.DeliveryMethod, &o.PaymentMethod,
		&o.DeliveryAddress, &o.CreatedAt)
	if err != nil {
		return nil, err
	}

	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, err
	}
	if o.ShippingPrice, err = decimal.NewFromString(shipping); err != nil {
		return nil, err
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return &o, nil
}

const orderColumns = `id, order_number, user_id, guest_email, status, subtotal::text,
	shipping_price::text, total_amount::text, delivery_method, payment_method,
	delivery_address, created_at`

// GetOrderByID loads one order with its items, scoped to the owning user.
func (r *OrderRepository) GetOrderByID(ctx context.Context, orderID, userID string) (*models.Order, error) {
	row := models.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`,
		orderID, userID)

	order, err := scanOrder(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetUserOrders returns the user's order history, newest first.
func (r *OrderRepository) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := models.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, order *models.Order) error {
	rows, err := models.DB.Query(ctx, `
		SELECT id, order_id, product_variant_id, product_name, variant_name,
			image_url, quantity, price_at_purchase::text
		FROM order_items WHERE order_id = $1`,
		order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		var price string

		err := rows.Scan(&item.ID, &item.OrderID, &item.VariantID, &item.ProductName,
			&item.VariantName, &item.ImageURL, &item.Quantity, &price)
		if err != nil {
			return err
		}
		if item.PriceAtPurchase, err = decimal.NewFromString(price); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}
