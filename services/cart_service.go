package services

import (
	"context"
	"errors"

	"storefront/cart"
	"storefront/models"
	"storefront/repositories"
)

// CartService is both the cart query service (authoritative loads) and the
// cart mutation service the reconciliation engine submits to.
type CartService struct {
	cartRepo *repositories.CartRepository
}

func NewCartService() *CartService {
	return &CartService{
		cartRepo: repositories.NewCartRepository(),
	}
}

// GetCart loads the authoritative snapshot for a cart identity, or an empty
// cart when the identity is blank or unknown.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID == "" {
		return models.EmptyCart(), nil
	}
	c, err := s.cartRepo.LoadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return models.EmptyCart(), nil
	}
	return c, nil
}

// EnsureCart returns a usable cart id, creating a guest cart when the
// client has none yet or presents one that no longer exists.
func (s *CartService) EnsureCart(ctx context.Context, cartID string) (string, bool, error) {
	if cartID != "" {
		exists, err := s.cartRepo.CartExists(ctx, cartID)
		if err != nil {
			return "", false, err
		}
		if exists {
			return cartID, false, nil
		}
	}
	newID, err := s.cartRepo.CreateGuestCart(ctx)
	if err != nil {
		return "", false, err
	}
	return newID, true, nil
}

// MergeGuestCart folds the guest cart into the user's cart at login and
// returns the user cart id. Runs to completion before the merged cart is
// treated as authoritative.
func (s *CartService) MergeGuestCart(ctx context.Context, guestCartID, userID string) (string, error) {
	return s.cartRepo.MergeGuestCart(ctx, guestCartID, userID)
}

// PersistAdd implements cart.Submitter. The store merges by variant, so the
// returned id is the line the quantity landed on.
func (s *CartService) PersistAdd(ctx context.Context, identity, productID, variantID string, quantity int) (string, error) {
	return s.cartRepo.AddItem(ctx, identity, variantID, quantity)
}

// PersistSetQuantity implements cart.Submitter; quantity at or below zero
// deletes the line.
func (s *CartService) PersistSetQuantity(ctx context.Context, identity, lineID string, quantity int) error {
	err := s.cartRepo.SetItemQuantity(ctx, identity, lineID, quantity)
	if errors.Is(err, repositories.ErrItemNotFound) {
		return cart.ErrLineNotFound
	}
	return err
}

// PersistRemove implements cart.Submitter. Removing an absent line is safe.
func (s *CartService) PersistRemove(ctx context.Context, identity, lineID string) error {
	return s.cartRepo.RemoveItem(ctx, identity, lineID)
}
