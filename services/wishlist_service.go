package services

import (
	"context"

	"storefront/models"
	"storefront/repositories"
)

type WishlistService struct {
	wishlistRepo *repositories.WishlistRepository
}

func NewWishlistService() *WishlistService {
	return &WishlistService{
		wishlistRepo: repositories.NewWishlistRepository(),
	}
}

func (s *WishlistService) Add(ctx context.Context, userID string, req models.WishlistRequest) error {
	return s.wishlistRepo.Add(ctx, userID, req.ProductID, req.VariantID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string, variantID *string) error {
	return s.wishlistRepo.Remove(ctx, userID, productID, variantID)
}

func (s *WishlistService) GetByUser(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	return s.wishlistRepo.GetByUser(ctx, userID)
}
