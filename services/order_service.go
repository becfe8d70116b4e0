package services

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"storefront/models"
	"storefront/repositories"
)

var shippingPrices = map[string]decimal.Decimal{
	"standard": decimal.NewFromInt(5),
	"express":  decimal.NewFromInt(15),
}

type OrderService struct {
	orderRepo *repositories.OrderRepository
	cartRepo  *repositories.CartRepository
	userRepo  *repositories.UserRepository
	email     *models.EmailService
}

func NewOrderService() *OrderService {
	emailService, err := models.NewEmailService()
	if err != nil {
		log.Println("Email disabled:", err)
		emailService = nil
	}

	return &OrderService{
		orderRepo: repositories.NewOrderRepository(),
		cartRepo:  repositories.NewCartRepository(),
		userRepo:  repositories.NewUserRepository(),
		email:     emailService,
	}
}

// Checkout places an order from the authoritative cart, never the optimistic
// snapshot: prices, stock and quantities all come from the store at this
// moment.
func (s *OrderService) Checkout(ctx context.Context, cartID string, userID *string, req models.CheckoutRequest) (*models.Order, error) {
	cartSnapshot, err := s.cartRepo.LoadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cartSnapshot == nil || len(cartSnapshot.Lines) == 0 {
		return nil, errors.New("cart is empty")
	}

	var email string
	var guestEmail *string
	if userID != nil {
		user, err := s.userRepo.FindByID(ctx, *userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.New("user not found")
		}
		email = user.Email
	} else {
		if req.GuestEmail == "" {
			return nil, errors.New("email is required for guest checkout")
		}
		email = req.GuestEmail
		guestEmail = &req.GuestEmail
	}

	shipping, ok := shippingPrices[req.DeliveryMethod]
	if !ok {
		return nil, errors.New("unknown delivery method")
	}

	order := &models.Order{
		UserID:          userID,
		GuestEmail:      guestEmail,
		Status:          "pending",
		Subtotal:        cartSnapshot.Subtotal,
		ShippingPrice:   shipping,
		TotalAmount:     cartSnapshot.Subtotal.Add(shipping),
		DeliveryMethod:  req.DeliveryMethod,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
	}

	if err := s.orderRepo.CreateOrderFromCart(ctx, cartSnapshot, order); err != nil {
		return nil, err
	}

	if s.email != nil {
		if err := s.email.SendOrderConfirmationEmail(email, order.OrderNumber, order.TotalAmount); err != nil {
			log.Println("Failed to send order confirmation:", err)
		}
	}

	return order, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.GetUserOrders(ctx, userID)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	return s.orderRepo.GetOrderByID(ctx, orderID, userID)
}
