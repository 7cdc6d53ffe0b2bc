package service

import (
	"context"
	"fmt"
	"time"

	"quickbite/internal/model"
	"quickbite/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart lines and total.
func (s *cartService) GetCart(ctx context.Context, userID string) (*model.CartResponse, error) {
	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	total, err := s.cartRepo.Total(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart total")
		return nil, fmt.Errorf("failed to get cart total: %w", err)
	}

	if lines == nil {
		lines = []model.CartLine{}
	}

	return &model.CartResponse{
		Items: lines,
		Total: model.Round2(total),
	}, nil
}

// AddItem adds a product to the cart. The unit price is captured from the
// catalogue at this moment; a later catalogue price change does not touch
// existing lines.
func (s *cartService) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if productID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Product ID is required")
	}
	if quantity < 1 {
		s.logger.Warn().
			Str("user_id", userID).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("invalid quantity")
		return model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to look up product")
		return fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	if !product.Available {
		s.logger.Warn().Str("product_id", productID).Msg("product unavailable")
		return model.NewDomainError(model.ErrCodeProductUnavailable,
			fmt.Sprintf("Product %q is not available", product.Name))
	}

	now := time.Now()
	line := model.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.cartRepo.Upsert(ctx, line); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("cart item added")

	return nil
}

// UpdateItem sets a cart line's quantity. Quantity zero removes the line.
func (s *cartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	if productID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Product ID is required")
	}
	if quantity < 0 {
		s.logger.Warn().
			Str("user_id", userID).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("invalid quantity")
		return model.ErrInvalidQuantity
	}

	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	found, err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
	if err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	return nil
}

// RemoveItem removes a product from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Product ID is required")
	}

	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// Clear removes all of the user's cart lines.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("cart cleared")

	return nil
}
