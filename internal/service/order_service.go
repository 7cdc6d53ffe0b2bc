package service

import (
	"context"
	"fmt"
	"time"

	"quickbite/internal/lock"
	"quickbite/internal/model"
	"quickbite/internal/reference"
	"quickbite/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService. PlaceOrder is the one write path
// with multi-statement atomicity: order header, items, payment and cart
// clearing either all commit or all roll back.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	checkout    lock.CheckoutLock
	orderNumGen *reference.Generator
	txRefGen    *reference.Generator
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	checkout lock.CheckoutLock,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		checkout:    checkout,
		orderNumGen: reference.NewGenerator(reference.OrderPrefix, orderRepo.OrderNumberExists),
		txRefGen:    reference.NewGenerator(reference.PaymentPrefix, orderRepo.TransactionRefExists),
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder converts the user's cart into an order, its items and a
// payment record, atomically, clearing the cart on success. A per-user
// lock serializes concurrent checkouts so a double-submit cannot place
// the same cart twice.
func (s *orderService) PlaceOrder(ctx context.Context, userID, deliveryAddress, paymentMethod string) (*model.OrderConfirmation, error) {
	if deliveryAddress == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Delivery address is required")
	}
	if !model.ValidPaymentMethod(paymentMethod) {
		return nil, model.ErrInvalidPayment
	}

	acquired, err := s.checkout.Acquire(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to acquire checkout lock")
		return nil, fmt.Errorf("failed to start checkout: %w", err)
	}
	if !acquired {
		return nil, model.ErrCheckoutInProgress
	}
	defer func() {
		if err := s.checkout.Release(ctx, userID); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to release checkout lock")
		}
	}()

	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	// Re-check every cart line against the live catalogue. A product
	// pulled or disabled after it was added fails the whole checkout,
	// naming the product.
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to validate cart products")
		return nil, fmt.Errorf("failed to validate cart products: %w", err)
	}
	catalogue := make(map[string]model.Product, len(products))
	for _, p := range products {
		catalogue[p.ID] = p
	}
	for _, line := range lines {
		product, ok := catalogue[line.ProductID]
		if !ok || !product.Available {
			s.logger.Warn().
				Str("user_id", userID).
				Str("product_id", line.ProductID).
				Msg("cart references unavailable product")
			return nil, model.NewDomainError(model.ErrCodeProductUnavailable,
				fmt.Sprintf("Product %q is no longer available", line.ProductName))
		}
	}

	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	total = model.Round2(total)
	if total <= 0 {
		return nil, model.ErrInvalidTotal
	}

	orderNumber, err := s.orderNumGen.Next(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to generate order number")
		return nil, model.ErrOrderCreationFailed
	}

	transactionRef, err := s.txRefGen.Next(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to generate transaction ref")
		return nil, model.ErrOrderCreationFailed
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, model.ErrOrderCreationFailed
	}

	// Roll back everything on any error; the cart stays intact.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		UserID:          userID,
		DeliveryAddress: deliveryAddress,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, model.ErrOrderCreationFailed
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			PriceAtTime: line.UnitPrice,
			Subtotal:    line.Subtotal(),
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, model.ErrOrderCreationFailed
	}

	payment := &model.Payment{
		ID:             uuid.New(),
		OrderID:        order.ID,
		UserID:         userID,
		Amount:         total,
		Method:         paymentMethod,
		Status:         model.PaymentStatusPending,
		TransactionRef: transactionRef,
		CreatedAt:      now,
	}
	// Non-cash methods are recorded as paid immediately; there is no
	// gateway confirmation behind this.
	if paymentMethod != model.PaymentMethodCash {
		payment.Status = model.PaymentStatusPaid
		paidAt := now
		payment.PaidAt = &paidAt
	}

	if err = s.orderRepo.CreatePayment(ctx, tx, payment); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create payment")
		return nil, model.ErrOrderCreationFailed
	}

	if err = s.cartRepo.ClearTx(ctx, tx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return nil, model.ErrOrderCreationFailed
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, model.ErrOrderCreationFailed
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("user_id", userID).
		Float64("total", total).
		Int("item_count", len(items)).
		Msg("order placed")

	return &model.OrderConfirmation{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
	}, nil
}

// GetByID retrieves an order with its items and payment record.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	order, items, payment, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	return &model.OrderDetail{
		Order:   *order,
		Items:   items,
		Payment: payment,
	}, nil
}

// ListByUser retrieves a user's order history.
func (s *orderService) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list user orders")
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

// ListAll retrieves all orders, optionally bounded to a date range.
func (s *orderService) ListAll(ctx context.Context, from, to *time.Time) ([]model.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListPayments retrieves all payment records.
func (s *orderService) ListPayments(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.orderRepo.ListPayments(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list payments")
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// UpdateStatus sets an order's status to one of the allowed values.
// Membership in the set is the only validation performed.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !model.ValidOrderStatus(status) {
		return model.ErrInvalidStatus
	}

	found, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if !found {
		return model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", status).
		Msg("order status updated")

	return nil
}

// SalesReport aggregates order count and revenue per day over the range.
func (s *orderService) SalesReport(ctx context.Context, from, to time.Time) ([]model.SalesReportRow, error) {
	if !to.After(from) {
		return nil, model.NewDomainError(model.ErrCodeInvalidDate, "Report range end must be after start")
	}

	report, err := s.orderRepo.SalesReport(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to build sales report")
		return nil, fmt.Errorf("failed to build sales report: %w", err)
	}
	return report, nil
}
