package service

import (
	"context"
	"time"

	"quickbite/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue reads.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines operations for cart management.
type CartService interface {
	// GetCart retrieves the user's cart lines and total.
	GetCart(ctx context.Context, userID string) (*model.CartResponse, error)

	// AddItem adds a product to the cart, incrementing quantity if the
	// product is already present.
	AddItem(ctx context.Context, userID, productID string, quantity int) error

	// UpdateItem sets a cart line's quantity. Quantity zero removes the line.
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error

	// RemoveItem removes a product from the cart.
	RemoveItem(ctx context.Context, userID, productID string) error

	// Clear removes all of the user's cart lines.
	Clear(ctx context.Context, userID string) error
}

// OrderService defines operations for checkout and order management.
type OrderService interface {
	// PlaceOrder converts the user's cart into an order, its items and a
	// payment record, atomically, clearing the cart on success.
	PlaceOrder(ctx context.Context, userID, deliveryAddress, paymentMethod string) (*model.OrderConfirmation, error)

	// GetByID retrieves an order with its items and payment record.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)

	// ListByUser retrieves a user's order history.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves all orders, optionally bounded to a date range.
	ListAll(ctx context.Context, from, to *time.Time) ([]model.Order, error)

	// ListPayments retrieves all payment records.
	ListPayments(ctx context.Context) ([]model.Payment, error)

	// UpdateStatus sets an order's status to one of the allowed values.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// SalesReport aggregates order count and revenue per day over the range.
	SalesReport(ctx context.Context, from, to time.Time) ([]model.SalesReportRow, error)
}
