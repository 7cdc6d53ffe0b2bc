package repository

import (
	"context"
	"time"

	"quickbite/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	// GetLines retrieves a user's cart lines with joined product details,
	// oldest first.
	GetLines(ctx context.Context, userID string) ([]model.CartLine, error)

	// Upsert inserts a cart line, or increments the quantity of the
	// existing (user, product) line. The existing line keeps its original
	// unit price snapshot.
	Upsert(ctx context.Context, line model.CartLine) error

	// UpdateQuantity sets the quantity of an existing line. It reports
	// whether the line existed.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (bool, error)

	// Remove deletes a single line. Removing an absent line is a no-op.
	Remove(ctx context.Context, userID, productID string) error

	// Clear deletes all of a user's cart lines.
	Clear(ctx context.Context, userID string) error

	// ClearTx deletes all of a user's cart lines within a transaction.
	ClearTx(ctx context.Context, tx pgx.Tx, userID string) error

	// Total returns the sum of quantity x unit price over the user's
	// lines; zero for an empty cart.
	Total(ctx context.Context, userID string) (float64, error)
}

// OrderRepository defines the interface for order, order item and payment
// data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// CreatePayment inserts the order's payment record within the provided transaction.
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error

	// OrderNumberExists reports whether an order already uses the number.
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)

	// TransactionRefExists reports whether a payment already uses the reference.
	TransactionRefExists(ctx context.Context, ref string) (bool, error)

	// GetByID retrieves an order with its items and payment record.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, *model.Payment, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// ListAll retrieves all orders, newest first, optionally bounded to a
	// creation date range.
	ListAll(ctx context.Context, from, to *time.Time) ([]model.Order, error)

	// ListPayments retrieves all payment records, newest first.
	ListPayments(ctx context.Context) ([]model.Payment, error)

	// UpdateStatus sets an order's status. It reports whether the order existed.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)

	// SalesReport aggregates order count and revenue per day over the range.
	SalesReport(ctx context.Context, from, to time.Time) ([]model.SalesReportRow, error)
}
