package repository

import (
	"context"
	"fmt"
	"time"

	"quickbite/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, order_number, user_id, delivery_address, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query, order.ID, order.OrderNumber, order.UserID,
		order.DeliveryAddress, order.TotalAmount, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_time, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity,
			item.PriceAtTime, item.Subtotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created")

	return nil
}

// CreatePayment inserts the order's payment record within the provided transaction.
func (r *orderRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, user_id, amount, method, status, transaction_ref, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query, payment.ID, payment.OrderID, payment.UserID,
		payment.Amount, payment.Method, payment.Status, payment.TransactionRef,
		payment.PaidAt, payment.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", payment.OrderID.String()).
			Str("transaction_ref", payment.TransactionRef).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.logger.Debug().
		Str("order_id", payment.OrderID.String()).
		Str("transaction_ref", payment.TransactionRef).
		Msg("payment created")

	return nil
}

// OrderNumberExists reports whether an order already uses the number.
func (r *orderRepository) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, orderNumber).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("order_number", orderNumber).Msg("failed to check order number")
		return false, fmt.Errorf("failed to check order number: %w", err)
	}
	return exists, nil
}

// TransactionRefExists reports whether a payment already uses the reference.
func (r *orderRepository) TransactionRefExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE transaction_ref = $1)`, ref).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("transaction_ref", ref).Msg("failed to check transaction ref")
		return false, fmt.Errorf("failed to check transaction ref: %w", err)
	}
	return exists, nil
}

// GetByID retrieves an order with its items and payment record.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, *model.Payment, error) {
	orderQuery := `
		SELECT id, order_number, user_id, delivery_address, total_amount, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.DeliveryAddress,
		&order.TotalAmount,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, price_at_time, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order items")
		return nil, nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.PriceAtTime, &item.Subtotal)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	paymentQuery := `
		SELECT id, order_id, user_id, amount, method, status, transaction_ref, paid_at, created_at
		FROM payments
		WHERE order_id = $1
	`

	var payment model.Payment
	err = r.pool.QueryRow(ctx, paymentQuery, id).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.TransactionRef,
		&payment.PaidAt,
		&payment.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &order, items, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query payment")
		return nil, nil, nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return &order, items, &payment, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	query := `
		SELECT id, order_number, user_id, delivery_address, total_amount, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows, r.logger)
}

// ListAll retrieves all orders, optionally bounded to a creation date range.
func (r *orderRepository) ListAll(ctx context.Context, from, to *time.Time) ([]model.Order, error) {
	query := `
		SELECT id, order_number, user_id, delivery_address, total_amount, status, created_at, updated_at
		FROM orders
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows, r.logger)
}

// ListPayments retrieves all payment records, newest first.
func (r *orderRepository) ListPayments(ctx context.Context) ([]model.Payment, error) {
	query := `
		SELECT id, order_id, user_id, amount, method, status, transaction_ref, paid_at, created_at
		FROM payments
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query payments")
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		err := rows.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Method,
			&p.Status, &p.TransactionRef, &p.PaidAt, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan payment row")
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating payment rows")
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

// UpdateStatus sets an order's status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SalesReport aggregates order count and revenue per day over the range.
func (r *orderRepository) SalesReport(ctx context.Context, from, to time.Time) ([]model.SalesReportRow, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day,
		       COUNT(*) AS order_count,
		       COALESCE(SUM(total_amount), 0) AS revenue
		FROM orders
		WHERE created_at >= $1 AND created_at < $2 AND status <> 'cancelled'
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query sales report")
		return nil, fmt.Errorf("failed to query sales report: %w", err)
	}
	defer rows.Close()

	var report []model.SalesReportRow
	for rows.Next() {
		var row model.SalesReportRow
		if err := rows.Scan(&row.Day, &row.OrderCount, &row.Revenue); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan sales report row")
			return nil, fmt.Errorf("failed to scan sales report: %w", err)
		}
		report = append(report, row)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating sales report rows")
		return nil, fmt.Errorf("error iterating sales report: %w", err)
	}

	return report, nil
}

func scanOrders(rows pgx.Rows, logger zerolog.Logger) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.DeliveryAddress,
			&o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
