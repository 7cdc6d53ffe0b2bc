package repository

import (
	"context"
	"fmt"

	"quickbite/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetLines retrieves a user's cart lines with joined product details.
func (r *cartRepository) GetLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.unit_price,
		       ci.created_at, ci.updated_at, p.name, p.available
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.UnitPrice,
			&l.CreatedAt, &l.UpdatedAt, &l.ProductName, &l.Available)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// Upsert inserts a cart line or increments the existing (user, product)
// line. The conflict branch keeps the original unit price snapshot.
func (r *cartRepository) Upsert(ctx context.Context, line model.CartLine) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, line.ID, line.UserID, line.ProductID,
		line.Quantity, line.UnitPrice, line.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", line.UserID).
			Str("product_id", line.ProductID).
			Msg("failed to upsert cart line")
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}

	r.logger.Debug().
		Str("user_id", line.UserID).
		Str("product_id", line.ProductID).
		Int("quantity", line.Quantity).
		Msg("cart line upserted")

	return nil
}

// UpdateQuantity sets the quantity of an existing line.
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (bool, error) {
	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`

	tag, err := r.pool.Exec(ctx, query, quantity, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to update cart line quantity")
		return false, fmt.Errorf("failed to update cart line quantity: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Remove deletes a single line.
func (r *cartRepository) Remove(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	_, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	return nil
}

// Clear deletes all of a user's cart lines.
func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// ClearTx deletes all of a user's cart lines within a transaction.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart in transaction")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().Str("user_id", userID).Msg("cart cleared")

	return nil
}

// Total returns the sum of quantity x unit price over the user's lines.
func (r *cartRepository) Total(ctx context.Context, userID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(quantity * unit_price), 0)
		FROM cart_items
		WHERE user_id = $1
	`

	var total float64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to compute cart total")
		return 0, fmt.Errorf("failed to compute cart total: %w", err)
	}

	return total, nil
}
