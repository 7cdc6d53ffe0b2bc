package integration

import (
	"context"
	"testing"
	"time"

	"quickbite/internal/model"
	"quickbite/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewCartRepository(testDB.Pool, logger)

	ctx := context.Background()

	newLine := func(userID, productID string, quantity int, price float64) model.CartLine {
		now := time.Now()
		return model.CartLine{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: price,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("Upsert inserts then increments quantity", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P001", 2, 5.00)))
		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P001", 3, 5.00)))

		lines, err := repo.GetLines(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("Upsert keeps the original price snapshot", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P001", 1, 5.00)))
		// A later add at a different catalogue price must not rewrite
		// the line's snapshot.
		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P001", 1, 7.50)))

		lines, err := repo.GetLines(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, 5.00, lines[0].UnitPrice)
	})

	t.Run("GetLines joins product name and availability", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P004", 1, 22.00)))

		lines, err := repo.GetLines(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "Sushi Platter", lines[0].ProductName)
		assert.False(t, lines[0].Available)
	})

	t.Run("Carts are isolated per user", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P001", 1, 5.00)))
		require.NoError(t, repo.Upsert(ctx, newLine("user-2", "P002", 1, 10.50)))

		lines, err := repo.GetLines(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "P001", lines[0].ProductID)
	})

	t.Run("UpdateQuantity reports missing lines", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		found, err := repo.UpdateQuantity(ctx, "user-1", "P001", 3)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P001", 1, 5.00)))
		found, err = repo.UpdateQuantity(ctx, "user-1", "P001", 3)
		require.NoError(t, err)
		assert.True(t, found)

		lines, err := repo.GetLines(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 3, lines[0].Quantity)
	})

	t.Run("Total sums quantity times unit price", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P002", 2, 10.50)))
		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P003", 1, 3.00)))

		total, err := repo.Total(ctx, "user-1")
		require.NoError(t, err)
		assert.InDelta(t, 24.00, total, 1e-9)
	})

	t.Run("Total is zero for an empty cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		total, err := repo.Total(ctx, "user-1")
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("Remove and Clear", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P001", 1, 5.00)))
		require.NoError(t, repo.Upsert(ctx, newLine("user-1", "P002", 1, 10.50)))

		require.NoError(t, repo.Remove(ctx, "user-1", "P001"))
		lines, err := repo.GetLines(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, lines, 1)

		require.NoError(t, repo.Clear(ctx, "user-1"))
		lines, err = repo.GetLines(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(testDB.Pool, logger)

	ctx := context.Background()

	placeOrder := func(t *testing.T, userID, orderNumber, txRef string, total float64) uuid.UUID {
		t.Helper()

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		now := time.Now()
		orderID := uuid.New()
		order := &model.Order{
			ID:              orderID,
			OrderNumber:     orderNumber,
			UserID:          userID,
			DeliveryAddress: "12 Baker Street",
			TotalAmount:     total,
			Status:          model.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		require.NoError(t, repo.CreateOrder(ctx, tx, order))

		items := []model.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: "P001", Quantity: 2, PriceAtTime: 5.00, Subtotal: 10.00},
			{ID: uuid.New(), OrderID: orderID, ProductID: "P003", Quantity: 1, PriceAtTime: 3.00, Subtotal: 3.00},
		}
		require.NoError(t, repo.CreateOrderItems(ctx, tx, items))

		payment := &model.Payment{
			ID:             uuid.New(),
			OrderID:        orderID,
			UserID:         userID,
			Amount:         total,
			Method:         model.PaymentMethodCash,
			Status:         model.PaymentStatusPending,
			TransactionRef: txRef,
			CreatedAt:      now,
		}
		require.NoError(t, repo.CreatePayment(ctx, tx, payment))
		require.NoError(t, tx.Commit(ctx))

		return orderID
	}

	t.Run("Full order round trip", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		orderID := placeOrder(t, "user-1", "ORD20250817AAAA", "TX20250817AAAA", 13.00)

		order, items, payment, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, "ORD20250817AAAA", order.OrderNumber)
		assert.Len(t, items, 2)
		require.NotNil(t, payment)
		assert.Equal(t, "TX20250817AAAA", payment.TransactionRef)
		assert.Equal(t, model.PaymentStatusPending, payment.Status)
	})

	t.Run("Rollback leaves nothing behind", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)

		now := time.Now()
		orderID := uuid.New()
		order := &model.Order{
			ID:              orderID,
			OrderNumber:     "ORD20250817BBBB",
			UserID:          "user-1",
			DeliveryAddress: "12 Baker Street",
			TotalAmount:     10.00,
			Status:          model.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Rollback(ctx))

		retrieved, _, _, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, retrieved)

		exists, err := repo.OrderNumberExists(ctx, "ORD20250817BBBB")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Existence checks see committed references", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		placeOrder(t, "user-1", "ORD20250817CCCC", "TX20250817CCCC", 13.00)

		exists, err := repo.OrderNumberExists(ctx, "ORD20250817CCCC")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.TransactionRefExists(ctx, "TX20250817CCCC")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.OrderNumberExists(ctx, "ORD20250817ZZZZ")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ListByUser returns only the user's orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		placeOrder(t, "user-1", "ORD20250817DDDD", "TX20250817DDDD", 13.00)
		placeOrder(t, "user-2", "ORD20250817EEEE", "TX20250817EEEE", 13.00)

		orders, err := repo.ListByUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD20250817DDDD", orders[0].OrderNumber)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		orderID := placeOrder(t, "user-1", "ORD20250817FFFF", "TX20250817FFFF", 13.00)

		found, err := repo.UpdateStatus(ctx, orderID, model.OrderStatusPreparing)
		require.NoError(t, err)
		assert.True(t, found)

		order, _, _, err := repo.GetByID(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPreparing, order.Status)

		found, err = repo.UpdateStatus(ctx, uuid.New(), model.OrderStatusPreparing)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("SalesReport aggregates committed orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		placeOrder(t, "user-1", "ORD20250817GGGG", "TX20250817GGGG", 13.00)
		placeOrder(t, "user-2", "ORD20250817HHHH", "TX20250817HHHH", 24.00)

		from := time.Now().AddDate(0, 0, -1)
		to := time.Now().AddDate(0, 0, 1)

		report, err := repo.SalesReport(ctx, from, to)
		require.NoError(t, err)
		require.Len(t, report, 1)
		assert.Equal(t, 2, report[0].OrderCount)
		assert.InDelta(t, 37.00, report[0].Revenue, 1e-9)
	})
}
