package service

import (
	"context"
	"testing"
	"time"

	"quickbite/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockCartRepository is a mock implementation of CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockCartRepository) Upsert(ctx context.Context, line model.CartLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (bool, error) {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID string) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) Total(ctx context.Context, userID string) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func TestCartService_AddItem_Success(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	productRepo.On("GetByID", ctx, "P001").Return(&model.Product{
		ID: "P001", Name: "Margherita Pizza", Price: 9.50, Available: true, CreatedAt: time.Now(),
	}, nil)

	cartRepo.On("Upsert", ctx, mock.MatchedBy(func(line model.CartLine) bool {
		return line.UserID == "user-1" &&
			line.ProductID == "P001" &&
			line.Quantity == 2 &&
			line.UnitPrice == 9.50
	})).Return(nil)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	err := svc.AddItem(ctx, "user-1", "P001", 2)
	require.NoError(t, err)

	cartRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	productRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	err := svc.AddItem(ctx, "user-1", "missing", 1)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	cartRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_ProductUnavailable(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	productRepo.On("GetByID", ctx, "P002").Return(&model.Product{
		ID: "P002", Name: "Sushi Platter", Price: 22.00, Available: false,
	}, nil)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	err := svc.AddItem(ctx, "user-1", "P002", 1)
	require.Error(t, err)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeProductUnavailable, domainErr.Code)
	assert.Contains(t, domainErr.Message, "Sushi Platter")

	cartRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	for _, qty := range []int{0, -1, -100} {
		err := svc.AddItem(ctx, "user-1", "P001", qty)
		assert.ErrorIs(t, err, model.ErrInvalidQuantity, "quantity %d", qty)
	}

	productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCartService_MissingProductID(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	var domainErr *model.DomainError
	for name, err := range map[string]error{
		"add":    svc.AddItem(ctx, "user-1", "", 1),
		"update": svc.UpdateItem(ctx, "user-1", "", 2),
		"remove": svc.RemoveItem(ctx, "user-1", ""),
	} {
		require.ErrorAs(t, err, &domainErr, name)
		assert.Equal(t, model.ErrCodeMissingField, domainErr.Code, name)
	}

	productRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCartService_UpdateItem_ZeroRemoves(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	cartRepo.On("Remove", ctx, "user-1", "P001").Return(nil)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	err := svc.UpdateItem(ctx, "user-1", "P001", 0)
	require.NoError(t, err)

	cartRepo.AssertCalled(t, "Remove", ctx, "user-1", "P001")
	cartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_UpdateItem_NegativeRejected(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	err := svc.UpdateItem(ctx, "user-1", "P001", -3)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestCartService_UpdateItem_LineNotFound(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	cartRepo.On("UpdateQuantity", ctx, "user-1", "P001", 5).Return(false, nil)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	err := svc.UpdateItem(ctx, "user-1", "P001", 5)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	lines := []model.CartLine{
		{ProductID: "P001", ProductName: "Margherita Pizza", Quantity: 2, UnitPrice: 10.50, Available: true},
		{ProductID: "P002", ProductName: "Garlic Bread", Quantity: 1, UnitPrice: 3.00, Available: true},
	}
	cartRepo.On("GetLines", ctx, "user-1").Return(lines, nil)
	cartRepo.On("Total", ctx, "user-1").Return(24.00, nil)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Len(t, cart.Items, 2)
	assert.InDelta(t, 24.00, cart.Total, 1e-9)
}

func TestCartService_GetCart_Empty(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	cartRepo.On("GetLines", ctx, "user-1").Return(nil, nil)
	cartRepo.On("Total", ctx, "user-1").Return(0.0, nil)

	svc := NewCartService(cartRepo, productRepo, zerolog.Nop())

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}
