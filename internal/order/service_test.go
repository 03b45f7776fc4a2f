package order

import (
	"context"
	"errors"
	"testing"

	"shopline-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, userID *int, f Filter) ([]*Order, int, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*Order), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int, status Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, id int, status PaymentStatus, reference *string) error {
	args := m.Called(ctx, id, status, reference)
	return args.Error(0)
}

func (m *MockRepository) CancelTx(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetStats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, opts product.GetOptions) (*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, opts product.ListOptions) ([]*product.Product, int, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*product.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, params product.UpdateParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Deactivate(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id, qty int) (*product.Product, error) {
	args := m.Called(ctx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id, qty int) (*product.Product, error) {
	args := m.Called(ctx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func activeProduct(id int, priceCents int64, stock int) *product.Product {
	return &product.Product{
		ID:         id,
		Name:       "Test Product",
		PriceCents: priceCents,
		Stock:      stock,
		Active:     true,
	}
}

// --- Create ---

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, product.GetOptions{ProductID: 1, OnlyActive: true}).
			Return(activeProduct(1, 25_00, 10), nil)
		productRepo.On("GetByID", ctx, product.GetOptions{ProductID: 2, OnlyActive: true}).
			Return(activeProduct(2, 10_00, 5), nil)

		repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o *Order) bool {
			return o.UserID == 7 &&
				o.SubtotalCents == 60_00 &&
				o.ShippingCents == 10_00 &&
				o.TaxCents == 4_80 &&
				o.TotalCents == 74_80 &&
				o.Status == StatusPending &&
				o.PaymentStatus == PaymentPending &&
				len(o.Items) == 2 &&
				o.Items[0].PriceCents == 25_00
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*Order).ID = 42
		}).Return(nil)

		hydrated := &Order{ID: 42, OrderNumber: "ORD-20250101000000-ABCDEF", TotalCents: 74_80}
		repo.On("GetByID", ctx, 42).Return(hydrated, nil)

		o, err := svc.Create(ctx, 7, CreateParams{Items: []CreateItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		}})

		require.NoError(t, err)
		assert.Equal(t, 42, o.ID)
		repo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("EmptyOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		_, err := svc.Create(ctx, 7, CreateParams{})
		assert.ErrorIs(t, err, ErrEmptyOrder)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		_, err := svc.Create(ctx, 7, CreateParams{Items: []CreateItemInput{
			{ProductID: 1, Quantity: 0},
		}})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, mock.Anything).
			Return(nil, product.ErrProductNotFound)

		_, err := svc.Create(ctx, 7, CreateParams{Items: []CreateItemInput{
			{ProductID: 99, Quantity: 1},
		}})
		assert.ErrorIs(t, err, ErrProductNotFound)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, product.GetOptions{ProductID: 1, OnlyActive: true}).
			Return(activeProduct(1, 25_00, 1), nil)

		_, err := svc.Create(ctx, 7, CreateParams{Items: []CreateItemInput{
			{ProductID: 1, Quantity: 3},
		}})

		assert.ErrorIs(t, err, ErrInsufficientStock)
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 1, stockErr.Available)
		assert.Equal(t, 3, stockErr.Requested)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("SecondItemInvalidBlocksAll", func(t *testing.T) {
		// Validation covers every line item before any write.
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, product.GetOptions{ProductID: 1, OnlyActive: true}).
			Return(activeProduct(1, 25_00, 10), nil)
		productRepo.On("GetByID", ctx, product.GetOptions{ProductID: 2, OnlyActive: true}).
			Return(nil, product.ErrProductNotFound)

		_, err := svc.Create(ctx, 7, CreateParams{Items: []CreateItemInput{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 1},
		}})

		assert.ErrorIs(t, err, ErrProductNotFound)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("RetriesOnDuplicateOrderNumber", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, mock.Anything).
			Return(activeProduct(1, 5_00, 10), nil)

		repo.On("CreateOrderTx", ctx, mock.Anything).
			Return(ErrDuplicateOrderNumber).Once()
		repo.On("CreateOrderTx", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*Order).ID = 9
			}).Return(nil).Once()
		repo.On("GetByID", ctx, 9).Return(&Order{ID: 9}, nil)

		o, err := svc.Create(ctx, 7, CreateParams{Items: []CreateItemInput{
			{ProductID: 1, Quantity: 1},
		}})

		require.NoError(t, err)
		assert.Equal(t, 9, o.ID)
		repo.AssertExpectations(t)
	})

	t.Run("TxStockFailurePropagates", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, mock.Anything).
			Return(activeProduct(1, 5_00, 10), nil)

		// A concurrent checkout won the race inside the transaction.
		repo.On("CreateOrderTx", ctx, mock.Anything).
			Return(&InsufficientStockError{ProductID: 1, Available: 0, Requested: 1})

		_, err := svc.Create(ctx, 7, CreateParams{Items: []CreateItemInput{
			{ProductID: 1, Quantity: 1},
		}})

		assert.ErrorIs(t, err, ErrInsufficientStock)
	})
}

// --- Query and status operations ---

func TestService_ListNormalizesPagination(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockProductRepository))

	repo.On("List", ctx, (*int)(nil), Filter{Page: 1, Limit: 20}).
		Return([]*Order{}, 0, nil)

	_, _, err := svc.List(ctx, Filter{Page: -1, Limit: 0})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_ListForUser_CapsLimit(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockProductRepository))

	userID := 3
	repo.On("List", ctx, &userID, Filter{Page: 2, Limit: 100}).
		Return([]*Order{{ID: 1}}, 1, nil)

	orders, total, err := svc.ListForUser(ctx, userID, Filter{Page: 2, Limit: 500})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, total)
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockProductRepository))

	repo.On("UpdateStatus", ctx, 5, StatusShipped).Return(nil)
	repo.On("GetByID", ctx, 5).Return(&Order{ID: 5, Status: StatusShipped}, nil)

	o, err := svc.UpdateStatus(ctx, 5, StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, o.Status)
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockProductRepository))

	repo.On("UpdateStatus", ctx, 404, StatusShipped).Return(ErrOrderNotFound)

	_, err := svc.UpdateStatus(ctx, 404, StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		repo.On("CancelTx", ctx, 8).Return(nil)
		repo.On("GetByID", ctx, 8).Return(&Order{ID: 8, Status: StatusCancelled}, nil)

		o, err := svc.Cancel(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("NotCancellable", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository))

		repo.On("CancelTx", ctx, 8).Return(ErrOrderNotCancellable)

		_, err := svc.Cancel(ctx, 8)
		assert.ErrorIs(t, err, ErrOrderNotCancellable)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestStatus_Cancellable(t *testing.T) {
	assert.True(t, StatusPending.Cancellable())
	assert.True(t, StatusShipped.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("unknown")
	assert.Error(t, err)

	_, err = ParseStatus("Pending")
	assert.Error(t, err, "statuses are case sensitive")
}

func TestInsufficientStockError_Is(t *testing.T) {
	err := &InsufficientStockError{ProductID: 1, Available: 0, Requested: 2}
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrOrderNotFound))
}
