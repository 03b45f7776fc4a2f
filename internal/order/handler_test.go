package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userID int, params CreateParams) (*Order, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) List(ctx context.Context, f Filter) ([]*Order, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*Order), args.Int(1), args.Error(2)
}

func (m *MockService) ListForUser(ctx context.Context, userID int, f Filter) ([]*Order, int, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*Order), args.Int(1), args.Error(2)
}

func (m *MockService) GetByID(ctx context.Context, id int) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) UpdateStatus(ctx context.Context, id int, status Status) (*Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) UpdatePaymentStatus(ctx context.Context, id int, status PaymentStatus, reference *string) (*Order, error) {
	args := m.Called(ctx, id, status, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) Cancel(ctx context.Context, id int) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) GetStats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

func setupRouter(t *testing.T, svc Service) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func bearerToken(t *testing.T, userID int, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   "buyer@example.com",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Create(t *testing.T) {
	validBody := gin.H{
		"items": []gin.H{{"productId": 1, "quantity": 2}},
	}

	t.Run("Created", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("Create", mock.Anything, 7, mock.MatchedBy(func(p CreateParams) bool {
			return len(p.Items) == 1 && p.Items[0].ProductID == 1 && p.Items[0].Quantity == 2
		})).Return(&Order{
			ID:          42,
			OrderNumber: "ORD-20250101120000-ABCDEF",
			UserID:      7,
			TotalCents:  74_80,
			Status:      StatusPending,
		}, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/orders", bearerToken(t, 7, "CUSTOMER"), validBody)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ORD-20250101120000-ABCDEF", resp.OrderNumber)
		assert.Equal(t, 74.80, resp.TotalAmount)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		w := doRequest(router, http.MethodPost, "/api/v1/orders", "", validBody)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		w := doRequest(router, http.MethodPost, "/api/v1/orders",
			bearerToken(t, 7, "CUSTOMER"), gin.H{"items": []gin.H{}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("Create", mock.Anything, 7, mock.Anything).
			Return(nil, &InsufficientStockError{ProductID: 1, ProductName: "Widget", Available: 1, Requested: 2})

		w := doRequest(router, http.MethodPost, "/api/v1/orders", bearerToken(t, 7, "CUSTOMER"), validBody)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "insufficient stock")
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("Create", mock.Anything, 7, mock.Anything).
			Return(nil, ErrProductNotFound)

		w := doRequest(router, http.MethodPost, "/api/v1/orders", bearerToken(t, 7, "CUSTOMER"), validBody)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_GetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("GetByID", mock.Anything, 42).
			Return(&Order{ID: 42, OrderNumber: "ORD-1"}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/orders/42", bearerToken(t, 7, "CUSTOMER"), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("GetByID", mock.Anything, 404).Return(nil, ErrOrderNotFound)

		w := doRequest(router, http.MethodGet, "/api/v1/orders/404", bearerToken(t, 7, "CUSTOMER"), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		w := doRequest(router, http.MethodGet, "/api/v1/orders/abc", bearerToken(t, 7, "CUSTOMER"), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetByOrderNumber(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(t, svc)

	svc.On("GetByOrderNumber", mock.Anything, "ORD-20250101120000-ABCDEF").
		Return(&Order{ID: 42, OrderNumber: "ORD-20250101120000-ABCDEF"}, nil)

	w := doRequest(router, http.MethodGet,
		"/api/v1/orders/number/ORD-20250101120000-ABCDEF",
		bearerToken(t, 7, "CUSTOMER"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_ListMine(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(t, svc)

	svc.On("ListForUser", mock.Anything, 7, mock.MatchedBy(func(f Filter) bool {
		return f.Status != nil && *f.Status == StatusPending && f.Page == 1 && f.Limit == 20
	})).Return([]*Order{{ID: 1}}, 1, nil)

	w := doRequest(router, http.MethodGet,
		"/api/v1/orders/my?status=pending",
		bearerToken(t, 7, "CUSTOMER"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestHandler_List_InvalidStatus(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(t, svc)

	w := doRequest(router, http.MethodGet,
		"/api/v1/orders?status=bogus",
		bearerToken(t, 7, "CUSTOMER"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestHandler_UpdateStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("UpdateStatus", mock.Anything, 42, StatusShipped).
			Return(&Order{ID: 42, Status: StatusShipped}, nil)

		w := doRequest(router, http.MethodPatch, "/api/v1/orders/42/status",
			bearerToken(t, 1, "ADMIN"), gin.H{"status": "shipped"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		w := doRequest(router, http.MethodPatch, "/api/v1/orders/42/status",
			bearerToken(t, 1, "ADMIN"), gin.H{"status": "teleported"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandler_UpdatePaymentStatus(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(t, svc)

	ref := "inv-9"
	svc.On("UpdatePaymentStatus", mock.Anything, 42, PaymentPaid, &ref).
		Return(&Order{ID: 42, PaymentStatus: PaymentPaid}, nil)

	w := doRequest(router, http.MethodPatch, "/api/v1/orders/42/payment-status",
		bearerToken(t, 1, "ADMIN"),
		gin.H{"paymentStatus": "paid", "paymentReference": "inv-9"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Cancel(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("Cancel", mock.Anything, 42).
			Return(&Order{ID: 42, Status: StatusCancelled}, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/orders/42/cancel",
			bearerToken(t, 7, "CUSTOMER"), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cancelled")
	})

	t.Run("NotCancellable", func(t *testing.T) {
		svc := new(MockService)
		router := setupRouter(t, svc)

		svc.On("Cancel", mock.Anything, 42).Return(nil, ErrOrderNotCancellable)

		w := doRequest(router, http.MethodPost, "/api/v1/orders/42/cancel",
			bearerToken(t, 7, "CUSTOMER"), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Stats(t *testing.T) {
	svc := new(MockService)
	router := setupRouter(t, svc)

	svc.On("GetStats", mock.Anything).Return(&Stats{
		TotalOrders:       3,
		TotalRevenueCents: 300_00,
		AverageOrderCents: 100_00,
		CountByStatus:     map[Status]int{StatusPending: 2, StatusDelivered: 1},
	}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/orders/stats",
		bearerToken(t, 1, "ADMIN"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalOrders":3`)
}
