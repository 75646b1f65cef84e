package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tldev36/ECommerce-sub001/internal/domain"
	"github.com/tldev36/ECommerce-sub001/internal/mocks"
	"github.com/tldev36/ECommerce-sub001/internal/repository"
	"github.com/tldev36/ECommerce-sub001/internal/services"
)

type testEnv struct {
	router *gin.Engine
	tx     *mocks.MockOrderTx
	repo   *mocks.MockOrderRepository
}

func newTestEnv(store repository.TxStore) *testEnv {
	gin.SetMode(gin.TestMode)

	tx := new(mocks.MockOrderTx)
	repo := new(mocks.MockOrderRepository)
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	if store == nil {
		store = &mocks.FakeTxStore{Tx: tx}
	}
	orders := services.NewOrderService(store, repo, pub, nil)
	lifecycle := services.NewLifecycleService(store, pub, nil)

	router := gin.New()
	NewHandler(orders, lifecycle, nil).RegisterRoutes(router)
	return &testEnv{router: router, tx: tx, repo: repo}
}

func (e *testEnv) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func pendingOrder(id uint64, userID *uint64) *domain.Order {
	return services.CreateMockOrder(id, userID, domain.StatusPending,
		domain.OrderItem{ProductID: 7, Quantity: 3})
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		body         string
		setupMocks   func(*mocks.MockOrderTx)
		expectedCode int
	}{
		{
			name: "admin transition succeeds",
			path: "/admin/orders/100/status",
			body: `{"status":"processing"}`,
			setupMocks: func(tx *mocks.MockOrderTx) {
				tx.On("LockOrder", uint64(100)).Return(pendingOrder(100, nil), nil)
				tx.On("SaveOrder", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "unknown status is rejected before the transaction",
			path:         "/admin/orders/100/status",
			body:         `{"status":"delivered"}`,
			setupMocks:   func(tx *mocks.MockOrderTx) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing body is rejected",
			path:         "/admin/orders/100/status",
			body:         `{}`,
			setupMocks:   func(tx *mocks.MockOrderTx) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "non-numeric id is rejected",
			path:         "/admin/orders/abc/status",
			body:         `{"status":"processing"}`,
			setupMocks:   func(tx *mocks.MockOrderTx) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "missing order maps to 404",
			path: "/admin/orders/100/status",
			body: `{"status":"processing"}`,
			setupMocks: func(tx *mocks.MockOrderTx) {
				tx.On("LockOrder", uint64(100)).Return(nil, nil)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "illegal transition maps to 400",
			path: "/admin/orders/100/status",
			body: `{"status":"cancelled"}`,
			setupMocks: func(tx *mocks.MockOrderTx) {
				tx.On("LockOrder", uint64(100)).Return(
					services.CreateMockOrder(100, nil, domain.StatusShipping), nil)
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(nil)
			tt.setupMocks(env.tx)

			w := env.do(http.MethodPatch, tt.path, tt.body, nil)

			assert.Equal(t, tt.expectedCode, w.Code)
			body := decodeBody(t, w)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, true, body["success"])
				assert.NotNil(t, body["order"])
			} else {
				assert.Equal(t, false, body["success"])
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestCancelOrder(t *testing.T) {
	t.Run("owner cancels own order", func(t *testing.T) {
		env := newTestEnv(nil)
		env.tx.On("LockOrder", uint64(100)).Return(pendingOrder(100, services.Uint64Ptr(42)), nil)
		env.tx.On("RestoreStock", uint64(7), int64(3)).Return(nil)
		env.tx.On("SaveOrder", mock.AnythingOfType("*domain.Order")).Return(nil)

		w := env.do(http.MethodPost, "/orders/100/cancel", "", map[string]string{"X-User-ID": "42"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		order := body["order"].(map[string]any)
		assert.Equal(t, string(domain.StatusCancelled), order["status"])
	})

	t.Run("missing requester identity", func(t *testing.T) {
		env := newTestEnv(nil)

		w := env.do(http.MethodPost, "/orders/100/cancel", "", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("someone else's order", func(t *testing.T) {
		env := newTestEnv(nil)
		env.tx.On("LockOrder", uint64(100)).Return(pendingOrder(100, services.Uint64Ptr(42)), nil)

		w := env.do(http.MethodPost, "/orders/100/cancel", "", map[string]string{"X-User-ID": "7"})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestStorageConflictMapsTo409(t *testing.T) {
	env := newTestEnv(&mocks.FakeTxStore{BeginErr: domain.ErrStorageConflict})

	w := env.do(http.MethodPatch, "/admin/orders/100/status", `{"status":"processing"}`, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		env := newTestEnv(nil)
		env.repo.On("FindByID", mock.Anything, uint64(100)).Return(pendingOrder(100, nil), nil)

		w := env.do(http.MethodGet, "/orders/100", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(nil)
		env.repo.On("FindByID", mock.Anything, uint64(100)).Return(nil, nil)

		w := env.do(http.MethodGet, "/orders/100", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("storage detail never leaks", func(t *testing.T) {
		env := newTestEnv(nil)
		env.repo.On("FindByID", mock.Anything, uint64(100)).Return(nil, errors.New("Error 1045: access denied for user"))

		w := env.do(http.MethodGet, "/orders/100", "", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "internal server error", body["error"])
	})
}

func TestPaymentCallback(t *testing.T) {
	t.Run("success confirms the order", func(t *testing.T) {
		env := newTestEnv(nil)
		waiting := services.CreateMockOrder(100, nil, domain.StatusWaitingPayment)
		env.repo.On("FindByCode", mock.Anything, waiting.Code).Return(waiting, nil)
		env.tx.On("LockOrder", uint64(100)).Return(
			services.CreateMockOrder(100, nil, domain.StatusWaitingPayment), nil)
		env.tx.On("SaveOrder", mock.AnythingOfType("*domain.Order")).Return(nil)

		w := env.do(http.MethodPost, "/payments/callback",
			`{"orderCode":"`+waiting.Code+`","status":"success","provider":"vnpay"}`, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		order := body["order"].(map[string]any)
		assert.Equal(t, string(domain.StatusPending), order["status"])
		assert.Equal(t, string(domain.PaymentPaid), order["paymentStatus"])
	})

	t.Run("unknown result value is rejected", func(t *testing.T) {
		env := newTestEnv(nil)

		w := env.do(http.MethodPost, "/payments/callback",
			`{"orderCode":"ORD1","status":"maybe"}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckoutEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv(nil)
		env.tx.On("LockProduct", uint64(7)).Return(services.CreateMockProduct(7, 1000, 10), nil)
		env.tx.On("DeductStock", uint64(7), int64(2)).Return(nil)
		env.tx.On("CreateOrder", mock.AnythingOfType("*domain.Order")).Return(nil)

		w := env.do(http.MethodPost, "/orders", `{
			"userId": 42,
			"paymentMethod": "cod",
			"shippingName": "Jordan Tran",
			"shippingPhone": "0900000000",
			"shippingAddress": "12 Nguyen Hue",
			"items": [{"productId": 7, "quantity": 2}]
		}`, nil)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("zero quantity rejected by validation", func(t *testing.T) {
		env := newTestEnv(nil)

		w := env.do(http.MethodPost, "/orders", `{
			"paymentMethod": "cod",
			"shippingName": "Jordan Tran",
			"shippingPhone": "0900000000",
			"shippingAddress": "12 Nguyen Hue",
			"items": [{"productId": 7, "quantity": 0}]
		}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		env := newTestEnv(nil)
		env.tx.On("LockProduct", uint64(7)).Return(services.CreateMockProduct(7, 1000, 1), nil)
		env.tx.On("DeductStock", uint64(7), int64(5)).Return(domain.ErrInsufficientStock)

		w := env.do(http.MethodPost, "/orders", `{
			"paymentMethod": "cod",
			"shippingName": "Jordan Tran",
			"shippingPhone": "0900000000",
			"shippingAddress": "12 Nguyen Hue",
			"items": [{"productId": 7, "quantity": 5}]
		}`, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStatuses(t *testing.T) {
	env := newTestEnv(nil)

	w := env.do(http.MethodGet, "/statuses", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	statuses := body["statuses"].(map[string]any)
	assert.Len(t, statuses, 6)
}
