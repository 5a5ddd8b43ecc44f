package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appPurchasing "github.com/retailcore/backend/internal/application/purchasing"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// MockPurchaseOrderRepository implements purchasing.PurchaseOrderRepository for testing
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[purchasing.PurchaseOrder], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[purchasing.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder, expectedVersion int) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[purchasing.PurchaseOrderStatus]int64, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[purchasing.PurchaseOrderStatus]int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockSupplierRepository implements partner.SupplierRepository for testing
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[partner.Supplier], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[partner.Supplier]), args.Error(1)
}

func (m *MockSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockStoreRepository implements partner.StoreRepository for testing
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Store, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Store, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[partner.Store], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[partner.Store]), args.Error(1)
}

func (m *MockStoreRepository) Save(ctx context.Context, store *partner.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func setupPurchaseOrderTestRouter() (*gin.Engine, *MockPurchaseOrderRepository, *MockSupplierRepository, *MockStoreRepository, *PurchaseOrderHandler) {
	gin.SetMode(gin.TestMode)

	orderRepo := new(MockPurchaseOrderRepository)
	supplierRepo := new(MockSupplierRepository)
	storeRepo := new(MockStoreRepository)
	service := appPurchasing.NewPurchaseOrderService(orderRepo, supplierRepo, storeRepo)
	handler := NewPurchaseOrderHandler(service)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, testTenantID.String())
		c.Next()
	})

	return router, orderRepo, supplierRepo, storeRepo, handler
}

func activeSupplier(id uuid.UUID) *partner.Supplier {
	supplier, _ := partner.NewSupplier(testTenantID, "SUP001", "Roast Brothers Coffee")
	supplier.ID = id
	return supplier
}

func openStore(id uuid.UUID) *partner.Store {
	store, _ := partner.NewStore(testTenantID, "ST001", "Downtown")
	store.ID = id
	return store
}

func draftOrderWithLine(orderNumber string) *purchasing.PurchaseOrder {
	order, _ := purchasing.NewPurchaseOrder(testTenantID, orderNumber, uuid.New(), "Roast Brothers Coffee", uuid.New(), "Downtown", time.Now())
	_, _ = order.AddItem(uuid.New(), "Espresso Beans 1kg", "BEAN-1KG", decimal.NewFromInt(10), valueobject.NewMoneyUSDFromFloat(12.50))
	return order
}

func TestPurchaseOrderHandler_Create(t *testing.T) {
	t.Run("creates order with items", func(t *testing.T) {
		router, orderRepo, supplierRepo, storeRepo, handler := setupPurchaseOrderTestRouter()
		router.POST("/purchase-orders", handler.Create)

		supplierID := uuid.New()
		storeID := uuid.New()

		supplierRepo.On("FindByIDForTenant", mock.Anything, testTenantID, supplierID).
			Return(activeSupplier(supplierID), nil)
		storeRepo.On("FindByIDForTenant", mock.Anything, testTenantID, storeID).
			Return(openStore(storeID), nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything, testTenantID).
			Return("PO-2026-00001", nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*purchasing.PurchaseOrder")).
			Return(nil)

		reqBody := CreatePurchaseOrderRequest{
			SupplierID: supplierID.String(),
			StoreID:    storeID.String(),
			Items: []CreateLineItemRequest{
				{ItemID: uuid.New().String(), ItemName: "Espresso Beans 1kg", Quantity: 10, PurchaseCost: 12.50},
			},
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest(http.MethodPost, "/purchase-orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response["success"].(bool))

		orderRepo.AssertExpectations(t)
		supplierRepo.AssertExpectations(t)
		storeRepo.AssertExpectations(t)
	})

	t.Run("rejects malformed supplier ID", func(t *testing.T) {
		router, _, _, _, handler := setupPurchaseOrderTestRouter()
		router.POST("/purchase-orders", handler.Create)

		body, _ := json.Marshal(map[string]any{
			"supplier_id": "not-a-uuid",
			"store_id":    uuid.New().String(),
		})

		req := httptest.NewRequest(http.MethodPost, "/purchase-orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing store ID", func(t *testing.T) {
		router, _, _, _, handler := setupPurchaseOrderTestRouter()
		router.POST("/purchase-orders", handler.Create)

		body, _ := json.Marshal(map[string]any{
			"supplier_id": uuid.New().String(),
		})

		req := httptest.NewRequest(http.MethodPost, "/purchase-orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("surfaces inactive supplier as validation error", func(t *testing.T) {
		router, _, supplierRepo, _, handler := setupPurchaseOrderTestRouter()
		router.POST("/purchase-orders", handler.Create)

		supplierID := uuid.New()
		supplier := activeSupplier(supplierID)
		supplier.Deactivate()

		supplierRepo.On("FindByIDForTenant", mock.Anything, testTenantID, supplierID).
			Return(supplier, nil)

		body, _ := json.Marshal(map[string]any{
			"supplier_id": supplierID.String(),
			"store_id":    uuid.New().String(),
		})

		req := httptest.NewRequest(http.MethodPost, "/purchase-orders", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errInfo := response["error"].(map[string]any)
		assert.Equal(t, shared.CodeValidation, errInfo["code"])
	})
}

func TestPurchaseOrderHandler_GetByID(t *testing.T) {
	t.Run("returns order", func(t *testing.T) {
		router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
		router.GET("/purchase-orders/:id", handler.GetByID)

		order := draftOrderWithLine("PO-2026-00007")
		orderRepo.On("FindByIDForTenant", mock.Anything, testTenantID, order.ID).
			Return(order, nil)

		req := httptest.NewRequest(http.MethodGet, "/purchase-orders/"+order.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "PO-2026-00007")
	})

	t.Run("returns 404 for unknown order", func(t *testing.T) {
		router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
		router.GET("/purchase-orders/:id", handler.GetByID)

		orderID := uuid.New()
		orderRepo.On("FindByIDForTenant", mock.Anything, testTenantID, orderID).
			Return(nil, shared.ErrNotFound)

		req := httptest.NewRequest(http.MethodGet, "/purchase-orders/"+orderID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for malformed order ID", func(t *testing.T) {
		router, _, _, _, handler := setupPurchaseOrderTestRouter()
		router.GET("/purchase-orders/:id", handler.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/purchase-orders/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPurchaseOrderHandler_Submit(t *testing.T) {
	t.Run("submits draft with items", func(t *testing.T) {
		router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
		router.POST("/purchase-orders/:id/submit", handler.Submit)

		order := draftOrderWithLine("PO-2026-00002")
		orderRepo.On("FindByIDForTenant", mock.Anything, testTenantID, order.ID).
			Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order, order.Version).
			Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/purchase-orders/"+order.ID.String()+"/submit", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), string(purchasing.PurchaseOrderStatusPending))
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects submitting an empty draft", func(t *testing.T) {
		router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
		router.POST("/purchase-orders/:id/submit", handler.Submit)

		order, err := purchasing.NewPurchaseOrder(testTenantID, "PO-2026-00003", uuid.New(), "Roast Brothers Coffee", uuid.New(), "Downtown", time.Now())
		require.NoError(t, err)

		orderRepo.On("FindByIDForTenant", mock.Anything, testTenantID, order.ID).
			Return(order, nil)

		req := httptest.NewRequest(http.MethodPost, "/purchase-orders/"+order.ID.String()+"/submit", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps write conflict to 409", func(t *testing.T) {
		router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
		router.POST("/purchase-orders/:id/submit", handler.Submit)

		order := draftOrderWithLine("PO-2026-00004")
		orderRepo.On("FindByIDForTenant", mock.Anything, testTenantID, order.ID).
			Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order, order.Version).
			Return(shared.ErrConcurrencyConflict)

		req := httptest.NewRequest(http.MethodPost, "/purchase-orders/"+order.ID.String()+"/submit", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		errInfo := response["error"].(map[string]any)
		assert.Equal(t, shared.CodeConcurrency, errInfo["code"])
	})
}

func TestPurchaseOrderHandler_Delete(t *testing.T) {
	t.Run("deletes a draft order", func(t *testing.T) {
		router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
		router.DELETE("/purchase-orders/:id", handler.Delete)

		order := draftOrderWithLine("PO-2026-00005")
		orderRepo.On("FindByIDForTenant", mock.Anything, testTenantID, order.ID).
			Return(order, nil)
		orderRepo.On("DeleteForTenant", mock.Anything, testTenantID, order.ID).
			Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/purchase-orders/"+order.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects deleting a submitted order", func(t *testing.T) {
		router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
		router.DELETE("/purchase-orders/:id", handler.Delete)

		order := draftOrderWithLine("PO-2026-00006")
		require.NoError(t, order.Submit())

		orderRepo.On("FindByIDForTenant", mock.Anything, testTenantID, order.ID).
			Return(order, nil)

		req := httptest.NewRequest(http.MethodDelete, "/purchase-orders/"+order.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestPurchaseOrderHandler_GetStatusSummary(t *testing.T) {
	router, orderRepo, _, _, handler := setupPurchaseOrderTestRouter()
	router.GET("/purchase-orders/stats/summary", handler.GetStatusSummary)

	orderRepo.On("CountByStatus", mock.Anything, testTenantID).
		Return(map[purchasing.PurchaseOrderStatus]int64{
			purchasing.PurchaseOrderStatusDraft:     3,
			purchasing.PurchaseOrderStatusPending:   2,
			purchasing.PurchaseOrderStatusCompleted: 5,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/purchase-orders/stats/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]any)
	assert.Equal(t, float64(10), data["total"])
}
