package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/partner"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockSupplierRepository is a mock implementation of SupplierRepository
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

// Verify interface compliance
var _ partner.SupplierRepository = (*MockSupplierRepository)(nil)

// =============================================================================
// Test Helper Functions
// =============================================================================

func newPartnerTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func createTestSupplier(tenantID uuid.UUID) *partner.Supplier {
	supplier, _ := partner.NewSupplier(tenantID, "SUP-001", "Acme Wholesale")
	return supplier
}

// =============================================================================
// SupplierService Tests
// =============================================================================

func TestSupplierService_Create_Success(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := newPartnerTestTenantID()

	mockRepo.On("FindByCodeForTenant", ctx, tenantID, "SUP-001").
		Return(nil, shared.NewNotFoundError("supplier SUP-001 not found"))
	mockRepo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	response, err := service.Create(ctx, tenantID, CreateSupplierRequest{
		Code:  "sup-001",
		Name:  "Acme Wholesale",
		Email: "orders@acme.example",
	})

	require.NoError(t, err)
	assert.Equal(t, "SUP-001", response.Code)
	assert.Equal(t, "active", response.Status)
	assert.Equal(t, "orders@acme.example", response.Email)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Create_DuplicateCode(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := newPartnerTestTenantID()
	existing := createTestSupplier(tenantID)

	mockRepo.On("FindByCodeForTenant", ctx, tenantID, "SUP-001").Return(existing, nil)

	_, err := service.Create(ctx, tenantID, CreateSupplierRequest{Code: "SUP-001", Name: "Other"})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSupplierService_Update_Success(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := newPartnerTestTenantID()
	supplier := createTestSupplier(tenantID)

	mockRepo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	mockRepo.On("Save", ctx, supplier).Return(nil)

	response, err := service.Update(ctx, tenantID, supplier.ID, UpdateSupplierRequest{
		Name:  "Acme Wholesale Ltd",
		Phone: "555-0100",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Wholesale Ltd", response.Name)
	assert.Equal(t, "555-0100", response.Phone)
	mockRepo.AssertExpectations(t)
}

func TestSupplierService_Deactivate(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := newPartnerTestTenantID()
	supplier := createTestSupplier(tenantID)

	mockRepo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	mockRepo.On("Save", ctx, supplier).Return(nil)

	response, err := service.Deactivate(ctx, tenantID, supplier.ID)

	require.NoError(t, err)
	assert.Equal(t, "inactive", response.Status)
}

func TestSupplierService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := newPartnerTestTenantID()
	supplierID := uuid.New()

	mockRepo.On("FindByIDForTenant", ctx, tenantID, supplierID).
		Return(nil, shared.NewNotFoundError("supplier %s not found", supplierID))

	err := service.Delete(ctx, tenantID, supplierID)

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestSupplierService_List_StatusFilter(t *testing.T) {
	mockRepo := new(MockSupplierRepository)
	service := NewSupplierService(mockRepo)

	ctx := context.Background()
	tenantID := newPartnerTestTenantID()
	supplier := createTestSupplier(tenantID)

	mockRepo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "active"
	})).Return(shared.NewPaginated([]partner.Supplier{*supplier}, 1, 1, 20), nil)

	result, err := service.List(ctx, tenantID, ListFilter{Status: "active"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "SUP-001", result.Items[0].Code)
}
