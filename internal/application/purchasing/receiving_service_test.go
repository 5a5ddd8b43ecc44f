package purchasing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeSessionStore keeps receiving sessions in a map so a test can
// drive the full begin-adjust-confirm flow without Redis.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*purchasing.ReceivingEvent
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*purchasing.ReceivingEvent)}
}

func (s *fakeSessionStore) key(tenantID, eventID uuid.UUID) string {
	return tenantID.String() + ":" + eventID.String()
}

func (s *fakeSessionStore) Put(ctx context.Context, event *purchasing.ReceivingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *event
	s.sessions[s.key(event.TenantID, event.ID)] = &copied
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, tenantID, eventID uuid.UUID) (*purchasing.ReceivingEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.sessions[s.key(tenantID, eventID)]
	if !ok {
		return nil, shared.NewNotFoundError("receiving session %s not found", eventID)
	}
	copied := *event
	return &copied, nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, tenantID, eventID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, s.key(tenantID, eventID))
	return nil
}

var _ purchasing.ReceivingSessionStore = (*fakeSessionStore)(nil)

func newReceivingTestOrder(t *testing.T, tenantID uuid.UUID) *purchasing.PurchaseOrder {
	t.Helper()
	order, err := purchasing.NewPurchaseOrder(
		tenantID, "PO-2026-00050",
		uuid.New(), "Acme Wholesale",
		uuid.New(), "Main Street",
		time.Time{},
	)
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Espresso Beans 1kg", "EB-1", decimal.NewFromInt(10), valueobject.NewMoneyUSDFromFloat(12.50))
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Filter Papers", "FP-1", decimal.NewFromInt(4), valueobject.NewMoneyUSDFromFloat(3.20))
	require.NoError(t, err)
	require.NoError(t, order.Submit())
	order.ClearDomainEvents()
	return order
}

func newReceivingTestService(order *purchasing.PurchaseOrder) (*ReceivingService, *MockPurchaseOrderRepository, *fakeSessionStore) {
	orderRepo := new(MockPurchaseOrderRepository)
	store := newFakeSessionStore()
	service := NewReceivingService(orderRepo, store)
	orderRepo.On("FindByIDForTenant", mock.Anything, order.TenantID, order.ID).Return(order, nil)
	return service, orderRepo, store
}

func TestReceivingService_Begin_SnapshotsOrderLines(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, _, _ := newReceivingTestService(order)

	session, err := service.Begin(ctx, tenantID, order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.ID, session.OrderID)
	assert.Len(t, session.Lines, 2)
	for _, line := range session.Lines {
		assert.True(t, line.ToReceive.IsZero())
		assert.True(t, line.AlreadyReceived.IsZero())
	}
	assert.False(t, session.Committed)
}

func TestReceivingService_Begin_DraftOrderRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order, err := purchasing.NewPurchaseOrder(tenantID, "PO-2026-00051", uuid.New(), "Acme Wholesale", uuid.New(), "Main Street", time.Time{})
	require.NoError(t, err)
	service, _, _ := newReceivingTestService(order)

	_, err = service.Begin(ctx, tenantID, order.ID)

	require.Error(t, err)
	assert.True(t, shared.IsInvariantViolation(err))
}

func TestReceivingService_SetLineQuantity_Clamps(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, _, _ := newReceivingTestService(order)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)
	lineID := session.Lines[0].LineID

	// Above the remainder: clamped down to 10.
	session, err = service.SetLineQuantity(ctx, tenantID, order.ID, session.ID, lineID, decimal.NewFromInt(99))
	require.NoError(t, err)
	assert.True(t, session.Lines[0].ToReceive.Equal(decimal.NewFromInt(10)))

	// Negative: clamped up to zero.
	session, err = service.SetLineQuantity(ctx, tenantID, order.ID, session.ID, lineID, decimal.NewFromInt(-5))
	require.NoError(t, err)
	assert.True(t, session.Lines[0].ToReceive.IsZero())
}

func TestReceivingService_SetLineQuantity_WrongOrder(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, _, _ := newReceivingTestService(order)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)

	_, err = service.SetLineQuantity(ctx, tenantID, uuid.New(), session.ID, session.Lines[0].LineID, decimal.NewFromInt(1))

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestReceivingService_Confirm_PartialReceipt(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, orderRepo, _ := newReceivingTestService(order)
	orderRepo.On("SaveWithLock", mock.Anything, order, mock.AnythingOfType("int")).Return(nil)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)
	_, err = service.SetLineQuantity(ctx, tenantID, order.ID, session.ID, session.Lines[0].LineID, decimal.NewFromInt(6))
	require.NoError(t, err)

	response, err := service.Confirm(ctx, tenantID, order.ID, session.ID)

	require.NoError(t, err)
	assert.Equal(t, "PARTIAL_RECEIVED", response.Status)
	assert.Equal(t, "6 of 14", response.ReceivedSummary)
	orderRepo.AssertExpectations(t)
}

func TestReceivingService_Confirm_MarkAllCompletesOrder(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, orderRepo, _ := newReceivingTestService(order)
	orderRepo.On("SaveWithLock", mock.Anything, order, mock.AnythingOfType("int")).Return(nil)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)
	_, err = service.MarkAllReceived(ctx, tenantID, order.ID, session.ID)
	require.NoError(t, err)

	response, err := service.Confirm(ctx, tenantID, order.ID, session.ID)

	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", response.Status)
	assert.Equal(t, "14 of 14", response.ReceivedSummary)
	assert.NotNil(t, response.CompletedAt)
}

func TestReceivingService_Confirm_SecondConfirmRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, orderRepo, _ := newReceivingTestService(order)
	orderRepo.On("SaveWithLock", mock.Anything, order, mock.AnythingOfType("int")).Return(nil)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)
	_, err = service.SetLineQuantity(ctx, tenantID, order.ID, session.ID, session.Lines[0].LineID, decimal.NewFromInt(3))
	require.NoError(t, err)

	_, err = service.Confirm(ctx, tenantID, order.ID, session.ID)
	require.NoError(t, err)

	received := order.TotalReceivedQuantity()

	_, err = service.Confirm(ctx, tenantID, order.ID, session.ID)

	require.Error(t, err)
	assert.True(t, shared.IsInvariantViolation(err))
	assert.True(t, order.TotalReceivedQuantity().Equal(received))
}

func TestReceivingService_Confirm_EmptyReceiptRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, _, _ := newReceivingTestService(order)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)

	_, err = service.Confirm(ctx, tenantID, order.ID, session.ID)

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, purchasing.PurchaseOrderStatusPending, order.Status)
}

func TestReceivingService_Cancel_DiscardsSession(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, _, store := newReceivingTestService(order)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)
	_, err = service.SetLineQuantity(ctx, tenantID, order.ID, session.ID, session.Lines[0].LineID, decimal.NewFromInt(5))
	require.NoError(t, err)

	require.NoError(t, service.Cancel(ctx, tenantID, order.ID, session.ID))

	_, err = store.Get(ctx, tenantID, session.ID)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, purchasing.PurchaseOrderStatusPending, order.Status)
	assert.True(t, order.TotalReceivedQuantity().IsZero())
}

func TestReceivingService_Cancel_CommittedSessionRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	order := newReceivingTestOrder(t, tenantID)
	service, orderRepo, _ := newReceivingTestService(order)
	orderRepo.On("SaveWithLock", mock.Anything, order, mock.AnythingOfType("int")).Return(nil)

	session, err := service.Begin(ctx, tenantID, order.ID)
	require.NoError(t, err)
	_, err = service.MarkAllReceived(ctx, tenantID, order.ID, session.ID)
	require.NoError(t, err)
	_, err = service.Confirm(ctx, tenantID, order.ID, session.ID)
	require.NoError(t, err)

	err = service.Cancel(ctx, tenantID, order.ID, session.ID)

	require.Error(t, err)
	assert.True(t, shared.IsInvariantViolation(err))
}
