package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/retailcore/backend/internal/domain/shared"
)

func newTestSession(tenantID uuid.UUID) *purchasing.ReceivingEvent {
	return &purchasing.ReceivingEvent{
		ID:       uuid.New(),
		OrderID:  uuid.New(),
		TenantID: tenantID,
		Lines: []purchasing.ReceivingLine{
			{
				LineID:          uuid.New(),
				ItemID:          uuid.New(),
				ItemName:        "Espresso Beans 1kg",
				Ordered:         decimal.NewFromInt(10),
				AlreadyReceived: decimal.NewFromInt(2),
				ToReceive:       decimal.NewFromInt(3),
			},
		},
		AppliedCostIDs: []uuid.UUID{},
		OpenedAt:       time.Now(),
	}
}

func TestInMemoryReceivingSessionStore_PutAndGet(t *testing.T) {
	store := NewInMemoryReceivingSessionStore(1 * time.Hour)
	defer store.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("round-trips a session", func(t *testing.T) {
		session := newTestSession(tenantID)
		require.NoError(t, store.Put(ctx, session))

		loaded, err := store.Get(ctx, tenantID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, loaded.ID)
		assert.Equal(t, session.OrderID, loaded.OrderID)
		require.Len(t, loaded.Lines, 1)
		assert.True(t, loaded.Lines[0].ToReceive.Equal(decimal.NewFromInt(3)))
	})

	t.Run("returns a copy, not the stored instance", func(t *testing.T) {
		session := newTestSession(tenantID)
		require.NoError(t, store.Put(ctx, session))

		loaded, err := store.Get(ctx, tenantID, session.ID)
		require.NoError(t, err)
		loaded.Lines[0].ToReceive = decimal.NewFromInt(99)

		again, err := store.Get(ctx, tenantID, session.ID)
		require.NoError(t, err)
		assert.True(t, again.Lines[0].ToReceive.Equal(decimal.NewFromInt(3)),
			"mutating a loaded session must not affect the stored one")
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		_, err := store.Get(ctx, tenantID, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("session is scoped to its tenant", func(t *testing.T) {
		session := newTestSession(tenantID)
		require.NoError(t, store.Put(ctx, session))

		_, err := store.Get(ctx, uuid.New(), session.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestInMemoryReceivingSessionStore_Expiry(t *testing.T) {
	store := NewInMemoryReceivingSessionStore(10 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	session := newTestSession(tenantID)

	require.NoError(t, store.Put(ctx, session))
	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, tenantID, session.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestInMemoryReceivingSessionStore_Delete(t *testing.T) {
	store := NewInMemoryReceivingSessionStore(1 * time.Hour)
	defer store.Close()

	ctx := context.Background()
	tenantID := uuid.New()
	session := newTestSession(tenantID)

	require.NoError(t, store.Put(ctx, session))
	require.NoError(t, store.Delete(ctx, tenantID, session.ID))

	_, err := store.Get(ctx, tenantID, session.ID)
	assert.Equal(t, shared.ErrNotFound, err)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, tenantID, session.ID))
}

func TestInMemoryReceivingSessionStore_Size(t *testing.T) {
	store := NewInMemoryReceivingSessionStore(1 * time.Hour)
	defer store.Close()

	ctx := context.Background()
	tenantID := uuid.New()

	assert.Equal(t, 0, store.Size())
	require.NoError(t, store.Put(ctx, newTestSession(tenantID)))
	require.NoError(t, store.Put(ctx, newTestSession(tenantID)))
	assert.Equal(t, 2, store.Size())
}
