package purchasing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beginTestReceiving(t *testing.T, order *PurchaseOrder) *ReceivingEvent {
	t.Helper()
	event, err := NewReceivingEvent(order)
	require.NoError(t, err)
	return event
}

func TestNewReceivingEvent(t *testing.T) {
	t.Run("rejects draft orders", func(t *testing.T) {
		order := createTestOrder(t)
		addTestLine(t, order, "Widget", 5, 1.00)

		_, err := NewReceivingEvent(order)
		assert.True(t, shared.IsInvariantViolation(err))
	})

	t.Run("snapshots lines with zero to-receive", func(t *testing.T) {
		order := createTestOrder(t)
		addTestLine(t, order, "Widget", 5, 1.00)
		addTestLine(t, order, "Gadget", 3, 2.00)
		require.NoError(t, order.Submit())

		event := beginTestReceiving(t, order)

		require.Len(t, event.Lines, 2)
		for _, line := range event.Lines {
			assert.True(t, line.ToReceive.IsZero())
			assert.True(t, line.AlreadyReceived.IsZero())
		}
		assert.Empty(t, event.AppliedCostIDs)
		assert.False(t, event.Committed)
	})
}

func TestReceivingEventSetQuantity(t *testing.T) {
	order := createTestOrder(t)
	line := addTestLine(t, order, "Widget", 10, 1.00)
	require.NoError(t, order.Submit())

	tests := []struct {
		name  string
		input int64
		want  int64
	}{
		{"within range", 4, 4},
		{"clamps oversupply to remaining", 99, 10},
		{"clamps negative to zero", -3, 0},
		{"exact remaining", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := beginTestReceiving(t, order)
			require.NoError(t, event.SetQuantity(line.ID, decimal.NewFromInt(tt.input)))
			assert.True(t, event.Lines[0].ToReceive.Equal(decimal.NewFromInt(tt.want)),
				"got %s", event.Lines[0].ToReceive)
		})
	}

	t.Run("unknown line", func(t *testing.T) {
		event := beginTestReceiving(t, order)
		err := event.SetQuantity(uuid.New(), decimal.NewFromInt(1))
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestReceivingClampAccountsForEarlierReceipts(t *testing.T) {
	order := createTestOrder(t)
	line := addTestLine(t, order, "Widget", 10, 1.00)
	require.NoError(t, order.Submit())

	first := beginTestReceiving(t, order)
	require.NoError(t, first.SetQuantity(line.ID, decimal.NewFromInt(6)))
	require.NoError(t, order.ApplyReceiving(first))

	second := beginTestReceiving(t, order)
	require.NoError(t, second.SetQuantity(line.ID, decimal.NewFromInt(9)))
	// only 4 remain outstanding
	assert.True(t, second.Lines[0].ToReceive.Equal(decimal.NewFromInt(4)))
}

func TestReceivingMarkAllReceivedUsesRemainder(t *testing.T) {
	order := createTestOrder(t)
	lineA := addTestLine(t, order, "Widget", 10, 1.00)
	lineB := addTestLine(t, order, "Gadget", 4, 2.00)
	require.NoError(t, order.Submit())

	// first receipt books part of line A
	first := beginTestReceiving(t, order)
	require.NoError(t, first.SetQuantity(lineA.ID, decimal.NewFromInt(7)))
	require.NoError(t, order.ApplyReceiving(first))
	require.Equal(t, PurchaseOrderStatusPartialReceived, order.Status)

	// receive-all on the second receipt must book the remainder, not
	// the full ordered quantity
	second := beginTestReceiving(t, order)
	require.NoError(t, second.MarkAllReceived())

	byLine := make(map[uuid.UUID]decimal.Decimal)
	for _, l := range second.Lines {
		byLine[l.LineID] = l.ToReceive
	}
	assert.True(t, byLine[lineA.ID].Equal(decimal.NewFromInt(3)))
	assert.True(t, byLine[lineB.ID].Equal(decimal.NewFromInt(4)))

	require.NoError(t, order.ApplyReceiving(second))
	assert.Equal(t, PurchaseOrderStatusCompleted, order.Status)
	assert.True(t, order.GetItem(lineA.ID).ReceivedQuantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "14 of 14", order.ReceivedSummary())
}

func TestApplyReceivingStatusDerivation(t *testing.T) {
	t.Run("partial receipt", func(t *testing.T) {
		order := createTestOrder(t)
		line := addTestLine(t, order, "Widget", 10, 1.00)
		addTestLine(t, order, "Gadget", 5, 1.00)
		require.NoError(t, order.Submit())

		event := beginTestReceiving(t, order)
		require.NoError(t, event.SetQuantity(line.ID, decimal.NewFromInt(10)))
		require.NoError(t, order.ApplyReceiving(event))

		assert.Equal(t, PurchaseOrderStatusPartialReceived, order.Status)
		assert.Equal(t, "10 of 15", order.ReceivedSummary())
		assert.Nil(t, order.CompletedAt)
	})

	t.Run("full receipt completes", func(t *testing.T) {
		order := createTestOrder(t)
		addTestLine(t, order, "Widget", 10, 1.00)
		require.NoError(t, order.Submit())

		event := beginTestReceiving(t, order)
		require.NoError(t, event.MarkAllReceived())
		require.NoError(t, order.ApplyReceiving(event))

		assert.Equal(t, PurchaseOrderStatusCompleted, order.Status)
		require.NotNil(t, order.CompletedAt)
	})

	t.Run("empty receipt is rejected", func(t *testing.T) {
		order := createTestOrder(t)
		addTestLine(t, order, "Widget", 10, 1.00)
		require.NoError(t, order.Submit())

		event := beginTestReceiving(t, order)
		err := order.ApplyReceiving(event)
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
		assert.Equal(t, PurchaseOrderStatusPending, order.Status)
	})
}

func TestApplyReceivingCommitOnce(t *testing.T) {
	order := createTestOrder(t)
	line := addTestLine(t, order, "Widget", 10, 1.00)
	require.NoError(t, order.Submit())

	event := beginTestReceiving(t, order)
	require.NoError(t, event.SetQuantity(line.ID, decimal.NewFromInt(4)))
	require.NoError(t, order.ApplyReceiving(event))
	require.True(t, event.Committed)

	err := order.ApplyReceiving(event)
	assert.True(t, shared.IsInvariantViolation(err))

	// the failed second commit must not change the order
	assert.True(t, order.GetItem(line.ID).ReceivedQuantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, PurchaseOrderStatusPartialReceived, order.Status)

	// a committed event also rejects further edits
	assert.True(t, shared.IsInvariantViolation(event.SetQuantity(line.ID, decimal.NewFromInt(1))))
	assert.True(t, shared.IsInvariantViolation(event.MarkAllReceived()))
	assert.True(t, shared.IsInvariantViolation(event.SetAppliedCosts(nil)))
}

func TestApplyReceivingCosts(t *testing.T) {
	t.Run("marks selected costs applied", func(t *testing.T) {
		order := createTestOrder(t)
		line := addTestLine(t, order, "Widget", 10, 1.00)
		freight, err := order.AddCost("Freight", valueobject.NewMoneyUSDFromFloat(12.50))
		require.NoError(t, err)
		customs, err := order.AddCost("Customs", valueobject.NewMoneyUSDFromFloat(3.00))
		require.NoError(t, err)
		require.NoError(t, order.Submit())

		event := beginTestReceiving(t, order)
		require.NoError(t, event.SetQuantity(line.ID, decimal.NewFromInt(5)))
		require.NoError(t, event.SetAppliedCosts([]uuid.UUID{freight.ID}))
		require.NoError(t, order.ApplyReceiving(event))

		assert.True(t, order.GetCost(freight.ID).Applied)
		require.NotNil(t, order.GetCost(freight.ID).ReceiptID)
		assert.Equal(t, event.ID, *order.GetCost(freight.ID).ReceiptID)
		assert.False(t, order.GetCost(customs.ID).Applied)
	})

	t.Run("rejects reapplying a cost", func(t *testing.T) {
		order := createTestOrder(t)
		line := addTestLine(t, order, "Widget", 10, 1.00)
		freight, err := order.AddCost("Freight", valueobject.NewMoneyUSDFromFloat(12.50))
		require.NoError(t, err)
		require.NoError(t, order.Submit())

		first := beginTestReceiving(t, order)
		require.NoError(t, first.SetQuantity(line.ID, decimal.NewFromInt(5)))
		require.NoError(t, first.SetAppliedCosts([]uuid.UUID{freight.ID}))
		require.NoError(t, order.ApplyReceiving(first))

		second := beginTestReceiving(t, order)
		require.NoError(t, second.SetQuantity(line.ID, decimal.NewFromInt(5)))
		require.NoError(t, second.SetAppliedCosts([]uuid.UUID{freight.ID}))
		err = order.ApplyReceiving(second)
		assert.True(t, shared.IsInvariantViolation(err))
	})

	t.Run("unknown cost id", func(t *testing.T) {
		order := createTestOrder(t)
		line := addTestLine(t, order, "Widget", 10, 1.00)
		require.NoError(t, order.Submit())

		event := beginTestReceiving(t, order)
		require.NoError(t, event.SetQuantity(line.ID, decimal.NewFromInt(5)))
		require.NoError(t, event.SetAppliedCosts([]uuid.UUID{uuid.New()}))
		err := order.ApplyReceiving(event)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("failed commit leaves order untouched", func(t *testing.T) {
		order := createTestOrder(t)
		line := addTestLine(t, order, "Widget", 10, 1.00)
		freight, err := order.AddCost("Freight", valueobject.NewMoneyUSDFromFloat(12.50))
		require.NoError(t, err)
		require.NoError(t, order.Submit())
		versionBefore := order.Version

		event := beginTestReceiving(t, order)
		require.NoError(t, event.SetQuantity(line.ID, decimal.NewFromInt(5)))
		require.NoError(t, event.SetAppliedCosts([]uuid.UUID{freight.ID, uuid.New()}))

		err = order.ApplyReceiving(event)
		assert.True(t, shared.IsNotFound(err))

		// no partial effect from the staged quantity or the valid cost
		assert.True(t, order.GetItem(line.ID).ReceivedQuantity.IsZero())
		assert.False(t, order.GetCost(freight.ID).Applied)
		assert.Equal(t, PurchaseOrderStatusPending, order.Status)
		assert.Equal(t, versionBefore, order.Version)
		assert.False(t, event.Committed)
	})
}

func TestMarkAllReceivedSelectsUnappliedCosts(t *testing.T) {
	order := createTestOrder(t)
	line := addTestLine(t, order, "Widget", 10, 1.00)
	freight, err := order.AddCost("Freight", valueobject.NewMoneyUSDFromFloat(12.50))
	require.NoError(t, err)
	customs, err := order.AddCost("Customs", valueobject.NewMoneyUSDFromFloat(3.00))
	require.NoError(t, err)
	require.NoError(t, order.Submit())

	// first receipt books freight
	first := beginTestReceiving(t, order)
	require.NoError(t, first.SetQuantity(line.ID, decimal.NewFromInt(4)))
	require.NoError(t, first.SetAppliedCosts([]uuid.UUID{freight.ID}))
	require.NoError(t, order.ApplyReceiving(first))

	// receive-all selects only the cost still outstanding
	second := beginTestReceiving(t, order)
	require.NoError(t, second.MarkAllReceived())
	assert.Equal(t, []uuid.UUID{customs.ID}, second.AppliedCostIDs)

	require.NoError(t, order.ApplyReceiving(second))
	assert.True(t, order.GetCost(customs.ID).Applied)
	assert.Equal(t, PurchaseOrderStatusCompleted, order.Status)
}

func TestCancelReceivingLeavesOrderUntouched(t *testing.T) {
	order := createTestOrder(t)
	line := addTestLine(t, order, "Widget", 10, 1.00)
	require.NoError(t, order.Submit())

	event := beginTestReceiving(t, order)
	require.NoError(t, event.SetQuantity(line.ID, decimal.NewFromInt(7)))

	// cancel is simply discarding the event; nothing was applied
	assert.Equal(t, PurchaseOrderStatusPending, order.Status)
	assert.True(t, order.GetItem(line.ID).ReceivedQuantity.IsZero())
	assert.Equal(t, "0 of 10", order.ReceivedSummary())
}
