package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivingLine is one line of an in-flight receiving event. Ordered
// and AlreadyReceived are snapshots taken when the event was opened;
// ToReceive is the quantity the operator intends to book.
type ReceivingLine struct {
	LineID          uuid.UUID       `json:"line_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ItemName        string          `json:"item_name"`
	Ordered         decimal.Decimal `json:"ordered"`
	AlreadyReceived decimal.Decimal `json:"already_received"`
	ToReceive       decimal.Decimal `json:"to_receive"`
}

// Remaining returns the outstanding quantity for this line as of the
// snapshot.
func (l ReceivingLine) Remaining() decimal.Decimal {
	remaining := l.Ordered.Sub(l.AlreadyReceived)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// ReceivingEvent is a transient working copy of one receipt against a
// purchase order. It never becomes part of the persisted order; only
// its committed effect does. An event is single-use: once committed it
// is spent, and committing it again is an invariant violation.
type ReceivingEvent struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"order_id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	Lines          []ReceivingLine `json:"lines"`
	AppliedCostIDs []uuid.UUID     `json:"applied_cost_ids"`
	// UnappliedCostIDs is the snapshot of costs not yet booked by any
	// receipt when the event was opened. MarkAllReceived selects them.
	UnappliedCostIDs []uuid.UUID `json:"unapplied_cost_ids"`
	Committed        bool        `json:"committed"`
	OpenedAt         time.Time   `json:"opened_at"`
}

// NewReceivingEvent opens a receiving event against the order. Every
// line starts with a zero to-receive quantity and no costs selected.
func NewReceivingEvent(order *PurchaseOrder) (*ReceivingEvent, error) {
	if !order.Status.CanReceive() {
		return nil, shared.NewInvariantViolation("cannot begin receiving for order in %s status", order.Status)
	}

	lines := make([]ReceivingLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, ReceivingLine{
			LineID:          item.ID,
			ItemID:          item.ItemID,
			ItemName:        item.ItemName,
			Ordered:         item.Quantity,
			AlreadyReceived: item.ReceivedQuantity,
			ToReceive:       decimal.Zero,
		})
	}

	unapplied := make([]uuid.UUID, 0, len(order.Costs))
	for _, cost := range order.Costs {
		if !cost.Applied {
			unapplied = append(unapplied, cost.ID)
		}
	}

	return &ReceivingEvent{
		ID:               uuid.New(),
		OrderID:          order.ID,
		TenantID:         order.TenantID,
		Lines:            lines,
		AppliedCostIDs:   make([]uuid.UUID, 0),
		UnappliedCostIDs: unapplied,
		OpenedAt:         time.Now(),
	}, nil
}

// SetQuantity sets the to-receive quantity for a line, clamped to the
// range [0, remaining]. Out-of-range input is corrected, not rejected.
func (e *ReceivingEvent) SetQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if e.Committed {
		return shared.NewInvariantViolation("receiving event %s was already committed", e.ID)
	}

	for idx := range e.Lines {
		if e.Lines[idx].LineID != lineID {
			continue
		}
		if quantity.IsNegative() {
			quantity = decimal.Zero
		}
		if remaining := e.Lines[idx].Remaining(); quantity.GreaterThan(remaining) {
			quantity = remaining
		}
		e.Lines[idx].ToReceive = quantity
		return nil
	}

	return shared.NewNotFoundError("order line %s not found in receiving event", lineID)
}

// MarkAllReceived sets every line's to-receive quantity to its
// outstanding remainder and selects every cost not yet booked by an
// earlier receipt. Lines already fully received get zero, so a later
// commit never double-books earlier receipts.
func (e *ReceivingEvent) MarkAllReceived() error {
	if e.Committed {
		return shared.NewInvariantViolation("receiving event %s was already committed", e.ID)
	}

	for idx := range e.Lines {
		e.Lines[idx].ToReceive = e.Lines[idx].Remaining()
	}
	e.AppliedCostIDs = append([]uuid.UUID(nil), e.UnappliedCostIDs...)
	return nil
}

// SetAppliedCosts replaces the set of additional costs this receipt
// will apply. Validation against the order happens at commit.
func (e *ReceivingEvent) SetAppliedCosts(costIDs []uuid.UUID) error {
	if e.Committed {
		return shared.NewInvariantViolation("receiving event %s was already committed", e.ID)
	}

	seen := make(map[uuid.UUID]struct{}, len(costIDs))
	deduped := make([]uuid.UUID, 0, len(costIDs))
	for _, id := range costIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	e.AppliedCostIDs = deduped
	return nil
}

// TotalToReceive returns the sum of to-receive quantities
func (e *ReceivingEvent) TotalToReceive() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.ToReceive)
	}
	return total
}

// ReceivingSessionStore holds in-flight receiving events between
// requests. Events are transient working state, not aggregate data, so
// the store is a cache with a TTL rather than a repository. Committed
// events stay in the store until expiry so a repeated confirm can be
// rejected rather than treated as unknown.
type ReceivingSessionStore interface {
	Put(ctx context.Context, event *ReceivingEvent) error
	Get(ctx context.Context, tenantID, eventID uuid.UUID) (*ReceivingEvent, error)
	Delete(ctx context.Context, tenantID, eventID uuid.UUID) error
}
