package purchasing

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated   = "PurchaseOrderCreated"
	EventTypePurchaseOrderSubmitted = "PurchaseOrderSubmitted"
	EventTypePurchaseOrderReceived  = "PurchaseOrderReceived"
	EventTypePurchaseOrderCompleted = "PurchaseOrderCompleted"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	StoreID      uuid.UUID `json:"store_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		StoreID:         order.StoreID,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderSubmittedEvent is raised when a draft order is submitted
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	ItemCount   int             `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderSubmittedEvent creates a new PurchaseOrderSubmittedEvent
func NewPurchaseOrderSubmittedEvent(order *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSubmitted, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		StoreID:         order.StoreID,
		ItemCount:       len(order.Items),
		TotalAmount:     order.TotalAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderSubmittedEvent) EventType() string {
	return EventTypePurchaseOrderSubmitted
}

// ReceivedLineInfo describes one line booked by a confirmed receipt
type ReceivedLineInfo struct {
	LineID   uuid.UUID       `json:"line_id"`
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PurchaseOrderReceivedEvent is raised when a receiving event is
// committed against the order
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID          `json:"order_id"`
	OrderNumber    string             `json:"order_number"`
	ReceiptID      uuid.UUID          `json:"receipt_id"`
	StoreID        uuid.UUID          `json:"store_id"`
	Lines          []ReceivedLineInfo `json:"lines"`
	AppliedCostIDs []uuid.UUID        `json:"applied_cost_ids"`
	NewStatus      string             `json:"new_status"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder, receiptID uuid.UUID, lines []ReceivedLineInfo, appliedCostIDs []uuid.UUID) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		ReceiptID:       receiptID,
		StoreID:         order.StoreID,
		Lines:           lines,
		AppliedCostIDs:  appliedCostIDs,
		NewStatus:       order.Status.String(),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderCompletedEvent is raised when the order reaches the
// completed state
type PurchaseOrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderCompletedEvent creates a new PurchaseOrderCompletedEvent
func NewPurchaseOrderCompletedEvent(order *PurchaseOrder) *PurchaseOrderCompletedEvent {
	return &PurchaseOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCompleted, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		StoreID:         order.StoreID,
		TotalAmount:     order.TotalAmount,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCompletedEvent) EventType() string {
	return EventTypePurchaseOrderCompleted
}
