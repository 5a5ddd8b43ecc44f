package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one line of a new purchase order
type CreateLineRequest struct {
	ItemID       uuid.UUID
	ItemName     string
	ItemCode     string
	Quantity     decimal.Decimal
	PurchaseCost decimal.Decimal
}

// CreateCostRequest is one additional cost of a new purchase order
type CreateCostRequest struct {
	Name   string
	Amount decimal.Decimal
}

// CreatePurchaseOrderRequest carries the input for creating an order.
// When Submit is true the order is created directly in PENDING, which
// requires at least one line.
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID
	StoreID      uuid.UUID
	OrderDate    *time.Time
	ExpectedDate *time.Time
	Notes        string
	Submit       bool
	Items        []CreateLineRequest
	Costs        []CreateCostRequest
	CreatedBy    *uuid.UUID
}

// UpdatePurchaseOrderRequest is an explicit patch of the order header.
// Nil fields are left unchanged.
type UpdatePurchaseOrderRequest struct {
	Notes        *string
	OrderDate    *time.Time
	ExpectedDate *time.Time
}

// AddLineRequest adds a line to an existing order
type AddLineRequest struct {
	ItemID       uuid.UUID
	ItemName     string
	ItemCode     string
	Quantity     decimal.Decimal
	PurchaseCost decimal.Decimal
}

// UpdateLineRequest is an explicit patch of one order line.
// Nil fields are left unchanged.
type UpdateLineRequest struct {
	Quantity     *decimal.Decimal
	PurchaseCost *decimal.Decimal
}

// AddCostRequest adds an additional cost to an existing order
type AddCostRequest struct {
	Name   string
	Amount decimal.Decimal
}

// ListFilter carries list query options
type ListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	Search     string
	Status     *purchasing.PurchaseOrderStatus
	SupplierID *uuid.UUID
	StoreID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// LineItemResponse is the read model of one order line
type LineItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	ItemCode         string          `json:"item_code,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	RemainingQty     decimal.Decimal `json:"remaining_quantity"`
	PurchaseCost     decimal.Decimal `json:"purchase_cost"`
	Amount           decimal.Decimal `json:"amount"`
}

// CostResponse is the read model of one additional cost
type CostResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Applied   bool            `json:"applied"`
	ReceiptID *uuid.UUID      `json:"receipt_id,omitempty"`
}

// PurchaseOrderResponse is the full read model of an order
type PurchaseOrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     string             `json:"order_number"`
	SupplierID      uuid.UUID          `json:"supplier_id"`
	SupplierName    string             `json:"supplier_name"`
	StoreID         uuid.UUID          `json:"store_id"`
	StoreName       string             `json:"store_name"`
	OrderDate       time.Time          `json:"order_date"`
	ExpectedDate    *time.Time         `json:"expected_date,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Status          string             `json:"status"`
	Items           []LineItemResponse `json:"items"`
	Costs           []CostResponse     `json:"costs"`
	ItemsTotal      decimal.Decimal    `json:"items_total"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	ReceivedSummary string             `json:"received_summary"`
	SubmittedAt     *time.Time         `json:"submitted_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	Version         int                `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// PurchaseOrderListItemResponse is the compact read model for lists
type PurchaseOrderListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	SupplierName    string          `json:"supplier_name"`
	StoreName       string          `json:"store_name"`
	OrderDate       time.Time       `json:"order_date"`
	ExpectedDate    *time.Time      `json:"expected_date,omitempty"`
	Status          string          `json:"status"`
	ItemCount       int             `json:"item_count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ReceivedSummary string          `json:"received_summary"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StatusSummary holds per-status order counts
type StatusSummary struct {
	Draft           int64 `json:"draft"`
	Pending         int64 `json:"pending"`
	PartialReceived int64 `json:"partial_received"`
	Completed       int64 `json:"completed"`
	Total           int64 `json:"total"`
}

// ReceivingLineResponse is the read model of one session line
type ReceivingLineResponse struct {
	LineID          uuid.UUID       `json:"line_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ItemName        string          `json:"item_name"`
	Ordered         decimal.Decimal `json:"ordered"`
	AlreadyReceived decimal.Decimal `json:"already_received"`
	Remaining       decimal.Decimal `json:"remaining"`
	ToReceive       decimal.Decimal `json:"to_receive"`
}

// ReceivingSessionResponse is the read model of an in-flight receipt
type ReceivingSessionResponse struct {
	ID             uuid.UUID               `json:"id"`
	OrderID        uuid.UUID               `json:"order_id"`
	Lines          []ReceivingLineResponse `json:"lines"`
	AppliedCostIDs []uuid.UUID             `json:"applied_cost_ids"`
	TotalToReceive decimal.Decimal         `json:"total_to_receive"`
	Committed      bool                    `json:"committed"`
	OpenedAt       time.Time               `json:"opened_at"`
}

// ToPurchaseOrderResponse maps the aggregate to its read model
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]LineItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = LineItemResponse{
			ID:               item.ID,
			ItemID:           item.ItemID,
			ItemName:         item.ItemName,
			ItemCode:         item.ItemCode,
			Quantity:         item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			RemainingQty:     item.RemainingQuantity(),
			PurchaseCost:     item.PurchaseCost,
			Amount:           item.Amount,
		}
	}

	costs := make([]CostResponse, len(order.Costs))
	for i, cost := range order.Costs {
		costs[i] = CostResponse{
			ID:        cost.ID,
			Name:      cost.Name,
			Amount:    cost.Amount,
			Applied:   cost.Applied,
			ReceiptID: cost.ReceiptID,
		}
	}

	return PurchaseOrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		StoreID:         order.StoreID,
		StoreName:       order.StoreName,
		OrderDate:       order.OrderDate,
		ExpectedDate:    order.ExpectedDate,
		Notes:           order.Notes,
		Status:          order.Status.String(),
		Items:           items,
		Costs:           costs,
		ItemsTotal:      order.ItemsTotal,
		TotalAmount:     order.TotalAmount,
		ReceivedSummary: order.ReceivedSummary(),
		SubmittedAt:     order.SubmittedAt,
		CompletedAt:     order.CompletedAt,
		Version:         order.Version,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses maps orders to compact list items
func ToPurchaseOrderListItemResponses(orders []purchasing.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		order := &orders[i]
		responses[i] = PurchaseOrderListItemResponse{
			ID:              order.ID,
			OrderNumber:     order.OrderNumber,
			SupplierName:    order.SupplierName,
			StoreName:       order.StoreName,
			OrderDate:       order.OrderDate,
			ExpectedDate:    order.ExpectedDate,
			Status:          order.Status.String(),
			ItemCount:       order.ItemCount(),
			TotalAmount:     order.TotalAmount,
			ReceivedSummary: order.ReceivedSummary(),
			CreatedAt:       order.CreatedAt,
		}
	}
	return responses
}

// ToReceivingSessionResponse maps a receiving event to its read model
func ToReceivingSessionResponse(event *purchasing.ReceivingEvent) ReceivingSessionResponse {
	lines := make([]ReceivingLineResponse, len(event.Lines))
	for i, line := range event.Lines {
		lines[i] = ReceivingLineResponse{
			LineID:          line.LineID,
			ItemID:          line.ItemID,
			ItemName:        line.ItemName,
			Ordered:         line.Ordered,
			AlreadyReceived: line.AlreadyReceived,
			Remaining:       line.Remaining(),
			ToReceive:       line.ToReceive,
		}
	}

	return ReceivingSessionResponse{
		ID:             event.ID,
		OrderID:        event.OrderID,
		Lines:          lines,
		AppliedCostIDs: event.AppliedCostIDs,
		TotalToReceive: event.TotalToReceive(),
		Committed:      event.Committed,
		OpenedAt:       event.OpenedAt,
	}
}
